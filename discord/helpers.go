package discord

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// optionTag is the parsed form of a "discord" struct tag.
type optionTag struct {
	name  string
	attrs map[string]string
}

func (o optionTag) optional() bool {
	_, ok := o.attrs["optional"]
	return ok
}

// parseDiscordTag parses a struct tag value such as
// "video_url,optional,description:desc,choices:val1|Label1;val2|Label2,default:foo".
// The first element is the option name, which is also the key mapstructure decodes from.
// An empty name falls back to the lowercased field name.
func parseDiscordTag(field reflect.StructField) optionTag {
	parts := strings.Split(field.Tag.Get("discord"), ",")
	tag := optionTag{
		name:  strings.TrimSpace(parts[0]),
		attrs: make(map[string]string),
	}
	if tag.name == "" {
		tag.name = strings.ToLower(field.Name)
	}
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, ":", 2)
		if len(kv) == 2 {
			tag.attrs[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		} else {
			tag.attrs[part] = "true"
		}
	}
	return tag
}

// parseChoices parses a choices string (e.g. "val1|Label1;val2|Label2")
// and returns a slice of discordgo.ApplicationCommandOptionChoice.
func parseChoices(s string) []*discordgo.ApplicationCommandOptionChoice {
	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "|", 2)
		value, name := parts[0], parts[0]
		if len(parts) == 2 {
			name = parts[1]
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  name,
			Value: value,
		})
	}
	return choices
}

// structFields returns the exported fields of the struct behind req along with its value.
func structFields(req interface{}) (reflect.Value, []reflect.StructField, error) {
	v := reflect.ValueOf(req)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, nil, fmt.Errorf("request is not a struct")
	}

	var fields []reflect.StructField
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			fields = append(fields, t.Field(i))
		}
	}
	return v, fields, nil
}

// setDefaults sets every zero field of the struct pointed to by req to the
// "default" value from its discord tag.
func setDefaults(req interface{}) error {
	if v := reflect.ValueOf(req); v.Kind() != reflect.Ptr {
		return fmt.Errorf("setDefaults: req is not a pointer to struct")
	}
	v, fields, err := structFields(req)
	if err != nil {
		return fmt.Errorf("setDefaults: %w", err)
	}

	for _, field := range fields {
		fieldVal := v.FieldByIndex(field.Index)
		if !fieldVal.CanSet() || !fieldVal.IsZero() {
			continue
		}
		def, ok := parseDiscordTag(field).attrs["default"]
		if !ok || def == "" {
			continue
		}
		converted, err := convertType(def, field.Type)
		if err != nil {
			return fmt.Errorf("default for %s: %w", field.Name, err)
		}
		fieldVal.Set(converted)
	}

	return nil
}

// checkRequired rejects a request whose required options were left empty.
// Discord enforces required options client side, so this only trips on hand-crafted payloads.
func checkRequired(req interface{}) error {
	v, fields, err := structFields(req)
	if err != nil {
		return err
	}
	for _, field := range fields {
		tag := parseDiscordTag(field)
		if tag.optional() {
			continue
		}
		if v.FieldByIndex(field.Index).IsZero() {
			return InvalidInput(fmt.Sprintf("❌ Missing required option `%s`.", tag.name))
		}
	}
	return nil
}

// convertType converts a string value to a reflect.Value of type t for basic types.
func convertType(val string, t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(val).Convert(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(i).Convert(t), nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(f).Convert(t), nil
	case reflect.Bool:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(b).Convert(t), nil
	default:
		return reflect.Value{}, fmt.Errorf("unsupported type for default conversion: %s", t.Kind())
	}
}

// structToCommandOptions uses reflection to generate Discord command options from a request struct.
// Required options are listed first, as Discord rejects commands that order them otherwise.
func structToCommandOptions(req Request) ([]*discordgo.ApplicationCommandOption, error) {
	_, fields, err := structFields(req)
	if err != nil {
		return nil, err
	}

	var required, optional []*discordgo.ApplicationCommandOption
	for _, field := range fields {
		tag := parseDiscordTag(field)

		var optionType discordgo.ApplicationCommandOptionType
		switch field.Type.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			optionType = discordgo.ApplicationCommandOptionInteger
		case reflect.Float32, reflect.Float64:
			optionType = discordgo.ApplicationCommandOptionNumber
		case reflect.Bool:
			optionType = discordgo.ApplicationCommandOptionBoolean
		default:
			optionType = discordgo.ApplicationCommandOptionString
		}

		description := "Auto-generated option for " + tag.name
		if desc := tag.attrs["description"]; desc != "" {
			description = desc
		}

		opt := &discordgo.ApplicationCommandOption{
			Type:        optionType,
			Name:        tag.name,
			Description: description,
			Required:    !tag.optional(),
		}
		if choicesStr := tag.attrs["choices"]; choicesStr != "" {
			opt.Choices = parseChoices(choicesStr)
		}

		if opt.Required {
			required = append(required, opt)
		} else {
			optional = append(optional, opt)
		}
	}

	return append(required, optional...), nil
}
