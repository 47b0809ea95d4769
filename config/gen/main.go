// Command gen writes config.example.yaml, a config file filled with the defaults.
package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/brensch/proofbot/config"
)

func main() {
	slog.Info("generating example config")

	var example config.AppConfig
	example.Discord.AppID = "your_application_id"
	example.Discord.BotToken = "your_bot_token"

	// Defaults are flat dotted keys, so expand them before decoding onto the struct.
	nested := map[string]interface{}{}
	for key, value := range config.Defaults {
		section, field, _ := strings.Cut(key, ".")
		m, ok := nested[section].(map[string]interface{})
		if !ok {
			m = map[string]interface{}{}
			nested[section] = m
		}
		m[field] = value
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "koanf",
		Result:  &example,
	})
	if err != nil {
		slog.Error("failed to build decoder", "err", err)
		os.Exit(1)
	}
	if err := decoder.Decode(nested); err != nil {
		slog.Error("failed to apply defaults", "err", err)
		os.Exit(1)
	}

	confYAML, err := yaml.Marshal(example)
	if err != nil {
		slog.Error("failed to marshal example yaml", "err", err)
		os.Exit(1)
	}

	err = os.WriteFile("./config.example.yaml", confYAML, 0644)
	if err != nil {
		slog.Error("failed to write example conf to file", "err", err)
		os.Exit(1)
	}
}

