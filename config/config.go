package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	Discord struct {
		AppID    string `koanf:"app_id" yaml:"app_id"`
		BotToken string `koanf:"bot_token" yaml:"bot_token"`
		// GuildID registers commands to a single guild instead of globally.
		GuildID string `koanf:"guild_id" yaml:"guild_id"`
	} `koanf:"discord" yaml:"discord"`

	HTTP struct {
		Port int `koanf:"port" yaml:"port"`
	} `koanf:"http" yaml:"http"`

	Log struct {
		Level  string `koanf:"level" yaml:"level"`
		Format string `koanf:"format" yaml:"format"`
	} `koanf:"log" yaml:"log"`

	Presence struct {
		Activity    string `koanf:"activity" yaml:"activity"`
		RefreshCron string `koanf:"refresh_cron" yaml:"refresh_cron"`
	} `koanf:"presence" yaml:"presence"`
}

// Defaults are applied before any file or environment source.
var Defaults = map[string]interface{}{
	"http.port":             3000,
	"log.level":             "info",
	"log.format":            "pretty",
	"presence.activity":     "Collecting proof of work",
	"presence.refresh_cron": "0 */30 * * * *",
}

// DefaultLocations are searched in order for a config file; the first one found is used.
var DefaultLocations = []string{
	"/etc/app/config.yaml",            // Standard system location
	"/config/config.yaml",             // Docker mounted volume location
	filepath.Join(".", "config.yaml"), // Local file in current directory
}

// legacyEnv maps the variable names used by earlier deployments onto config keys.
var legacyEnv = map[string]string{
	"DISCORD_BOT_TOKEN": "discord.bot_token",
	"CLIENT_ID":         "discord.app_id",
	"PORT":              "http.port",
}

// Global singleton config instance
var (
	cfg  *AppConfig
	once sync.Once
)

// Get returns the global AppConfig instance
func Get() *AppConfig {
	once.Do(func() {
		var err error
		cfg, err = Load(DefaultLocations...)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
	})
	return cfg
}

// Load reads configuration with the following precedence, lowest first:
// defaults, the first existing file in locations, legacy environment variables,
// then APP_ prefixed environment variables. A .env file in the working directory
// is loaded into the environment first without overriding variables already set.
func Load(locations ...string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	configLoaded := false
	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			slog.Info("Loading configuration file", "path", loc)
			if err := k.Load(file.Provider(loc), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("error loading config file %s: %w", loc, err)
			}
			configLoaded = true
			break
		}
	}

	if !configLoaded {
		slog.Warn("No config file found in any of the expected locations",
			"searched_locations", locations)
	}

	// Legacy names, e.g. DISCORD_BOT_TOKEN -> discord.bot_token. Everything else is skipped,
	// as are empty values.
	legacy := func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return legacyEnv[key], value
	}
	if err := k.Load(env.ProviderWithValue("", ".", legacy), nil); err != nil {
		return nil, fmt.Errorf("error loading legacy environment variables: %w", err)
	}

	// Environment variables (highest priority)
	// Format: APP_DISCORD_BOT_TOKEN -> discord.bot_token
	callback := func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		key = strings.ToLower(strings.TrimPrefix(key, "APP_"))
		return strings.Replace(key, "_", ".", 1), value
	}
	if err := k.Load(env.ProviderWithValue("APP_", ".", callback), nil); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	var cfg AppConfig
	decoderConfig := koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
		},
	}

	if err := k.UnmarshalWithConf("", &cfg, decoderConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Log configuration details (with sensitive information redacted)
	slog.Debug("Configuration loaded",
		"discord_app_id", cfg.Discord.AppID,
		"discord_guild_id", cfg.Discord.GuildID,
		"bot_token_present", cfg.Discord.BotToken != "",
		"http_port", cfg.HTTP.Port,
		"log_format", cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the bot cannot start without.
func (c *AppConfig) Validate() error {
	if c.Discord.BotToken == "" {
		return fmt.Errorf("discord.bot_token is required")
	}
	if c.Discord.AppID == "" {
		return fmt.Errorf("discord.app_id is required")
	}
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	return nil
}
