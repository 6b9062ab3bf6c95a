package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	UI       UIConfig
	Log      LogConfig
	HTTP     HTTPConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// Index is the data source annotations are created in.
	Index      string
	User       string
	DateFormat string `mapstructure:"date_format"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string
	Format string
	// File receives log output; the terminal belongs to the TUI.
	File string
}

// HTTPConfig holds the API server settings.
type HTTPConfig struct {
	Addr string
}

func configDir() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "annotate")
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "annotate")
}

// Load reads configuration from file and env. Env var overrides use prefix ANNOTATE_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(dataDir(), "annotate.db"))
	v.SetDefault("ui.index", "default-index")
	v.SetDefault("ui.user", "annotate")
	v.SetDefault("ui.date_format", "2006-01-02 15:04")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", filepath.Join(dataDir(), "annotate.log"))
	v.SetDefault("http.addr", "127.0.0.1:8199")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("ANNOTATE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(configDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ANNOTATE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit path that cannot be read is an error; a missing default file is not.
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("ANNOTATE_CONFIG")
	if path == "" {
		path = filepath.Join(configDir(), "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("ui.index", cfg.UI.Index)
	v.Set("ui.user", cfg.UI.User)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("log.file", cfg.Log.File)
	v.Set("http.addr", cfg.HTTP.Addr)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
