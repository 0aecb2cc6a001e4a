// Package config loads sfassess settings from defaults, an optional YAML
// file, a .env file and SFASSESS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/sfassess/internal/llm"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "SFASSESS"

// DefaultSessionKey is the store key of the single in-progress assessment.
const DefaultSessionKey = "currentAssessment"

type Config struct {
	DBPath      string `mapstructure:"db_path"`
	CatalogPath string `mapstructure:"catalog_path"`
	SessionKey  string `mapstructure:"session_key"`

	Log     LogConfig     `mapstructure:"log"`
	Server  ServerConfig  `mapstructure:"server"`
	Export  ExportConfig  `mapstructure:"export"`
	Storage StorageConfig `mapstructure:"storage"`
	LLM     LLMConfig     `mapstructure:"llm"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// Mode is the gin mode: debug, release or test.
	Mode string `mapstructure:"mode"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// StorageConfig points at an S3-compatible bucket for exported workbooks.
// An empty Endpoint disables uploads.
type StorageConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// Enabled reports whether uploads are configured.
func (s StorageConfig) Enabled() bool { return s.Endpoint != "" }

type LLMConfig struct {
	Provider string        `mapstructure:"provider"`
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Provider converts the LLM section into an llm.Config with the default
// retry policy. A missing key is read from the provider's own environment
// variable; provider "auto" picks the first provider with a key set.
func (c LLMConfig) Provider() llm.Config {
	cfg := llm.DefaultConfig()
	cfg.Provider = c.Provider
	cfg.Model = c.Model
	cfg.APIKey = c.APIKey
	cfg.BaseURL = c.BaseURL
	if c.Timeout > 0 {
		cfg.Timeout = c.Timeout
	}
	switch c.Provider {
	case "auto":
		cfg.Provider = ""
		cfg, _ = llm.DiscoverConfig(cfg)
	case "", llm.ProviderNone:
	default:
		cfg, _ = llm.DiscoverConfig(cfg)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db_path", "")
	v.SetDefault("catalog_path", "")
	v.SetDefault("session_key", DefaultSessionKey)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.mode", "release")

	v.SetDefault("export.dir", ".")

	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.prefix", "assessments/")
	v.SetDefault("storage.use_ssl", true)

	v.SetDefault("llm.provider", llm.ProviderNone)
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", llm.DefaultConfig().Timeout)
}

// Load reads configuration. When path is empty it looks for sfassess.yaml
// in the working directory and then in $XDG_CONFIG_HOME/sfassess; a
// missing file is not an error. A .env file in the working directory is
// loaded first without overriding variables already set.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("sfassess")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration Load produces with no file and no
// environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate rejects settings that would fail later at use.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SessionKey) == "" {
		return errors.New("config: session_key must not be empty")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q must be debug, release or test", c.Server.Mode)
	}
	if s := c.Storage; s.Enabled() {
		var missing []string
		if s.Bucket == "" {
			missing = append(missing, "bucket")
		}
		if s.AccessKey == "" {
			missing = append(missing, "access_key")
		}
		if s.SecretKey == "" {
			missing = append(missing, "secret_key")
		}
		if len(missing) > 0 {
			return fmt.Errorf("config: storage.endpoint is set but storage.%s is missing", strings.Join(missing, ", storage."))
		}
	}
	if c.LLM.Provider != "auto" && !slices.Contains(llm.Providers, c.LLM.Provider) {
		return fmt.Errorf("config: llm.provider %q must be auto or one of %s", c.LLM.Provider, strings.Join(llm.Providers, ", "))
	}
	if c.LLM.Timeout < 0 {
		return errors.New("config: llm.timeout must not be negative")
	}
	return nil
}

func configDir() (string, error) {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "sfassess"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "sfassess"), nil
}
