// Package config loads client settings from defaults, an optional YAML
// file, CODEFIX_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codefix/internal/backend"
	"codefix/internal/drag"
	"codefix/internal/session"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "CODEFIX"

// Config is the resolved client configuration.
type Config struct {
	BaseURL        string        `mapstructure:"base_url" yaml:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	Editor         EditorConfig  `mapstructure:"editor" yaml:"editor"`
	Log            LogConfig     `mapstructure:"log" yaml:"log"`
	OTLP           OTLPConfig    `mapstructure:"otlp" yaml:"otlp"`
}

// EditorConfig seeds the editor pane.
type EditorConfig struct {
	Width       float64 `mapstructure:"width" yaml:"width"` // percent, clamped to [20,80]
	InitialCode string  `mapstructure:"initial_code" yaml:"initial_code"`
}

// LogConfig selects the log sink.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	File   string `mapstructure:"file" yaml:"file"`
}

// OTLPConfig enables span export when Endpoint is set.
type OTLPConfig struct {
	Endpoint    string `mapstructure:"endpoint" yaml:"endpoint"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL: backend.DefaultBaseURL,
		Editor: EditorConfig{
			Width:       drag.DefaultPercent,
			InitialCode: session.DefaultCode,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		OTLP: OTLPConfig{
			ServiceName: "codefix",
		},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/codefix/config.yaml (or the OS equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "codefix", "config.yaml"), nil
}

// NewViper returns a viper instance with defaults and environment bindings.
func NewViper() (*viper.Viper, error) {
	def := Default()
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("base_url", def.BaseURL)
	v.SetDefault("request_timeout", def.RequestTimeout)
	v.SetDefault("editor.width", def.Editor.Width)
	v.SetDefault("editor.initial_code", def.Editor.InitialCode)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("otlp.endpoint", def.OTLP.Endpoint)
	v.SetDefault("otlp.service_name", def.OTLP.ServiceName)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The standard OpenTelemetry variables are honoured as fallbacks.
	if err := v.BindEnv("otlp.endpoint", EnvPrefix+"_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT"); err != nil {
		return nil, fmt.Errorf("bind otlp.endpoint: %w", err)
	}
	if err := v.BindEnv("otlp.service_name", EnvPrefix+"_OTLP_SERVICE_NAME", "OTEL_SERVICE_NAME"); err != nil {
		return nil, fmt.Errorf("bind otlp.service_name: %w", err)
	}
	return v, nil
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"base-url":  "base_url",
	"timeout":   "request_timeout",
	"width":     "editor.width",
	"log-level": "log.level",
	"log-file":  "log.file",
}

// RegisterFlags adds the overridable settings to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	def := Default()
	fs.String("config", "", "path to config file (default $XDG_CONFIG_HOME/codefix/config.yaml)")
	fs.String("base-url", def.BaseURL, "backend base URL")
	fs.Duration("timeout", def.RequestTimeout, "per-request timeout (0 = transport default)")
	fs.Float64("width", def.Editor.Width, "initial editor width in percent (20-80)")
	fs.String("log-level", def.Log.Level, "log level: trace, debug, info, warn, error")
	fs.String("log-file", def.Log.File, "log file path (default $TMPDIR/codefix.log)")
}

// BindFlags makes explicitly set flags override file and environment.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// Load reads path (or the default path when empty) and resolves the
// configuration. A missing default file is not an error; a missing
// explicit file is.
func Load(v *viper.Viper, path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
			if explicit || !missing {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Normalize(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Normalize validates the config and clamps soft limits in place.
func (c *Config) Normalize() error {
	base, err := backend.NormalizeBaseURL(c.BaseURL)
	if err != nil {
		return err
	}
	c.BaseURL = base
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative, got %s", c.RequestTimeout)
	}
	c.Editor.Width = drag.Clamp(c.Editor.Width)
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// WriteDefault writes the built-in configuration to path as YAML. It
// refuses to overwrite an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
