package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		Archive
		Parser
		Output
		Global
	}

	Archive struct {
		Path        string        // SQLite archive; empty disables archiving
		LockTimeout time.Duration // How long to wait for the archive lock
	}
	Parser struct {
		DateLayouts []string // Extra Go time layouts tried after the device layout
	}
	Output struct {
		Summary bool // Print a per-document summary table to stderr
	}
	Global struct {
		Verbose bool
	}
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("archive_path", "")
	v.SetDefault("lock_timeout", DefaultLockTimeout)
	v.SetDefault("date_layouts", []string{})
	v.SetDefault("summary", false)
	v.SetDefault("verbose", false)
	return v
}

// NewConfig builds the configuration from defaults and CLIPPINGS_* env vars.
func NewConfig() *Config {
	return fromViper(newViper())
}

// LoadConfig additionally reads the config file at path, if path is set.
// Environment variables take precedence over file values.
func LoadConfig(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Archive: Archive{
			Path:        v.GetString("archive_path"),
			LockTimeout: v.GetDuration("lock_timeout"),
		},
		Parser: Parser{
			DateLayouts: dateLayouts(v),
		},
		Output: Output{
			Summary: v.GetBool("summary"),
		},
		Global: Global{
			Verbose: v.GetBool("verbose"),
		},
	}
}

// dateLayouts accepts a list from a config file or a ";"-separated string
// from the environment. Layouts contain commas and spaces, so neither can
// be the separator.
func dateLayouts(v *viper.Viper) []string {
	raw := v.Get("date_layouts")
	var layouts []string
	switch value := raw.(type) {
	case string:
		layouts = strings.Split(value, ";")
	default:
		layouts = v.GetStringSlice("date_layouts")
	}

	cleaned := make([]string, 0, len(layouts))
	for _, layout := range layouts {
		if layout = strings.TrimSpace(layout); layout != "" {
			cleaned = append(cleaned, layout)
		}
	}
	return cleaned
}
