// Package config loads dbiso's runtime configuration from a config file
// and the environment, in that order of increasing precedence, using viper
// the same way the rest of the example pack wires configuration.
// Command-line flags are not read here.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds the settings dbiso needs outside of a single command's own
// flags: a default database connection string, the pattern directory to
// watch, and log verbosity.
type Config struct {
	// DatabaseURL is used by any command invoked without an explicit --db
	// flag. Empty means no default is configured.
	DatabaseURL string `mapstructure:"database_url"`

	// PatternDir names a directory of pattern files. `dbiso match --watch`
	// does not read it; it watches the directory of its --pattern file.
	PatternDir string `mapstructure:"pattern_dir"`

	// LogLevel names a fortio.org/log level ("debug", "info", "warn",
	// "error").
	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from (in order of increasing precedence):
// defaults, a config file named "dbiso" (searched as .yaml/.yml/.json in
// the current directory and $HOME), and environment variables prefixed
// DBISO_ (so DBISO_DATABASE_URL overrides database_url, etc). A missing
// config file is not an error; a malformed one is.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("database_url", "")
	v.SetDefault("pattern_dir", "patterns")
	v.SetDefault("log_level", "info")

	v.SetConfigName("dbiso")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")

	v.SetEnvPrefix("dbiso")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
