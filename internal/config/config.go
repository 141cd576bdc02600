// Package config loads the buildergen settings from flags, environment and file.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/origadmin/buildergen/internal/directive"
)

// Config represents the buildergen configuration
type Config struct {
	// Types lists the structs to generate; empty selects //derive:builder types.
	Types               []string `mapstructure:"types"`
	Output              string   `mapstructure:"output"`
	OptionalPackage     string   `mapstructure:"optional_package"`
	DuplicateAttributes string   `mapstructure:"duplicate_attributes"`
	Tags                []string `mapstructure:"tags"`
	Workers             int      `mapstructure:"workers"`
	DryRun              bool     `mapstructure:"dry_run"`
	Debug               bool     `mapstructure:"debug"`
	LogFile             string   `mapstructure:"log_file"`
}

// NewViper returns a viper instance with defaults and environment support set up.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("types", []string{})
	v.SetDefault("output", "")
	v.SetDefault("optional_package", "github.com/origadmin/buildergen/optional")
	v.SetDefault("duplicate_attributes", string(directive.DuplicateError))
	v.SetDefault("tags", []string{})
	v.SetDefault("workers", 0)
	v.SetDefault("dry_run", false)
	v.SetDefault("debug", false)
	v.SetDefault("log_file", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration file, if any, and decodes the merged settings.
// file overrides the default lookup of .buildergen.yaml in dir.
func Load(v *viper.Viper, dir, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the decoded values.
func (c *Config) Validate() error {
	if !c.Duplicates().Valid() {
		return fmt.Errorf("invalid duplicate_attributes %q: want %q or %q",
			c.DuplicateAttributes, directive.DuplicateError, directive.DuplicateFirst)
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid workers %d: must not be negative", c.Workers)
	}
	if c.Output != "" && filepath.Ext(c.Output) != ".go" {
		return fmt.Errorf("invalid output %q: must be a .go file", c.Output)
	}
	if c.OptionalPackage == "" {
		return errors.New("optional_package must not be empty")
	}
	for _, t := range c.Types {
		if strings.TrimSpace(t) == "" {
			return errors.New("types must not contain empty names")
		}
	}
	return nil
}

// Duplicates returns the duplicate directive policy.
func (c *Config) Duplicates() directive.DuplicatePolicy {
	return directive.DuplicatePolicy(c.DuplicateAttributes)
}

// OutputPath returns where the generated file goes. Without an explicit
// output it is <first record, lowercased>_builder.gen.go inside dir.
func (c *Config) OutputPath(dir, firstRecord string) string {
	name := c.Output
	if name == "" {
		name = strings.ToLower(firstRecord) + "_builder.gen.go"
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}
