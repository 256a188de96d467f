// Package config loads stor's layered configuration: built-in
// defaults, then the user's stor.toml under the XDG config directory,
// then STOR_* environment variables. Command-line flags override all
// of it and are merged by the CLI layer.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/stor/pkg/errors"
)

// ConfigFileName is the name of the user configuration file
const ConfigFileName = "stor.toml"

// EnvPrefix is the prefix for environment variable overrides
const EnvPrefix = "STOR_"

// Config holds run defaults that flags may override
type Config struct {
	// Target is the default target directory; empty means the home
	// directory resolved at run time.
	Target string `koanf:"target"`

	// Copy, Overwrite and Simulate are default policy flags.
	Copy      bool `koanf:"copy"`
	Overwrite bool `koanf:"overwrite"`
	Simulate  bool `koanf:"simulate"`
}

// DefaultPath returns the location of the user configuration file
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "stor", ConfigFileName)
}

// Load reads configuration from the default location
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom reads configuration with the given file as the middle layer.
// A missing file is not an error; a malformed one is.
func LoadFrom(path string) (*Config, error) {
	k := koanf.New(".")

	// 1. Built-in defaults
	defaults := map[string]interface{}{
		"target":    "",
		"copy":      false,
		"overwrite": false,
		"simulate":  false,
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User config file, if present
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path)
		}
	}

	// 3. Environment overrides: STOR_TARGET, STOR_COPY, ...
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return &cfg, nil
}
