package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "SCRAM_"

// Load layers configuration in increasing priority: compiled-in defaults, a
// YAML file at path (skipped if path is empty or does not exist), SCRAM_-
// prefixed environment variables, then CLI flags — the same confmap -> file
// -> env -> posflag provider order leapsql's loader uses.
func Load(path string, flags *pflag.FlagSet) (Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults().asMap(), "."), nil); err != nil {
		return Settings{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Settings{}, fmt.Errorf("load config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Settings{}, fmt.Errorf("stat config file %s: %w", path, err)
		}
	}

	envLoader := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envLoader, nil); err != nil {
		return Settings{}, fmt.Errorf("load environment overrides: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Settings{}, fmt.Errorf("load flag overrides: %w", err)
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}
