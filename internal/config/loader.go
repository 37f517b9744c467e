package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment override
	EnvPrefix = "OCTOFIT_"

	// EnvConfigFile names a YAML file to load when Load gets no path
	EnvConfigFile = EnvPrefix + "CONFIG"

	dotEnvFile = ".env"
)

// Load builds a Config by layering, lowest precedence first:
//  1. Default()
//  2. a .env file in the working directory, copied into the environment
//  3. the YAML file at path, or at $OCTOFIT_CONFIG when path is empty
//  4. OCTOFIT_* environment variables (OCTOFIT_LOADER_SAMPLE_SET -> loader.sample_set)
//
// The result is not validated; call Validate.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// envKey maps OCTOFIT_SECTION_SOME_KEY to section.some_key. The config
// file variable itself maps to an ignored key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}

// loadDotEnv copies variables from name into the environment without
// overriding ones already set. A missing file is not an error.
func loadDotEnv(name string) error {
	if _, err := os.Stat(name); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(name); err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	return nil
}
