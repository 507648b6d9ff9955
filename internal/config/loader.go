package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, the optional YAML config
// file, and environment variables.
// Order of precedence (low -> high):
//  1. defaults (DefaultConfig)
//  2. file (YAML) at the XDG config path, if present
//  3. env (prefix VITALSYNC_, e.g. VITALSYNC_TIMEZONE,
//     VITALSYNC_DRIVE__FOLDER_ID)
func Load() (*Config, error) {
	return LoadFrom(GetPaths().ConfigFile)
}

// LoadFrom is Load with an explicit config file path, for tests.
func LoadFrom(path string) (*Config, error) {
	k := koanf.New(".")

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	// Double underscore separates nesting levels: shells cannot export
	// names containing dots, so VITALSYNC_DRIVE__FOLDER_ID maps to
	// drive.folder_id.
	envProvider := env.Provider("VITALSYNC_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "VITALSYNC_"))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}
