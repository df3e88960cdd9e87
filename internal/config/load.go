package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

const DefaultConfigFile = "blick.toml"

// Load reads and parses a blick configuration file. The format is chosen by
// extension: .yaml and .yml are YAML, anything else is TOML.
// If the file does not exist it returns the defaults for roots (no error).
// A [root] section in the file overrides roots.
func Load(path string, roots SiteRoots) (*Config, error) {
	c := &Config{Root: roots}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			c.applyDefaults()
			return c, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := decode(path, data, c); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	c.applyDefaults()
	return c, nil
}

func decode(path string, data []byte, c *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, c)
	default:
		return toml.Unmarshal(data, c)
	}
}

// Save writes the configuration in the format chosen by the extension of
// path, like Load.
func (c *Config) Save(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return nil
}
