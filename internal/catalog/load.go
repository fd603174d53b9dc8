package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type file struct {
	Currency string   `yaml:"currency"`
	Servers  []string `yaml:"servers"`
	Bundles  []Bundle `yaml:"bundles"`
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return New(f.Currency, f.Servers, f.Bundles)
}
