package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig is an optional YAML manifest inside a project folder that
// names and orders the series to load together. Folders without one are
// browsed directly (every *.json series config in the folder).
type ProjectConfig struct {
	Name   string   `yaml:"name"`
	Series []string `yaml:"series"`
}

// LoadProject reads a project manifest and resolves the series paths
// against the manifest's directory.
func LoadProject(path string) (*ProjectConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p ProjectConfig
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(p.Series) == 0 {
		return nil, fmt.Errorf("%s: project manifest lists no series", path)
	}
	dir := filepath.Dir(path)
	for i, s := range p.Series {
		if !filepath.IsAbs(s) {
			p.Series[i] = filepath.Join(dir, s)
		}
	}
	if p.Name == "" {
		p.Name = filepath.Base(dir)
	}
	return &p, nil
}
