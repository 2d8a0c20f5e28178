package data

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pv-pipeline/internal/config"
)

// Project is one folder of series configs under the projects root.
type Project struct {
	Name string `json:"name"`
	Path string `json:"path"`
	// Configs lists the JSON series-config files inside the folder.
	Configs []string `json:"configs"`
}

// DefaultProjectsDir returns the projects root, overridable via the
// PROJECTS_DIR environment variable.
func DefaultProjectsDir() string {
	if dir := os.Getenv("PROJECTS_DIR"); dir != "" {
		return dir
	}
	return "./projects"
}

// ListProjects scans the projects root for project folders.
func ListProjects(root string) ([]Project, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read projects dir %s: %w", root, err)
	}
	var projects []Project
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		p, err := LoadProjectDir(filepath.Join(root, e.Name()))
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects, nil
}

// LoadProjectDir lists the series configs of a single project folder. A
// project.yml manifest, when present, names and orders the series; without
// one every *.json config in the folder is picked up alphabetically.
func LoadProjectDir(dir string) (*Project, error) {
	for _, manifest := range []string{"project.yml", "project.yaml"} {
		path := filepath.Join(dir, manifest)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		pc, err := config.LoadProject(path)
		if err != nil {
			return nil, err
		}
		return &Project{Name: pc.Name, Path: dir, Configs: pc.Series}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read project dir %s: %w", dir, err)
	}
	p := &Project{Name: filepath.Base(dir), Path: dir, Configs: []string{}}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		p.Configs = append(p.Configs, filepath.Join(dir, e.Name()))
	}
	sort.Strings(p.Configs)
	return p, nil
}
