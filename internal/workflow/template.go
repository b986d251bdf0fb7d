package workflow

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Template is a named parameter bundle for one operation, so a team can
// share presets like "podcast-cleanup" instead of retyping flags.
type Template struct {
	Name   string            `yaml:"name"`
	Op     string            `yaml:"op"`
	Params map[string]string `yaml:"params"`
}

// TemplateFile holds several templates keyed by name.
type TemplateFile struct {
	Templates []Template `yaml:"templates"`
}

// ParseTemplates decodes a template document and indexes it by name.
func ParseTemplates(data []byte) (map[string]Template, error) {
	var file TemplateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	byName := make(map[string]Template, len(file.Templates))
	for _, tpl := range file.Templates {
		if tpl.Name == "" {
			return nil, fmt.Errorf("template with empty name")
		}
		if tpl.Op == "" {
			return nil, fmt.Errorf("template %q has no operation", tpl.Name)
		}
		if _, dup := byName[tpl.Name]; dup {
			return nil, fmt.Errorf("duplicate template %q", tpl.Name)
		}
		byName[tpl.Name] = tpl
	}
	return byName, nil
}

// LoadTemplates reads and parses a template file.
func LoadTemplates(path string) (map[string]Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	return ParseTemplates(data)
}

// Apply merges explicit overrides over the template's parameters and
// returns the operation plus the merged set.
func (t Template) Apply(overrides map[string]string) (string, map[string]string) {
	merged := make(map[string]string, len(t.Params)+len(overrides))
	for k, v := range t.Params {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return t.Op, merged
}
