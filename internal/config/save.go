package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// fileMode keeps the API key private to the owner.
const fileMode = 0o600

// ToMap returns the record as the key/value map written to config.yml.
func (c Configuration) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"url":     c.URL,
		"key":     c.Key,
		"model":   c.Model,
		"lang":    c.Lang,
		"emoji":   c.Emoji,
		"timeout": c.Timeout.String(),
	}
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(cfg Configuration, path string) error {
	if err := ValidateConfigValues(&cfg, path); err != nil {
		return err
	}
	return updateFile(path, cfg.ToMap())
}

// SetValue validates value against the key schema and writes it into the
// YAML file at path, keeping every other key already in the file.
func SetValue(path, key, value string) (ParsedValue, error) {
	parsed, err := ValidateValue(key, value)
	if err != nil {
		return ParsedValue{}, err
	}
	if err := updateFile(path, map[string]interface{}{key: parsed.Parsed}); err != nil {
		return ParsedValue{}, err
	}
	return parsed, nil
}

// updateFile merges values into the YAML document at path. A missing file
// starts from the commented default template; comments on existing keys
// survive the rewrite.
func updateFile(path string, values map[string]interface{}) error {
	src, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		src = []byte(GetDefaultConfigTemplate())
	case err != nil:
		return fmt.Errorf("reading %s: %w", path, err)
	default:
		if err := ValidateYAMLSyntaxFromBytes(src, path); err != nil {
			return err
		}
	}

	doc, err := parseDocument(src)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	root := doc.Content[0]
	for _, key := range keys {
		if err := setMappingValue(root, key, values[key]); err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return writeConfigFile(path, out)
}

// parseDocument returns src as a document node whose root is a mapping.
// Empty or comment-only input yields an empty mapping.
func parseDocument(src []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		doc.Kind = yaml.DocumentNode
	}
	if len(doc.Content) == 0 {
		doc.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}
	if doc.Kind != yaml.DocumentNode || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top level must be a mapping of keys")
	}
	return &doc, nil
}

// setMappingValue replaces the value for key in mapping m, or appends the
// pair. The line comment of a replaced value is carried over.
func setMappingValue(m *yaml.Node, key string, value interface{}) error {
	var v yaml.Node
	if err := v.Encode(value); err != nil {
		return err
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value != key {
			continue
		}
		old := m.Content[i+1]
		v.LineComment = old.LineComment
		v.HeadComment = old.HeadComment
		v.FootComment = old.FootComment
		m.Content[i+1] = &v
		return nil
	}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, &v)
	return nil
}

func writeConfigFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, fileMode); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, fileMode); err != nil {
		return fmt.Errorf("failed to restrict config permissions: %w", err)
	}
	return nil
}
