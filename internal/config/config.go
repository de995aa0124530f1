package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"cspoco/internal/typemap"
)

// Config represents the complete configuration.
type Config struct {
	Dialect          string                 `yaml:"dialect" json:"dialect" toml:"dialect"`
	TypeTranslations map[string]Translation `yaml:"typeTranslations" json:"typeTranslations" toml:"typeTranslations"`
	Options          Options                `yaml:"options" json:"options" toml:"options"`
}

// Translation is a user-supplied type translation.
type Translation struct {
	Type    string `yaml:"type" json:"type" toml:"type"`          // Target type expression
	Default string `yaml:"default" json:"default" toml:"default"` // Default value expression
}

// Options represents generation options.
type Options struct {
	PropertyNameCase string   `yaml:"propertyNameCase" json:"propertyNameCase" toml:"propertyNameCase"`
	UseInterfaces    bool     `yaml:"useInterfaces" json:"useInterfaces" toml:"useInterfaces"`
	Indent           string   `yaml:"indent" json:"indent" toml:"indent"`
	IncludeTypes     []string `yaml:"includeTypes" json:"includeTypes" toml:"includeTypes"`
	ExcludeTypes     []string `yaml:"excludeTypes" json:"excludeTypes" toml:"excludeTypes"`
	NilGuidDefault   bool     `yaml:"nilGuidDefault" json:"nilGuidDefault" toml:"nilGuidDefault"`
	IncludeInternal  bool     `yaml:"includeInternal" json:"includeInternal" toml:"includeInternal"`
	MaxDepth         int      `yaml:"maxDepth" json:"maxDepth" toml:"maxDepth"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Dialect:          string(typemap.TypeScript),
		TypeTranslations: make(map[string]Translation),
		Options:          DefaultOptions(),
	}
}

// LoadFile loads configuration from a file (YAML or JSON based on extension).
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	return c.Load(data, strings.ToLower(filepath.Ext(path)))
}

// Load merges configuration data. ext selects the format (".yaml", ".yml",
// ".json", ".toml"); anything else tries YAML, then JSON.
func (c *Config) Load(data []byte, ext string) error {
	var loaded Config
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return fmt.Errorf("parsing YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &loaded); err != nil {
			return fmt.Errorf("parsing JSON config: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &loaded); err != nil {
			return fmt.Errorf("parsing TOML config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			if err := json.Unmarshal(data, &loaded); err != nil {
				return fmt.Errorf("unable to parse config as YAML or JSON")
			}
		}
	}

	c.merge(&loaded)
	return c.Validate()
}

// merge merges the loaded config into the current config.
func (c *Config) merge(loaded *Config) {
	if loaded.Dialect != "" {
		c.Dialect = loaded.Dialect
	}

	// Loaded translations override earlier ones
	for k, v := range loaded.TypeTranslations {
		c.TypeTranslations[k] = v
	}

	if loaded.Options.PropertyNameCase != "" {
		c.Options.PropertyNameCase = loaded.Options.PropertyNameCase
	}
	if loaded.Options.Indent != "" {
		c.Options.Indent = loaded.Options.Indent
	}
	if loaded.Options.MaxDepth > 0 {
		c.Options.MaxDepth = loaded.Options.MaxDepth
	}
	if loaded.Options.UseInterfaces {
		c.Options.UseInterfaces = true
	}
	if loaded.Options.NilGuidDefault {
		c.Options.NilGuidDefault = true
	}
	if loaded.Options.IncludeInternal {
		c.Options.IncludeInternal = true
	}
	if len(loaded.Options.IncludeTypes) > 0 {
		c.Options.IncludeTypes = loaded.Options.IncludeTypes
	}
	if len(loaded.Options.ExcludeTypes) > 0 {
		c.Options.ExcludeTypes = loaded.Options.ExcludeTypes
	}
}

// Validate checks the configuration for valid values.
func (c *Config) Validate() error {
	if _, err := typemap.ParseDialect(c.Dialect); err != nil {
		return err
	}
	switch c.Options.PropertyNameCase {
	case CaseCamel, CasePascal, CasePreserve:
	default:
		return fmt.Errorf("unknown property name case: %s", c.Options.PropertyNameCase)
	}
	for name, tr := range c.TypeTranslations {
		if tr.Type == "" {
			return fmt.Errorf("type translation %q: missing type", name)
		}
	}
	return nil
}

// TargetDialect returns the configured dialect.
func (c *Config) TargetDialect() (typemap.Dialect, error) {
	return typemap.ParseDialect(c.Dialect)
}

// Translations returns the configured type translations as resolver entries.
// A translation without a default initializes to null.
func (c *Config) Translations() map[string]typemap.TranslationFunc {
	entries := make(map[string]typemap.TranslationFunc, len(c.TypeTranslations)+1)
	if c.Options.NilGuidDefault {
		tr := nilGuidTranslation()
		entries["Guid"] = typemap.Translate("Guid", tr.Type, tr.Default)
	}
	for name, tr := range c.TypeTranslations {
		def := tr.Default
		if def == "" {
			def = "null"
		}
		entries[name] = typemap.Translate(name, tr.Type, def)
	}
	return entries
}

// NewResolver builds a resolver for the configured dialect with the
// configured translations merged over the built-in ones.
func (c *Config) NewResolver(opts ...typemap.Option) (*typemap.Resolver, error) {
	dialect, err := c.TargetDialect()
	if err != nil {
		return nil, err
	}
	table, err := typemap.NewTable(dialect)
	if err != nil {
		return nil, err
	}
	opts = append([]typemap.Option{typemap.WithMaxDepth(c.Options.MaxDepth)}, opts...)
	r := typemap.NewResolver(table, opts...)
	r.RegisterTranslations(c.Translations())
	return r, nil
}

// ShouldIncludeType checks if a type should be included based on config.
func (c *Config) ShouldIncludeType(name string, isPublic bool) bool {
	// Non-public declarations are skipped unless asked for
	if !c.Options.IncludeInternal && !isPublic {
		return false
	}

	// Check include list (if specified, type must be in it)
	if len(c.Options.IncludeTypes) > 0 {
		found := false
		for _, t := range c.Options.IncludeTypes {
			if t == name {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	// Check exclude list
	for _, t := range c.Options.ExcludeTypes {
		if t == name {
			return false
		}
	}

	return true
}
