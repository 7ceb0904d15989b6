package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the optional config.yaml file.
// Workspace seed data that is easier to manage in YAML than env vars.
type YAMLConfig struct {
	Agencies []AgencyConfig `yaml:"agencies"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// AgencyConfig declares an agency plus its clients to seed at startup.
type AgencyConfig struct {
	Slug    string         `yaml:"slug"`
	Name    string         `yaml:"name"`
	Clients []ClientConfig `yaml:"clients,omitempty"`
	Columns []ColumnConfig `yaml:"columns,omitempty"` // extra custom columns
}

// ClientConfig declares a client and its registered geography.
type ClientConfig struct {
	Name    string   `yaml:"name"`
	Cities  []string `yaml:"cities,omitempty"`
	States  []string `yaml:"states,omitempty"`
	Regions []string `yaml:"regions,omitempty"`
}

// ColumnConfig declares a custom kanban column.
type ColumnConfig struct {
	ColumnID string `yaml:"column_id"` // must start with "custom_"
	Name     string `yaml:"name"`
	Color    string `yaml:"color"`
	Order    int    `yaml:"order"`
}

// DefaultsConfig defines default settings.
type DefaultsConfig struct {
	UserRole   string `yaml:"user_role"`   // role given to first-login users
	AutoCreate bool   `yaml:"auto_create"` // create missing agencies on reference
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("CONFIG_FILE", "config.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Defaults.UserRole == "" {
		cfg.Defaults.UserRole = "member"
	}

	return &cfg, nil
}

// GetAgencyBySlug finds an agency config by its slug.
func (c *YAMLConfig) GetAgencyBySlug(slug string) *AgencyConfig {
	if c == nil {
		return nil
	}
	for i := range c.Agencies {
		if c.Agencies[i].Slug == slug {
			return &c.Agencies[i]
		}
	}
	return nil
}
