package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"searchbar/internal/models"
)

// YAMLConfig represents the structure of the config.yaml file.
// Blocks and pages listed here are upserted at startup.
type YAMLConfig struct {
	Blocks []BlockConfig `yaml:"blocks"`
	Pages  []PageConfig  `yaml:"pages"`
}

// BlockConfig defines a search block in the YAML config.
type BlockConfig struct {
	Slug                      string `yaml:"slug"`
	Label                     string `yaml:"label"`
	models.BlockConfiguration `yaml:",inline"`
}

// PageConfig defines a page in the YAML config.
type PageConfig struct {
	Path  string `yaml:"path"`            // System path, e.g. "/node/12"
	Alias string `yaml:"alias,omitempty"` // Canonical alias, e.g. "/scores"
	Title string `yaml:"title"`
	Block string `yaml:"block,omitempty"` // Block slug
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	return LoadYAMLConfigFile(getEnv("CONFIG_FILE", "config.yaml"))
}

// LoadYAMLConfigFile loads and validates the YAML configuration at path.
func LoadYAMLConfigFile(path string) (*YAMLConfig, error) {
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

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &cfg, nil
}

func (c *YAMLConfig) validate() error {
	seen := make(map[string]bool)
	for _, b := range c.Blocks {
		if b.Slug == "" {
			return fmt.Errorf("block without slug")
		}
		if seen[b.Slug] {
			return fmt.Errorf("duplicate block slug %q", b.Slug)
		}
		seen[b.Slug] = true
	}
	for _, p := range c.Pages {
		if p.Path == "" {
			return fmt.Errorf("page without path")
		}
		if p.Block != "" && !seen[p.Block] {
			return fmt.Errorf("page %q references unknown block %q", p.Path, p.Block)
		}
	}
	return nil
}

// GetBlockBySlug finds a block by its slug.
func (c *YAMLConfig) GetBlockBySlug(slug string) *BlockConfig {
	if c == nil {
		return nil
	}
	for i := range c.Blocks {
		if c.Blocks[i].Slug == slug {
			return &c.Blocks[i]
		}
	}
	return nil
}
