package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rahul/sarthi/internal/cost"
)

type Config struct {
	App       AppConfig                 `json:"app"`
	Providers map[string]ProviderConfig `json:"providers"`
	Planner   PlannerConfig             `json:"planner"`
	Delegate  DelegateConfig            `json:"delegate"`
	Pricing   map[string]cost.Pricing   `json:"pricing"`
	Store     StoreConfig               `json:"store"`
}

type AppConfig struct {
	Name    string `json:"name"`
	Prompts string `json:"prompts"`
}

type ProviderConfig struct {
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`
	BaseURL string `json:"base_url,omitempty"`
	Enabled bool   `json:"enabled"`
}

type PlannerConfig struct {
	Retries int `json:"retries"`
}

type DelegateConfig struct {
	MaxSteps     int  `json:"max_steps"`
	ToolsEnabled bool `json:"tools_enabled"`
}

type StoreConfig struct {
	Path string `json:"path"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	// Copy the pricing table so a decoded config cannot mutate the shared map.
	pricing := make(map[string]cost.Pricing, len(cost.DefaultPricing))
	for model, p := range cost.DefaultPricing {
		pricing[model] = p
	}

	return &Config{
		App:      AppConfig{Name: "sarthi", Prompts: "./prompts"},
		Planner:  PlannerConfig{Retries: 5},
		Delegate: DelegateConfig{MaxSteps: 8, ToolsEnabled: true},
		Pricing:  pricing,
		Store:    StoreConfig{Path: "sarthi.db"},
	}
}

// LoadConfig reads the JSON config at path, applying defaults for sections
// the file leaves out.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Default()
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %v", err)
	}

	if cfg.Planner.Retries <= 0 {
		cfg.Planner.Retries = 5
	}
	if cfg.Delegate.MaxSteps <= 0 {
		cfg.Delegate.MaxSteps = 8
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "sarthi.db"
	}

	return cfg, nil
}

// GetDefaultProvider returns the first enabled provider
func (c *Config) GetDefaultProvider() (string, ProviderConfig) {
	for name, p := range c.Providers {
		if p.Enabled {
			return name, p
		}
	}
	return "", ProviderConfig{}
}

// GetPricing returns the pricing entry for a model, falling back to the
// built-in table.
func (c *Config) GetPricing(model string) (cost.Pricing, bool) {
	if p, ok := c.Pricing[model]; ok {
		return p, true
	}
	p, ok := cost.DefaultPricing[model]
	return p, ok
}
