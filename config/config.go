/*
Package config loads server and CLI configuration from YAML.

PURPOSE:
  One small config file covers the listen address, the store backend,
  the provider endpoints, and the watcher cadence. Every field has a
  working default; an absent file is not an error.

EXAMPLE (invoiceflow.yaml):
  listen: ":8080"
  store:
    driver: file        # file | sqlite
    path: invoices.json
  providers:
    price_primary_url: https://blockchain.info
    price_fallback_url: https://api.coinbase.com
    balance_url: https://api.blockchair.com
    price_timeout: 10s
    balance_timeout: 15s
  watch_interval: 30s
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Listen        string    `yaml:"listen"`
	Store         Store     `yaml:"store"`
	Providers     Providers `yaml:"providers"`
	WatchInterval Duration  `yaml:"watch_interval"`
}

// Store selects and locates the persistence backend.
type Store struct {
	Driver string `yaml:"driver"` // "file" or "sqlite"
	Path   string `yaml:"path"`
}

// Providers configures the external price and balance services.
type Providers struct {
	PricePrimaryURL  string   `yaml:"price_primary_url"`
	PriceFallbackURL string   `yaml:"price_fallback_url"`
	BalanceURL       string   `yaml:"balance_url"`
	PriceTimeout     Duration `yaml:"price_timeout"`
	BalanceTimeout   Duration `yaml:"balance_timeout"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Listen: ":8080",
		Store: Store{
			Driver: "file",
			Path:   "invoices.json",
		},
		Providers: Providers{
			PricePrimaryURL:  "https://blockchain.info",
			PriceFallbackURL: "https://api.coinbase.com",
			BalanceURL:       "https://api.blockchair.com",
			PriceTimeout:     Duration(10 * time.Second),
			BalanceTimeout:   Duration(15 * time.Second),
		},
		WatchInterval: Duration(30 * time.Second),
	}
}

// Load reads the config at path, layered over Default(). A missing
// file returns the defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// =============================================================================
// DURATION - yaml-friendly time.Duration
// =============================================================================

// Duration wraps time.Duration so YAML can carry values like "30s".
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var text string
	if err := node.Decode(&text); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}
