package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliveevie/invoice-flow-btc/config"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "file", cfg.Store.Driver)
	assert.Equal(t, "https://blockchain.info", cfg.Providers.PricePrimaryURL)
	assert.Equal(t, 10*time.Second, cfg.Providers.PriceTimeout.Std())
	assert.Equal(t, 15*time.Second, cfg.Providers.BalanceTimeout.Std())
	assert.Equal(t, 30*time.Second, cfg.WatchInterval.Std())
}

func TestLoad_OverlaysFileOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoiceflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen: ":9090"
store:
  driver: sqlite
  path: invoices.db
providers:
  balance_timeout: 20s
watch_interval: 2m
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "invoices.db", cfg.Store.Path)
	assert.Equal(t, 20*time.Second, cfg.Providers.BalanceTimeout.Std())
	assert.Equal(t, 2*time.Minute, cfg.WatchInterval.Std())

	// Unset fields keep their defaults.
	assert.Equal(t, "https://api.blockchair.com", cfg.Providers.BalanceURL)
	assert.Equal(t, 10*time.Second, cfg.Providers.PriceTimeout.Std())
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoiceflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`listen: [`), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoad_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoiceflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`watch_interval: soon`), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}
