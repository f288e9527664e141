package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushdevteam/bunproj-sub004/internal/analytics"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigFromPathDefaults(t *testing.T) {
	cfg, err := LoadConfigFromPath(writeConfig(t, "debug: true\n"))
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, ProviderLocal, cfg.Provider.Kind)
	assert.Equal(t, 10*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 30, cfg.Storage.RetentionDays)
	assert.Equal(t, metrics.DefaultBufferCapacity, cfg.Storage.HistoryLimit)
	assert.Equal(t, "24h", cfg.UI.DefaultPeriod)
	assert.Equal(t, 30*time.Second, cfg.UI.RefreshInterval)
	assert.Equal(t, 10, cfg.UI.PageSize)
	assert.Equal(t, 15*time.Second, cfg.Network.SampleInterval)
	assert.Empty(t, cfg.Wallets)
}

func TestLoadConfigFromPathOverrides(t *testing.T) {
	cfg, err := LoadConfigFromPath(writeConfig(t, `
provider:
  kind: http
  base_url: http://localhost:5000
  redis:
    addr: localhost:6379
    ttl: 1m
ui:
  default_period: 7d
  page_size: 25
wallets:
  - address: "0xabc"
    label: dev
    role: dev
    balance_bnb: 1.5
`))
	require.NoError(t, err)

	assert.Equal(t, ProviderHTTP, cfg.Provider.Kind)
	assert.Equal(t, "http://localhost:5000", cfg.Provider.BaseURL)
	assert.Equal(t, time.Minute, cfg.Provider.Redis.TTL)
	assert.Equal(t, "7d", cfg.UI.DefaultPeriod)
	assert.Equal(t, 25, cfg.UI.PageSize)
	require.Len(t, cfg.Wallets, 1)
	assert.Equal(t, metrics.Wallet{Address: "0xabc", Label: "dev", Role: metrics.RoleDev, BalanceBNB: 1.5}, cfg.Wallets[0])
}

func TestLoadConfigFromPathEnv(t *testing.T) {
	t.Setenv("BUNDLEWATCH_UI_PAGE_SIZE", "50")
	cfg, err := LoadConfigFromPath(writeConfig(t, "debug: false\n"))
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.UI.PageSize)
}

func TestLoadConfigFromPathMissing(t *testing.T) {
	_, err := LoadConfigFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func validConfig() Config {
	return Config{
		Provider: ProviderConfig{Kind: ProviderLocal, Timeout: time.Second},
		Storage:  StorageConfig{Path: "x.db", RetentionDays: 1, HistoryLimit: 10, PruneInterval: time.Hour},
		Network:  NetworkConfig{SampleInterval: time.Second},
		UI:       UIConfig{DefaultPeriod: "24h", RefreshInterval: 30 * time.Second, PageSize: 10},
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown provider", func(c *Config) { c.Provider.Kind = "grpc" }, "provider.kind"},
		{"http without url", func(c *Config) { c.Provider.Kind = ProviderHTTP }, "provider.base_url"},
		{"redis ttl", func(c *Config) { c.Provider.Redis = RedisConfig{Addr: "x:1"} }, "provider.redis.ttl"},
		{"empty storage path", func(c *Config) { c.Storage.Path = "" }, "storage.path"},
		{"retention", func(c *Config) { c.Storage.RetentionDays = 0 }, "storage.retention_days"},
		{"prune interval", func(c *Config) { c.Storage.PruneInterval = 0 }, "storage.prune_interval"},
		{"period", func(c *Config) { c.UI.DefaultPeriod = "2d" }, "ui.default_period"},
		{"interval", func(c *Config) { c.UI.RefreshInterval = 2 * time.Hour }, "ui.refresh_interval"},
		{"page size", func(c *Config) { c.UI.PageSize = 0 }, "ui.page_size"},
		{"sample interval", func(c *Config) { c.Network.SampleInterval = time.Millisecond }, "network.sample_interval"},
		{"wallet address", func(c *Config) { c.Wallets = []metrics.Wallet{{Label: "x"}} }, "wallets[0].address"},
		{"wallet role", func(c *Config) { c.Wallets = []metrics.Wallet{{Address: "0x1", Role: "whale"}} }, "wallets[0].role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(&cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nested", "prefs.yaml"))
	ctx := context.Background()

	empty, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, analytics.Preferences{}, empty)

	want := analytics.Preferences{
		ViewMode:        analytics.ViewWallets,
		Period:          metrics.Period7d,
		RefreshInterval: 45 * time.Second,
		RealTime:        true,
		Filters:         map[string]string{"role": "dev"},
	}
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	data, err := os.ReadFile(store.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "refresh_interval: 45s")
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("view_mode: [oops"), 0o644))
	_, err := NewFileStore(path).Load(context.Background())
	assert.Error(t, err)
}
