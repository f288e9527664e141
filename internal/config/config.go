package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
)

// AppName names the config directory and env prefix.
const AppName = "bundlewatch"

// Config represents the root configuration structure
type Config struct {
	Provider ProviderConfig   `mapstructure:"provider"`
	Storage  StorageConfig    `mapstructure:"storage"`
	Network  NetworkConfig    `mapstructure:"network"`
	UI       UIConfig         `mapstructure:"ui"`
	Wallets  []metrics.Wallet `mapstructure:"wallets"`
	LogFile  string           `mapstructure:"log_file"`
	Debug    bool             `mapstructure:"debug"`
}

// ProviderConfig selects where snapshots come from
type ProviderConfig struct {
	Kind    string        `mapstructure:"kind"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

// RedisConfig enables the snapshot cache when Addr is set
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// StorageConfig holds the local execution history settings
type StorageConfig struct {
	Path          string        `mapstructure:"path"`
	RetentionDays int           `mapstructure:"retention_days"`
	HistoryLimit  int           `mapstructure:"history_limit"`
	PruneInterval time.Duration `mapstructure:"prune_interval"`
}

// NetworkConfig points at the chain RPC used for live network status
type NetworkConfig struct {
	RPCURL         string        `mapstructure:"rpc_url"`
	SampleInterval time.Duration `mapstructure:"sample_interval"`
}

// UIConfig holds dashboard defaults
type UIConfig struct {
	DefaultPeriod   string        `mapstructure:"default_period"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	PageSize        int           `mapstructure:"page_size"`
	DateFormat      string        `mapstructure:"date_format"`
	PreferencesFile string        `mapstructure:"preferences_file"`
}

// Provider kinds.
const (
	ProviderLocal = "local"
	ProviderHTTP  = "http"
)

// Dir returns ~/.config/bundlewatch, falling back to the temp dir.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".config", AppName)
}

// LoadConfig loads configuration from config.yaml in the config dir or the
// working directory, then environment variables (BUNDLEWATCH_UI_PAGE_SIZE etc).
// A missing file is not an error; defaults apply.
func LoadConfig() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(Dir())
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return decode(v)
}

// LoadConfigFromPath loads configuration from an explicit file.
func LoadConfigFromPath(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	applyDefaults(v)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateConfig validates the configuration values
func ValidateConfig(cfg *Config) error {
	switch cfg.Provider.Kind {
	case ProviderLocal:
	case ProviderHTTP:
		if cfg.Provider.BaseURL == "" {
			return fmt.Errorf("provider.base_url is required when provider.kind is http")
		}
	default:
		return fmt.Errorf("provider.kind must be one of: [%s %s], got %s", ProviderLocal, ProviderHTTP, cfg.Provider.Kind)
	}
	if cfg.Provider.Timeout <= 0 {
		return fmt.Errorf("provider.timeout must be positive, got %v", cfg.Provider.Timeout)
	}
	if cfg.Provider.Redis.Addr != "" && cfg.Provider.Redis.TTL < time.Second {
		return fmt.Errorf("provider.redis.ttl must be at least 1s, got %v", cfg.Provider.Redis.TTL)
	}

	if cfg.Storage.Path == "" {
		return fmt.Errorf("storage.path cannot be empty")
	}
	if cfg.Storage.RetentionDays < 1 {
		return fmt.Errorf("storage.retention_days must be >= 1, got %d", cfg.Storage.RetentionDays)
	}
	if cfg.Storage.HistoryLimit < 1 {
		return fmt.Errorf("storage.history_limit must be >= 1, got %d", cfg.Storage.HistoryLimit)
	}
	if cfg.Storage.PruneInterval < time.Minute {
		return fmt.Errorf("storage.prune_interval must be at least 1m, got %v", cfg.Storage.PruneInterval)
	}

	if cfg.Network.SampleInterval < time.Second {
		return fmt.Errorf("network.sample_interval must be at least 1s, got %v", cfg.Network.SampleInterval)
	}

	if _, err := metrics.ParsePeriod(cfg.UI.DefaultPeriod); err != nil {
		return fmt.Errorf("ui.default_period must be one of: %v, got %s", metrics.AllPeriods(), cfg.UI.DefaultPeriod)
	}
	if cfg.UI.RefreshInterval < time.Second || cfg.UI.RefreshInterval > time.Hour {
		return fmt.Errorf("ui.refresh_interval must be between 1s and 1h, got %v", cfg.UI.RefreshInterval)
	}
	if cfg.UI.PageSize < 1 || cfg.UI.PageSize > 500 {
		return fmt.Errorf("ui.page_size must be between 1 and 500, got %d", cfg.UI.PageSize)
	}

	roles := []metrics.WalletRole{metrics.RoleDev, metrics.RoleMEV, metrics.RoleFunder, metrics.RoleNumbered}
	for i, w := range cfg.Wallets {
		if w.Address == "" {
			return fmt.Errorf("wallets[%d].address cannot be empty", i)
		}
		if w.Role != "" && !slices.Contains(roles, w.Role) {
			return fmt.Errorf("wallets[%d].role must be one of: %v, got %s", i, roles, w.Role)
		}
	}

	return nil
}

// applyDefaults sets default configuration values
func applyDefaults(v *viper.Viper) {
	dir := Dir()

	v.SetDefault("provider.kind", ProviderLocal)
	v.SetDefault("provider.base_url", "")
	v.SetDefault("provider.timeout", "10s")
	v.SetDefault("provider.redis.addr", "")
	v.SetDefault("provider.redis.password", "")
	v.SetDefault("provider.redis.db", 0)
	v.SetDefault("provider.redis.ttl", "30s")

	v.SetDefault("storage.path", filepath.Join(dir, "bundlewatch.db"))
	v.SetDefault("storage.retention_days", 30)
	v.SetDefault("storage.history_limit", metrics.DefaultBufferCapacity)
	v.SetDefault("storage.prune_interval", "1h")

	v.SetDefault("network.rpc_url", "")
	v.SetDefault("network.sample_interval", "15s")

	v.SetDefault("ui.default_period", string(metrics.DefaultPeriod))
	v.SetDefault("ui.refresh_interval", "30s")
	v.SetDefault("ui.page_size", 10)
	v.SetDefault("ui.date_format", "2006-01-02 15:04:05")
	v.SetDefault("ui.preferences_file", filepath.Join(dir, "preferences.yaml"))

	v.SetDefault("log_file", "")
	v.SetDefault("debug", false)
}
