package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kushdevteam/bunproj-sub004/internal/analytics"
	"github.com/kushdevteam/bunproj-sub004/internal/chain"
	"github.com/kushdevteam/bunproj-sub004/internal/config"
	"github.com/kushdevteam/bunproj-sub004/internal/logger"
	"github.com/kushdevteam/bunproj-sub004/internal/metrics"
	"github.com/kushdevteam/bunproj-sub004/internal/provider"
	"github.com/kushdevteam/bunproj-sub004/internal/storage/sqlite"
)

// errLocalOnly is returned by commands that write local history.
var errLocalOnly = errors.New("this command requires provider.kind: local")

// runtime holds everything a command needs, opened from configuration.
type runtime struct {
	cfg      *config.Config
	db       *sqlite.DB
	eth      *chain.EthStatus
	local    *provider.Local
	cached   *provider.Cached
	provider analytics.Provider
	roster   chain.RosterSource
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadConfigFromPath(configPath)
	}
	return config.LoadConfig()
}

// initLogger sets up logging. capture keeps the last entries in memory for the
// dashboard status bar.
func initLogger(cfg *config.Config, capture int) error {
	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	if debug || cfg.Debug {
		level = slog.LevelDebug
	}
	path := logFile
	if path == "" {
		path = cfg.LogFile
	}
	logger.Init(logger.Options{Level: level, Path: path, Capture: capture})
	return nil
}

// openRuntime loads configuration and opens storage, the chain connection and
// the configured provider.
func openRuntime(ctx context.Context, capture int) (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if err := initLogger(cfg, capture); err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg}

	rt.db, err = sqlite.Open(cfg.Storage.Path)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}
	logger.Debug("History opened", "path", rt.db.Path())

	var network chain.NetworkSource = chain.Offline{}
	if cfg.Network.RPCURL != "" {
		rt.eth, err = chain.Dial(ctx, cfg.Network.RPCURL)
		if err != nil {
			logger.Warn("RPC unavailable, network status offline", "url", cfg.Network.RPCURL, "error", err)
		} else {
			network = rt.eth
		}
	}

	rt.roster = chain.NewStaticRoster(cfg.Wallets)
	if rt.eth != nil {
		rt.roster = chain.NewLiveRoster(rt.roster, rt.eth)
	}

	switch cfg.Provider.Kind {
	case config.ProviderHTTP:
		rt.provider = provider.NewHTTP(cfg.Provider.BaseURL, provider.WithHTTPTimeout(cfg.Provider.Timeout))
	default:
		rt.local = provider.NewLocal(
			provider.WithExecutionStore(sqlite.NewExecutionStore(rt.db)),
			provider.WithSampleStore(sqlite.NewNetworkStore(rt.db)),
			provider.WithNetworkSource(network),
			provider.WithHistoryLimit(cfg.Storage.HistoryLimit),
			provider.WithSampleInterval(cfg.Network.SampleInterval),
			provider.WithPruneInterval(cfg.Storage.PruneInterval),
			provider.WithRetentionDays(cfg.Storage.RetentionDays),
		)
		rt.provider = rt.local
	}

	if redisCfg := cfg.Provider.Redis; redisCfg.Addr != "" {
		client := provider.NewRedisClient(redisCfg.Addr, redisCfg.Password, redisCfg.DB)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unavailable, snapshot cache disabled", "addr", redisCfg.Addr, "error", err)
			client.Close()
		} else {
			rt.cached = provider.NewCached(rt.provider, client, redisCfg.TTL)
			rt.provider = rt.cached
		}
	}

	logger.Debug("Runtime ready", "provider", cfg.Provider.Kind, "storage", cfg.Storage.Path, "rpc", cfg.Network.RPCURL != "", "cache", rt.cached != nil)
	return rt, nil
}

// preferenceStore keeps preferences in YAML when a file is configured and in
// the database otherwise.
func (rt *runtime) preferenceStore() analytics.PreferenceStore {
	if rt.cfg.UI.PreferencesFile != "" {
		return config.NewFileStore(rt.cfg.UI.PreferencesFile)
	}
	return sqlite.NewPreferenceStore(rt.db)
}

// newOrchestrator builds an orchestrator over the runtime's provider.
func (rt *runtime) newOrchestrator(opts ...analytics.Option) (*analytics.Orchestrator, error) {
	period, err := metrics.ParsePeriod(rt.cfg.UI.DefaultPeriod)
	if err != nil {
		return nil, err
	}
	base := []analytics.Option{
		analytics.WithDefaultPeriod(period),
		analytics.WithRefreshInterval(rt.cfg.UI.RefreshInterval),
	}
	return analytics.New(rt.provider, append(base, opts...)...)
}

// Close releases everything openRuntime opened.
func (rt *runtime) Close() {
	if rt.provider != nil {
		rt.provider.StopMonitoring()
	}
	if rt.cached != nil {
		if err := rt.cached.Close(); err != nil {
			logger.Debug("Closing redis client", "error", err)
		}
	}
	if rt.eth != nil {
		rt.eth.Close()
	}
	if rt.db != nil {
		if err := rt.db.Close(); err != nil {
			logger.Warn("Closing storage", "error", err)
		}
	}
	logger.Close()
}
