package main

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/sigscan/sigscan/internal/config"
	"github.com/sigscan/sigscan/internal/metrics"
	"github.com/sigscan/sigscan/internal/provider"
	"github.com/sigscan/sigscan/internal/provider/cache"
	"github.com/sigscan/sigscan/internal/provider/yahoo"
	"github.com/sigscan/sigscan/internal/storage/signal"
	"github.com/sigscan/sigscan/internal/strategy"
	"github.com/sigscan/sigscan/internal/strategy/emacross"
	"github.com/sigscan/sigscan/internal/strategy/macdcross"
	"github.com/sigscan/sigscan/internal/universe"
)

func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Debug("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func buildProvider(cfg *config.Config) provider.Provider {
	return cache.New(yahoo.New(cfg.Provider.Timeout), cfg.Provider.CacheTTL)
}

func buildEngine(cfg *config.Config, log *zap.Logger) (*strategy.Engine, error) {
	engine := strategy.NewEngine(log)

	for _, s := range []strategy.Strategy{macdcross.New(), emacross.New(0)} {
		if sc, ok := cfg.Strategies[s.Name()]; ok {
			if err := s.Init(strategy.Config{Enabled: sc.Enabled, Params: sc.Params}); err != nil {
				return nil, fmt.Errorf("init strategy %s: %w", s.Name(), err)
			}
		}
		engine.Register(s)
	}
	return engine, nil
}

func buildUniverse(cfg *config.Config, log *zap.Logger) universe.Provider {
	return universe.NewMulti(
		universe.NewStatic(cfg.Universe.Lists),
		universe.NewNSE(cfg.Universe.FallbackDir, log),
	)
}

func openStore(cfg *config.Config) (signal.Store, error) {
	store, err := signal.OpenSQLite(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("opening signal store: %w", err)
	}
	return store, nil
}

// startMetrics returns a registry and begins serving it when enabled;
// otherwise it returns nil, which every component treats as "don't record".
func startMetrics(cfg *config.Config, log *zap.Logger) *metrics.Registry {
	if !cfg.Metrics.Enabled {
		return nil
	}

	reg := metrics.NewRegistry()
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, reg.Handler())

	go func() {
		if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
			log.Warn("metrics server stopped", zap.Error(err))
		}
	}()

	log.Info("metrics endpoint started",
		zap.String("addr", cfg.Metrics.Addr),
		zap.String("path", cfg.Metrics.Path))
	return reg
}
