package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"flowerboard/internal"
	"flowerboard/internal/catalog"
	"flowerboard/internal/config"
	"flowerboard/internal/market"
	"flowerboard/internal/pipeline"
	"flowerboard/internal/storage"
)

type app struct {
	cfg    config.Config
	logger *slog.Logger
	cache  *market.Cache
	svc    *pipeline.Service
}

func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newApp() (*app, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}

	items, secondary, err := loadCatalogs(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("catalogs loaded", "items", len(items), "secondary", len(secondary))

	client := market.NewClient(cfg, logger)
	cache := market.NewCache(client, cfg.CacheTTL())
	return &app{
		cfg:    cfg,
		logger: logger,
		cache:  cache,
		svc:    pipeline.NewService(cache, items, secondary, logger),
	}, nil
}

// loadCatalogs prefers the catalog database when one is configured.
func loadCatalogs(cfg config.Config) ([]internal.CatalogItem, []internal.SecondaryItem, error) {
	if cfg.CatalogDBPath != "" {
		db, err := storage.Open(cfg.CatalogDBPath)
		if err != nil {
			return nil, nil, err
		}
		defer db.Close()
		return catalog.LoadFromDB(db)
	}
	return loadCatalogFiles(cfg)
}

func loadCatalogFiles(cfg config.Config) ([]internal.CatalogItem, []internal.SecondaryItem, error) {
	items, err := catalog.LoadItems(cfg.ItemCatalogPath)
	if err != nil {
		return nil, nil, err
	}
	secondary, err := catalog.LoadSecondary(cfg.SecondaryCatalogPath)
	if err != nil {
		return nil, nil, err
	}
	return items, secondary, nil
}

func newLogger(cfg config.Config) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(strings.TrimSpace(cfg.LogFormat)) {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	case "", "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	default:
		return nil, fmt.Errorf("LOG_FORMAT: unsupported value %q", cfg.LogFormat)
	}
}
