package cmd

import (
	"fmt"

	"geosync/core/config"
	"geosync/core/database"
	"geosync/core/geoserver"
	"geosync/core/logger"
	"geosync/core/spatial"
	"geosync/core/storage"
	"geosync/feature/layers"
	"geosync/feature/layers/deleter"
	"geosync/feature/layers/models"
	"geosync/feature/layers/sync"

	"go.uber.org/zap"
)

// wiring bundles everything a command needs after configuration is loaded.
type wiring struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *models.Store
	feature *layers.Feature
	sync    *sync.Service
}

// wire loads the configuration and builds the fully connected layers feature.
func wire() (*wiring, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := models.NewStore(db, l)
	if err := store.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	catalog := geoserver.NewClient(cfg.Geoserver, l)
	schema := geoserver.NewOWSClient(cfg.Geoserver, l)

	var stats geoserver.StatisticsClient
	if cfg.Geoserver.WPSEnabled {
		stats = geoserver.NewWPSClient(cfg.Geoserver, l)
	}

	var dropper spatial.TableDropper
	if cfg.Spatial.Enabled() {
		dropper = spatial.NewBackend(cfg.Spatial, l)
	}
	del := deleter.New(catalog, dropper, l)

	syncService := sync.NewService(catalog, schema, stats, store, cfg.Geoserver.WPSEnabled, l)
	feature := layers.NewFeature(catalog, schema, store, syncService, del, l)

	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		del.WithArchive(client, cfg.Storage.Bucket)
		feature.Service().WithArchive(client, cfg.Storage.Bucket)
	}

	return &wiring{
		cfg:     cfg,
		logger:  l,
		store:   store,
		feature: feature,
		sync:    syncService,
	}, nil
}
