package layers

import (
	"geosync/core/geoserver"
	"geosync/feature/layers/deleter"
	"geosync/feature/layers/models"
	"geosync/feature/layers/sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the layers feature.
func NewFeature(
	catalog geoserver.Catalog,
	schema geoserver.SchemaClient,
	store *models.Store,
	syncService *sync.Service,
	del *deleter.Deleter,
	logger *zap.Logger,
) *Feature {
	svc := NewService(catalog, schema, store, syncService, del, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Service exposes the wired service for command-line use.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "layers"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
