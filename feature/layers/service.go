package layers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"geosync/core/geoserver"
	"geosync/core/storage"
	"geosync/feature/layers/deleter"
	"geosync/feature/layers/models"
	"geosync/feature/layers/styles"
	"geosync/feature/layers/sync"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// StoreInfo is one entry of the store listing.
type StoreInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Service ties the reconciler, style tooling and cascade deleter together.
type Service struct {
	catalog geoserver.Catalog
	schema  geoserver.SchemaClient
	store   *models.Store
	sync    *sync.Service
	deleter *deleter.Deleter
	fixup   *styles.Fixup
	mirror  *styles.Mirror
	logger  *zap.Logger

	// archive, when set, receives a JSON copy of each sync report.
	archive storage.Client
	bucket  string
}

// NewService wires the layers feature. The record store's pre-delete hook is
// pointed at the cascade deleter so a regular local delete cleans up the
// external catalog too.
func NewService(
	catalog geoserver.Catalog,
	schema geoserver.SchemaClient,
	store *models.Store,
	syncService *sync.Service,
	del *deleter.Deleter,
	logger *zap.Logger,
) *Service {
	s := &Service{
		catalog: catalog,
		schema:  schema,
		store:   store,
		sync:    syncService,
		deleter: del,
		fixup:   styles.NewFixup(catalog, logger),
		mirror:  styles.NewMirror(catalog, store, logger),
		logger:  logger,
	}
	store.PreDelete = func(ctx context.Context, layer *models.Layer) error {
		return del.CascadingDelete(ctx, layer.TypeName)
	}
	return s
}

// WithArchive enables export of sync reports to object storage.
func (s *Service) WithArchive(client storage.Client, bucket string) *Service {
	s.archive = client
	s.bucket = bucket
	return s
}

// Sync runs one reconciliation pass and exports the report.
func (s *Service) Sync(ctx context.Context, opts sync.Options) (*sync.Outcome, error) {
	outcome, err := s.sync.Run(ctx, opts)
	if err != nil {
		return nil, err
	}
	s.exportOutcome(ctx, outcome)
	return outcome, nil
}

// Delete removes a layer record and, unless localOnly is set, cascades the
// deletion through the external catalog.
func (s *Service) Delete(ctx context.Context, name string, localOnly bool) error {
	layer, err := s.store.GetLayer(ctx, name)
	if err != nil {
		return err
	}
	return s.store.DeleteLayer(ctx, layer, localOnly)
}

// FixupStyles replaces a layer's generic default style with generated
// symbology and refreshes the local style records.
func (s *Service) FixupStyles(ctx context.Context, name, uploaded string) error {
	layer, err := s.store.GetLayer(ctx, name)
	if err != nil {
		return err
	}
	resource := &geoserver.Resource{
		Name:      layer.Name,
		Workspace: layer.Workspace,
		Store:     layer.Store,
		StoreType: layer.StoreType,
	}
	if err := s.fixup.Run(ctx, resource, uploaded); err != nil {
		return err
	}
	return s.mirror.SyncLayerStyles(ctx, layer)
}

// Layers lists the local layer records, optionally scoped to a workspace
// and/or store.
func (s *Service) Layers(ctx context.Context, workspace, store string) ([]models.Layer, error) {
	return s.store.LayersMatching(ctx, workspace, store)
}

// Stores lists the catalog's stores, optionally filtered by kind. The filter
// is compared case-insensitively ("datastore" or "coveragestore").
func (s *Service) Stores(ctx context.Context, storeType string) ([]StoreInfo, error) {
	stores, err := s.catalog.GetStores(ctx)
	if err != nil {
		return nil, err
	}
	filter := strings.ToLower(storeType)
	infos := make([]StoreInfo, 0, len(stores))
	for _, store := range stores {
		kind := strings.ToLower(store.Type)
		if filter != "" && kind != filter {
			continue
		}
		infos = append(infos, StoreInfo{Name: store.Name, Type: kind})
	}
	return infos, nil
}

// GridExtent returns the pixel dimensions of a raster layer's grid.
func (s *Service) GridExtent(ctx context.Context, name string) ([]int, error) {
	layer, err := s.store.GetLayer(ctx, name)
	if err != nil {
		return nil, err
	}
	if layer.StoreType != geoserver.StoreTypeCoverage {
		return nil, fmt.Errorf("layer %q is not raster-backed", name)
	}
	return s.schema.CoverageGridExtent(ctx, layer.TypeName)
}

// exportOutcome writes the sync report to object storage. Failures are
// logged; the report is still returned to the caller.
func (s *Service) exportOutcome(ctx context.Context, outcome *sync.Outcome) {
	if s.archive == nil {
		return
	}
	payload, err := json.Marshal(outcome)
	if err != nil {
		s.logger.Error("Unable to serialize sync report", zap.Error(err))
		return
	}
	object := fmt.Sprintf("reports/sync-%s.json", time.Now().UTC().Format("20060102-150405"))
	_, err = s.archive.PutObject(ctx, s.bucket, object, bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		s.logger.Error("Unable to export sync report",
			zap.String("object", object), zap.Error(err))
		return
	}
	s.logger.Info("Exported sync report", zap.String("object", object))
}
