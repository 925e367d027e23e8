package deleter

import (
	"context"
	"fmt"
	"strings"

	"geosync/core/geoserver"
	"geosync/core/spatial"
	"geosync/core/storage"
	"geosync/feature/layers/styles"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Deleter performs cascading deletion of catalog resources.
type Deleter struct {
	catalog geoserver.Catalog
	spatial spatial.TableDropper
	logger  *zap.Logger

	// archive, when set, receives a copy of each style document before it
	// is deleted from the catalog.
	archive storage.Client
	bucket  string
}

// New creates a deleter. spatialBackend may be nil when no spatial-relational
// backend is configured.
func New(catalog geoserver.Catalog, spatialBackend spatial.TableDropper, logger *zap.Logger) *Deleter {
	return &Deleter{catalog: catalog, spatial: spatialBackend, logger: logger}
}

// WithArchive enables archiving of style documents to object storage before
// they are deleted.
func (d *Deleter) WithArchive(client storage.Client, bucket string) *Deleter {
	d.archive = client
	d.bucket = bucket
	return d
}

// CascadingDelete removes the layer identified by identifier (optionally
// workspace-qualified) from the external catalog together with its styles,
// resource and backing store. An unreachable catalog, a missing workspace or
// a missing resource turn the call into a logged no-op; only unexpected
// failures propagate.
func (d *Deleter) CascadingDelete(ctx context.Context, identifier string) error {
	resource, err := d.resolveResource(ctx, identifier)
	if err != nil {
		return err
	}
	if resource == nil {
		d.logger.Debug("Cascading delete was called with a non existent resource",
			zap.String("identifier", identifier))
		return nil
	}

	lyr, err := d.catalog.GetLayer(ctx, resource.Name)
	if err != nil && !geoserver.IsNotFound(err) {
		return err
	}
	if lyr == nil {
		// Already deleted.
		return nil
	}

	store, err := d.catalog.GetStore(ctx, resource.Store, resource.Workspace)
	if err != nil {
		d.logger.Debug("Unable to resolve backing store, skipping store cleanup",
			zap.String("store", resource.Store), zap.Error(err))
		store = nil
	}

	styleNames := lyr.AllStyles()
	d.archiveStyles(ctx, resource.Name, styleNames)

	if err := d.catalog.DeleteLayer(ctx, lyr.Name); err != nil {
		return err
	}

	for _, name := range styleNames {
		if name == "" || styles.IsDefaultStyleName(name) {
			continue
		}
		if err := d.catalog.DeleteStyle(ctx, name, true); err != nil {
			// Deleting a style shared with another layer fails.
			d.logger.Debug("Unable to delete style", zap.String("style", name), zap.Error(err))
		}
	}

	// Resource deletion can fail while the server still couples it to the
	// store; a reload restores catalog consistency instead.
	if err := d.catalog.DeleteResource(ctx, resource); err != nil {
		d.logger.Debug("Unable to delete resource, reloading catalog",
			zap.String("resource", resource.Name), zap.Error(err))
		if err := d.catalog.Reload(ctx); err != nil {
			d.logger.Error("Catalog reload failed", zap.Error(err))
		}
	}

	if store == nil {
		return nil
	}
	if store.IsPostGIS() {
		// The catalog does not drop the geometry table itself.
		if d.spatial != nil {
			if err := d.spatial.DropGeometryTable(ctx, resource.Name); err != nil {
				d.logger.Error("Error deleting spatial table",
					zap.String("table", resource.Name), zap.Error(err))
			}
		}
		return nil
	}
	if err := d.catalog.DeleteStore(ctx, store, true); err != nil {
		// Deleting a store shared with other layers fails.
		d.logger.Debug("Unable to delete store", zap.String("store", store.Name), zap.Error(err))
	}
	return nil
}

// resolveResource locates the backing resource of a layer identifier. A nil
// resource with nil error means there is nothing to delete.
func (d *Deleter) resolveResource(ctx context.Context, identifier string) (*geoserver.Resource, error) {
	workspace, name := geoserver.SplitQualified(identifier)

	if workspace != "" {
		if _, err := d.catalog.GetWorkspace(ctx, workspace); err != nil {
			if geoserver.IsConnectionRefused(err) {
				d.logger.Warn("Could not connect to the catalog to delete layer",
					zap.String("layer", identifier), zap.Error(err))
				return nil, nil
			}
			if geoserver.IsNotFound(err) {
				d.logger.Debug("Cascading delete was called on a layer where the workspace was not found",
					zap.String("workspace", workspace))
				return nil, nil
			}
			return nil, err
		}
	}

	resource, err := d.catalog.GetResource(ctx, name, workspace)
	if err != nil {
		if geoserver.IsConnectionRefused(err) {
			d.logger.Warn("Could not connect to the catalog to delete layer",
				zap.String("layer", identifier), zap.Error(err))
			return nil, nil
		}
		if geoserver.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return resource, nil
}

// archiveStyles copies the styling documents to object storage. Failures are
// logged; archiving never blocks the deletion.
func (d *Deleter) archiveStyles(ctx context.Context, layerName string, styleNames []string) {
	if d.archive == nil {
		return
	}
	for _, name := range styleNames {
		if name == "" || styles.IsDefaultStyleName(name) {
			continue
		}
		style, err := d.catalog.GetStyle(ctx, name)
		if err != nil {
			d.logger.Warn("Unable to fetch style for archiving",
				zap.String("style", name), zap.Error(err))
			continue
		}
		object := fmt.Sprintf("styles/%s/%s.sld", layerName, name)
		reader := strings.NewReader(style.Body)
		_, err = d.archive.PutObject(ctx, d.bucket, object, reader, int64(len(style.Body)),
			minio.PutObjectOptions{ContentType: "application/vnd.ogc.sld+xml"})
		if err != nil {
			d.logger.Warn("Unable to archive style",
				zap.String("style", name), zap.Error(err))
			continue
		}
		d.logger.Debug("Archived style before deletion",
			zap.String("style", name), zap.String("object", object))
	}
}
