package styles

import (
	"context"

	"geosync/core/geoserver"
	"geosync/feature/layers/models"

	"go.uber.org/zap"
)

// Mirror copies catalog style objects into local style records and links
// them to their layer records.
type Mirror struct {
	catalog geoserver.Catalog
	store   *models.Store
	logger  *zap.Logger
}

// NewMirror creates a style mirror.
func NewMirror(catalog geoserver.Catalog, store *models.Store, logger *zap.Logger) *Mirror {
	return &Mirror{catalog: catalog, store: store, logger: logger}
}

// SyncLayerStyles refreshes the local style records of one layer from the
// catalog and rewires the layer's default style and style set.
func (m *Mirror) SyncLayerStyles(ctx context.Context, layer *models.Layer) error {
	gsLayer, err := m.catalog.GetLayer(ctx, layer.Name)
	if err != nil {
		if geoserver.IsNotFound(err) {
			m.logger.Debug("No published layer to mirror styles from",
				zap.String("layer", layer.Name))
			return nil
		}
		return err
	}

	var defaultRecord *models.Style
	records := make([]*models.Style, 0, len(gsLayer.Styles)+1)
	for _, name := range gsLayer.AllStyles() {
		record, err := m.saveStyle(ctx, name)
		if err != nil {
			return err
		}
		records = append(records, record)
		if name == gsLayer.DefaultStyle {
			defaultRecord = record
		}
	}
	return m.store.SetLayerStyles(ctx, layer, defaultRecord, records)
}

// saveStyle fetches one style from the catalog and upserts its local record.
func (m *Mirror) saveStyle(ctx context.Context, name string) (*models.Style, error) {
	gsStyle, err := m.catalog.GetStyle(ctx, name)
	if err != nil {
		return nil, err
	}
	record, _, err := m.store.GetOrCreateStyle(ctx, name)
	if err != nil {
		return nil, err
	}
	record.SLDTitle = gsStyle.Title
	record.SLDBody = gsStyle.Body
	record.SLDURL = gsStyle.BodyHref
	if err := m.store.SaveStyle(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}
