package styles

import (
	"context"

	"geosync/core/geoserver"

	"go.uber.org/zap"
)

// Fixup replaces generic default styles on freshly published layers with
// generated, uniquely named symbology.
type Fixup struct {
	catalog geoserver.Catalog
	gen     *SLDGenerator
	logger  *zap.Logger
}

// NewFixup creates a style fixup with its own palette cursor.
func NewFixup(catalog geoserver.Catalog, logger *zap.Logger) *Fixup {
	return &Fixup{catalog: catalog, gen: NewSLDGenerator(), logger: logger}
}

// Run inspects every published layer of a resource and, where the default
// style is one of the generic built-ins, creates a dedicated style and makes
// it the layer's default. uploaded, when non-empty, is used as the styling
// document instead of a generated one.
func (f *Fixup) Run(ctx context.Context, resource *geoserver.Resource, uploaded string) error {
	f.logger.Debug("Creating styles for layers associated with resource",
		zap.String("resource", resource.Name))

	layers, err := f.catalog.GetLayers(ctx, resource)
	if err != nil {
		return err
	}
	f.logger.Info("Found layers associated with resource",
		zap.Int("count", len(layers)), zap.String("resource", resource.Name))

	for i := range layers {
		lyr := layers[i]
		// An unset default behaves like the generic point style.
		if lyr.DefaultStyle != "" && !IsDefaultStyleName(lyr.DefaultStyle) {
			continue
		}
		f.logger.Info("Layer uses a default style, generating a new one",
			zap.String("layer", lyr.Name))

		name := StyleName(resource)
		body := uploaded
		if body == "" {
			template := lyr.DefaultStyle
			if template == "" {
				template = "point"
			}
			generated, ok := f.gen.SLDFor(lyr.Name, template)
			if !ok {
				continue
			}
			body = generated
		}

		f.logger.Info("Creating style", zap.String("style", name))
		if err := f.catalog.CreateStyle(ctx, name, body); err != nil {
			return err
		}
		lyr.DefaultStyle = name
		if err := f.catalog.SaveLayer(ctx, &lyr); err != nil {
			return err
		}
		f.logger.Info("Successfully updated layer", zap.String("layer", lyr.Name))
	}
	return nil
}
