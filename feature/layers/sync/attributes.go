package sync

import (
	"context"
	"strings"
	"time"

	"geosync/core/geoserver"
	"geosync/feature/layers/models"

	"go.uber.org/zap"
)

// numericFieldTypes is the allow-list of declared schema types eligible for
// statistical aggregation.
var numericFieldTypes = map[string]struct{}{
	"xsd:byte":               {},
	"xsd:decimal":            {},
	"xsd:double":             {},
	"xsd:float":              {},
	"xsd:int":                {},
	"xsd:integer":            {},
	"xsd:long":               {},
	"xsd:negativeInteger":    {},
	"xsd:nonNegativeInteger": {},
	"xsd:nonPositiveInteger": {},
	"xsd:positiveInteger":    {},
	"xsd:short":              {},
	"xsd:unsignedByte":       {},
	"xsd:unsignedInt":        {},
	"xsd:unsignedLong":       {},
	"xsd:unsignedShort":      {},
}

// IsAttributeAggregable reports whether a schema field qualifies for remote
// statistics: vector store, numeric declared type, and not an identifier
// field.
func IsAttributeAggregable(storeType, name, fieldType string) bool {
	if storeType != geoserver.StoreTypeData {
		return false
	}
	if _, ok := numericFieldTypes[fieldType]; !ok {
		return false
	}
	lower := strings.ToLower(name)
	return lower != "id" && lower != "identifier"
}

// attributeSchema fetches the field schema of a layer. Vector layers query
// the feature-type description and propagate failures; raster layers query
// the coverage description and degrade to an empty schema on failure.
func (s *Service) attributeSchema(ctx context.Context, layer *models.Layer) ([]geoserver.SchemaField, error) {
	switch layer.StoreType {
	case geoserver.StoreTypeData:
		return s.schema.DescribeFeatureType(ctx, layer.TypeName)
	case geoserver.StoreTypeCoverage:
		fields, err := s.schema.DescribeCoverage(ctx, layer.TypeName)
		if err != nil {
			s.logger.Error("Unable to get raster attributes, setting an empty schema",
				zap.String("layer", layer.Name), zap.Error(err))
			return nil, nil
		}
		return fields, nil
	default:
		return nil, nil
	}
}

// attributeStatistics requests remote statistics for one field, returning nil
// when the processing service is disabled or the request fails.
func (s *Service) attributeStatistics(ctx context.Context, typename, field string) *geoserver.AttributeStatistics {
	if !s.wpsEnabled || s.stats == nil {
		return nil
	}
	result, err := s.stats.AttributeStatistics(ctx, typename, field)
	if err != nil {
		s.logger.Error("Error generating attribute statistics",
			zap.String("typename", typename), zap.String("field", field), zap.Error(err))
		return nil
	}
	return result
}

// SetAttributes reconciles a layer's attribute records against the schema the
// external service reports. With overwrite set, every attribute is deleted
// and recreated; otherwise only attributes missing upstream are removed.
func (s *Service) SetAttributes(ctx context.Context, layer *models.Layer, overwrite bool) error {
	return s.setAttributes(ctx, s.store, layer, overwrite)
}

func (s *Service) setAttributes(ctx context.Context, store *models.Store, layer *models.Layer, overwrite bool) error {
	fields, err := s.attributeSchema(ctx, layer)
	if err != nil {
		return err
	}

	inSchema := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		inSchema[f.Name] = struct{}{}
	}

	existing, err := store.Attributes(ctx, layer.ID)
	if err != nil {
		return err
	}
	for i := range existing {
		if _, ok := inSchema[existing[i].Attribute]; overwrite || !ok {
			if err := store.DeleteAttribute(ctx, &existing[i]); err != nil {
				return err
			}
		}
	}

	remaining, err := store.CountAttributes(ctx, layer.ID)
	if err != nil {
		return err
	}
	order := int(remaining) + 1

	for _, field := range fields {
		attr, created, err := store.GetOrCreateAttribute(ctx, layer.ID, field.Name, field.Type)
		if err != nil {
			return err
		}
		if !created {
			continue
		}

		if IsAttributeAggregable(layer.StoreType, field.Name, field.Type) {
			s.logger.Debug("Generating layer attribute statistics",
				zap.String("layer", layer.Name), zap.String("field", field.Name))
			if result := s.attributeStatistics(ctx, layer.TypeName, field.Name); result != nil {
				count := int64(result.Count)
				unique := int64(result.UniqueValues)
				now := time.Now()
				attr.Count = &count
				attr.Min = &result.Min
				attr.Max = &result.Max
				attr.Average = &result.Average
				attr.Median = &result.Median
				attr.StdDev = &result.StandardDeviation
				attr.Sum = &result.Sum
				attr.UniqueValues = &unique
				attr.LastStatsUpdated = &now
			}
		}

		attr.Label = fieldLabel(field.Name)
		attr.Visible = !strings.HasPrefix(field.Type, "gml:")
		attr.DisplayOrder = order
		if err := store.SaveAttribute(ctx, attr); err != nil {
			return err
		}
		order++
	}
	return nil
}

// fieldLabel derives a human-readable label from a field name by
// capitalizing each word.
func fieldLabel(name string) string {
	var b strings.Builder
	startOfWord := true
	for _, r := range name {
		switch {
		case r == '_' || r == ' ':
			b.WriteRune(r)
			startOfWord = true
		case startOfWord:
			b.WriteString(strings.ToUpper(string(r)))
			startOfWord = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
