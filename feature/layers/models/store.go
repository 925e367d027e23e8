package models

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrLayerNotFound is returned when a layer record does not exist.
var ErrLayerNotFound = errors.New("layer not found")

// PreDeleteHook runs before a layer record is removed. It is used to clean
// up the external catalog, and is skipped when the caller asks for a
// local-only delete.
type PreDeleteHook func(ctx context.Context, layer *Layer) error

// Store wraps the database handle with layer-record operations.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger

	// PreDelete is invoked by DeleteLayer unless skipCascade is set.
	PreDelete PreDeleteHook
}

// NewStore creates a record store on top of an open database handle.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// AutoMigrate creates or updates the schema for all layer-related tables.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(
		&Style{},
		&Layer{},
		&Attribute{},
		&Rating{},
		&Comment{},
		&Keyword{},
		&Permission{},
	)
}

// DB exposes the underlying handle for feature wiring.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn against a transactional copy of the store. All record
// changes for one resource happen inside a single transaction so a failure
// leaves no partial record behind.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, logger: s.logger, PreDelete: s.PreDelete})
	})
}

// GetLayer fetches a layer record by name.
func (s *Store) GetLayer(ctx context.Context, name string) (*Layer, error) {
	var layer Layer
	err := s.db.WithContext(ctx).Where(&Layer{Name: name}).First(&layer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &layer, nil
}

// GetOrCreateLayer returns the record named name, creating it from defaults
// when absent. The second return reports whether a record was created.
func (s *Store) GetOrCreateLayer(ctx context.Context, name string, defaults Layer) (*Layer, bool, error) {
	var layer Layer
	defaults.Name = name
	res := s.db.WithContext(ctx).Where(&Layer{Name: name}).Attrs(defaults).FirstOrCreate(&layer)
	if res.Error != nil {
		return nil, false, res.Error
	}
	return &layer, res.RowsAffected > 0, nil
}

// SaveLayer persists changes to an existing layer record.
func (s *Store) SaveLayer(ctx context.Context, layer *Layer) error {
	return s.db.WithContext(ctx).Save(layer).Error
}

// LayersMatching lists layer records, optionally scoped to a workspace
// and/or store.
func (s *Store) LayersMatching(ctx context.Context, workspace, store string) ([]Layer, error) {
	q := s.db.WithContext(ctx).Model(&Layer{})
	if workspace != "" {
		q = q.Where("workspace = ?", workspace)
	}
	if store != "" {
		q = q.Where("store = ?", store)
	}
	var layers []Layer
	if err := q.Order("name").Find(&layers).Error; err != nil {
		return nil, err
	}
	return layers, nil
}

// SetDefaultPermissions grants the standard access set on a freshly created
// layer record: anonymous users may view, administrators may manage.
func (s *Store) SetDefaultPermissions(ctx context.Context, layer *Layer) error {
	perms := []Permission{
		{LayerID: layer.ID, Role: RoleAnonymous, Level: LevelView},
		{LayerID: layer.ID, Role: RoleAdmin, Level: LevelManage},
	}
	return s.db.WithContext(ctx).Create(&perms).Error
}

// DeleteLayer removes a layer record together with its dependent metadata
// (ratings, comments, keywords, permissions, attributes, style links).
// Unless skipCascade is set, the PreDelete hook runs first so the external
// catalog is cleaned up before the record disappears.
func (s *Store) DeleteLayer(ctx context.Context, layer *Layer, skipCascade bool) error {
	if !skipCascade && s.PreDelete != nil {
		if err := s.PreDelete(ctx, layer); err != nil {
			return err
		}
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []any{&Rating{}, &Comment{}, &Keyword{}, &Permission{}, &Attribute{}} {
			if err := tx.Where("layer_id = ?", layer.ID).Delete(dependent).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(layer).Association("Styles").Clear(); err != nil {
			return err
		}
		return tx.Delete(&Layer{}, layer.ID).Error
	})
}

// Attributes lists the attribute records of a layer.
func (s *Store) Attributes(ctx context.Context, layerID uint) ([]Attribute, error) {
	var attrs []Attribute
	err := s.db.WithContext(ctx).
		Where("layer_id = ?", layerID).
		Order("display_order").
		Find(&attrs).Error
	if err != nil {
		return nil, err
	}
	return attrs, nil
}

// CountAttributes returns the number of attribute records of a layer.
func (s *Store) CountAttributes(ctx context.Context, layerID uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Attribute{}).Where("layer_id = ?", layerID).Count(&n).Error
	return n, err
}

// GetOrCreateAttribute returns the (layer, name) attribute record, creating
// it with the given type when absent.
func (s *Store) GetOrCreateAttribute(ctx context.Context, layerID uint, name, attrType string) (*Attribute, bool, error) {
	var attr Attribute
	res := s.db.WithContext(ctx).
		Where(&Attribute{LayerID: layerID, Attribute: name}).
		Attrs(Attribute{AttributeType: attrType}).
		FirstOrCreate(&attr)
	if res.Error != nil {
		return nil, false, res.Error
	}
	return &attr, res.RowsAffected > 0, nil
}

// SaveAttribute persists changes to an attribute record.
func (s *Store) SaveAttribute(ctx context.Context, attr *Attribute) error {
	return s.db.WithContext(ctx).Save(attr).Error
}

// DeleteAttribute removes an attribute record.
func (s *Store) DeleteAttribute(ctx context.Context, attr *Attribute) error {
	return s.db.WithContext(ctx).Delete(&Attribute{}, attr.ID).Error
}

// GetOrCreateStyle returns the style record named name, creating an empty
// one when absent.
func (s *Store) GetOrCreateStyle(ctx context.Context, name string) (*Style, bool, error) {
	var style Style
	res := s.db.WithContext(ctx).Where(&Style{Name: name}).FirstOrCreate(&style)
	if res.Error != nil {
		return nil, false, res.Error
	}
	return &style, res.RowsAffected > 0, nil
}

// SaveStyle persists changes to a style record.
func (s *Store) SaveStyle(ctx context.Context, style *Style) error {
	return s.db.WithContext(ctx).Save(style).Error
}

// SetLayerStyles replaces a layer's style set and default style with the
// given records.
func (s *Store) SetLayerStyles(ctx context.Context, layer *Layer, defaultStyle *Style, styles []*Style) error {
	if defaultStyle != nil {
		layer.DefaultStyleID = &defaultStyle.ID
	} else {
		layer.DefaultStyleID = nil
	}
	if err := s.db.WithContext(ctx).Model(layer).Association("Styles").Replace(styles); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Save(layer).Error
}
