package models

import (
	"time"
)

// Layer is the local record mirroring a published catalog resource.
// Records are keyed by resource name; the reconciler creates them on first
// sight and refreshes them on subsequent runs.
type Layer struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;size:255"`
	Workspace string `gorm:"size:255;index"`
	Store     string `gorm:"size:255;index"`
	// StoreType is dataStore for vector layers, coverageStore for raster.
	StoreType string `gorm:"size:64"`
	// TypeName is the workspace-qualified resource name (workspace:name).
	TypeName string `gorm:"column:typename;size:512"`
	Title    string `gorm:"size:512"`
	Abstract string `gorm:"type:text"`
	Owner    string `gorm:"size:255"`
	UUID     string `gorm:"size:36"`

	DefaultStyleID *uint
	DefaultStyle   *Style   `gorm:"foreignKey:DefaultStyleID"`
	Styles         []*Style `gorm:"many2many:layer_styles"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Attribute is one field of a layer's schema, unique per (layer, name).
// Numeric vector attributes additionally carry remote-computed statistics.
type Attribute struct {
	ID      uint `gorm:"primaryKey"`
	LayerID uint `gorm:"uniqueIndex:idx_layer_attribute"`
	// Attribute is the field name as declared by the schema.
	Attribute string `gorm:"uniqueIndex:idx_layer_attribute;size:255"`
	// AttributeType is the declared type (e.g. xsd:double, raster).
	AttributeType string `gorm:"size:255"`
	Label         string `gorm:"size:255"`
	Visible       bool
	DisplayOrder  int

	Count             *int64
	Min               *float64
	Max               *float64
	Average           *float64
	Median            *float64
	StdDev            *float64
	Sum               *float64
	UniqueValues      *int64
	LastStatsUpdated  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Style is the local mirror of a catalog style, unique by name.
type Style struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:255"`
	// SLDTitle is the human-readable title from the styling document.
	SLDTitle string `gorm:"size:512"`
	// SLDBody is the styling document itself.
	SLDBody string `gorm:"type:text"`
	// SLDURL is the canonical URL of the styling document.
	SLDURL string `gorm:"size:1024"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Rating is user-contributed metadata deleted alongside its layer.
type Rating struct {
	ID      uint `gorm:"primaryKey"`
	LayerID uint `gorm:"index"`
	User    string `gorm:"size:255"`
	Score   int
}

// Comment is user-contributed metadata deleted alongside its layer.
type Comment struct {
	ID      uint `gorm:"primaryKey"`
	LayerID uint `gorm:"index"`
	Author  string `gorm:"size:255"`
	Body    string `gorm:"type:text"`

	CreatedAt time.Time
}

// Keyword is a free-text tag attached to a layer.
type Keyword struct {
	ID      uint   `gorm:"primaryKey"`
	LayerID uint   `gorm:"index"`
	Keyword string `gorm:"size:255"`
}

// Permission grants a role access to a layer. Default permissions are
// applied when the reconciler first creates a record.
type Permission struct {
	ID      uint   `gorm:"primaryKey"`
	LayerID uint   `gorm:"index"`
	Role    string `gorm:"size:64"`
	Level   string `gorm:"size:32"`
}

// Default permission roles and levels.
const (
	RoleAnonymous = "anonymous"
	RoleAdmin     = "admin"

	LevelView   = "view"
	LevelManage = "manage"
)
