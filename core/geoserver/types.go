package geoserver

import (
	"encoding/json"
	"strings"

	"geosync/core/utils"
)

// Store kinds as reported by the catalog.
const (
	StoreTypeData     = "dataStore"
	StoreTypeCoverage = "coverageStore"
)

// Flag is a tri-state boolean as the catalog reports it: absent, or an
// explicit value. Older servers serialize the value as the literal strings
// "true"/"false" instead of JSON booleans, both are accepted.
type Flag struct {
	Present bool
	Value   bool
}

// UnmarshalJSON accepts booleans, strings and null.
func (f *Flag) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = Flag{}
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	f.Present = true
	f.Value = utils.ToBool(v)
	return nil
}

// MarshalJSON emits the explicit value, or null when absent.
func (f Flag) MarshalJSON() ([]byte, error) {
	if !f.Present {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// True reports an explicit true value.
func (f Flag) True() bool { return f.Present && f.Value }

// False reports an explicit false value; absent flags are not false.
func (f Flag) False() bool { return f.Present && !f.Value }

// ExplicitTrue builds a present true flag (test helper and default builder).
func ExplicitTrue() Flag { return Flag{Present: true, Value: true} }

// ExplicitFalse builds a present false flag.
func ExplicitFalse() Flag { return Flag{Present: true, Value: false} }

// Workspace is a namespace grouping stores and resources in the catalog.
type Workspace struct {
	Name string `json:"name"`
}

// Store is a named connection to underlying data within a workspace.
type Store struct {
	Name      string `json:"name"`
	Workspace string `json:"workspace"`
	// Type is StoreTypeData for vector stores, StoreTypeCoverage for raster.
	Type string `json:"type"`
	// ConnectionParameters identify the storage backend for vector stores
	// (e.g. dbtype=postgis).
	ConnectionParameters map[string]string `json:"connectionParameters,omitempty"`
}

// IsPostGIS reports whether the store is a vector store backed by a
// spatial-relational database.
func (s *Store) IsPostGIS() bool {
	return s.Type == StoreTypeData && s.ConnectionParameters["dbtype"] == "postgis"
}

// Resource is a named geospatial dataset registered in the catalog. It is
// fetched fresh on every run and never persisted by this service.
type Resource struct {
	Name      string `json:"name"`
	Workspace string `json:"workspace"`
	Store     string `json:"store"`
	// StoreType is the kind of the backing store (dataStore or coverageStore).
	StoreType  string `json:"storeType"`
	Title      string `json:"title"`
	Abstract   string `json:"abstract"`
	Enabled    Flag   `json:"enabled"`
	Advertised Flag   `json:"advertised"`
}

// QualifiedName returns the workspace-qualified resource name.
func (r *Resource) QualifiedName() string {
	if r.Workspace == "" {
		return r.Name
	}
	return r.Workspace + ":" + r.Name
}

// Layer is the catalog's published view of a resource, carrying its styling.
type Layer struct {
	Name string `json:"name"`
	// Resource is the workspace-qualified name of the backing resource.
	Resource string `json:"resource"`
	// DefaultStyle is the name of the default style, empty if unset.
	DefaultStyle string `json:"defaultStyle"`
	// Styles are the names of the alternate styles.
	Styles []string `json:"styles"`
}

// AllStyles returns the alternate styles plus the default style, skipping
// an unset default.
func (l *Layer) AllStyles() []string {
	styles := make([]string, 0, len(l.Styles)+1)
	styles = append(styles, l.Styles...)
	if l.DefaultStyle != "" {
		styles = append(styles, l.DefaultStyle)
	}
	return styles
}

// Style is a styling document registered in the catalog.
type Style struct {
	Name string `json:"name"`
	// Title is the human-readable title from the styling document.
	Title string `json:"title"`
	// Body is the styling document itself.
	Body string `json:"body"`
	// BodyHref is the canonical URL of the styling document.
	BodyHref string `json:"bodyHref"`
}

// ResourceQuery narrows a resource listing. Zero value lists everything.
type ResourceQuery struct {
	// Workspace restricts the listing to one workspace.
	Workspace string
	// Store restricts the listing to one store (within Workspace when set).
	Store string
}

// SplitQualified splits a possibly workspace-qualified layer identifier
// ("workspace:name" or "name") into its parts.
func SplitQualified(identifier string) (workspace, name string) {
	if i := strings.IndexByte(identifier, ':'); i >= 0 {
		return identifier[:i], identifier[i+1:]
	}
	return "", identifier
}
