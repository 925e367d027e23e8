package geoserver

import (
	"encoding/json"

	"geosync/core/utils"
)

// ref is a name reference inside a catalog collection listing.
type ref struct {
	Name string `json:"name"`
}

// decodeRefs unwraps a catalog collection such as
// {"workspace":[{"name":...},...]} keyed by the singular element name.
// Empty collections are serialized by the server as "" instead of an
// object, which decodes to no entries.
func decodeRefs(raw json.RawMessage, singular string) ([]ref, error) {
	if len(raw) == 0 || string(raw) == `""` || string(raw) == "null" {
		return nil, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, err
	}
	inner, ok := wrapper[singular]
	if !ok {
		return nil, nil
	}

	var refs []ref
	if err := json.Unmarshal(inner, &refs); err != nil {
		// A single-entry collection is serialized as an object, not a list.
		var one ref
		if err := json.Unmarshal(inner, &one); err != nil {
			return nil, err
		}
		refs = []ref{one}
	}
	return refs, nil
}

type storeBody struct {
	Name                 string           `json:"name"`
	ConnectionParameters connectionParams `json:"connectionParameters"`
}

// connectionParams decodes the catalog's entry-list representation
// {"entry":[{"@key":"dbtype","$":"postgis"},...]} into a plain map.
type connectionParams map[string]string

func (p *connectionParams) UnmarshalJSON(b []byte) error {
	out := connectionParams{}
	*p = out

	if len(b) == 0 || string(b) == `""` || string(b) == "null" {
		return nil
	}

	var wrapper struct {
		Entry json.RawMessage `json:"entry"`
	}
	if err := json.Unmarshal(b, &wrapper); err != nil {
		return err
	}
	if len(wrapper.Entry) == 0 {
		return nil
	}

	type entry struct {
		Key   string `json:"@key"`
		Value any    `json:"$"`
	}
	var entries []entry
	if err := json.Unmarshal(wrapper.Entry, &entries); err != nil {
		var one entry
		if err := json.Unmarshal(wrapper.Entry, &one); err != nil {
			return err
		}
		entries = []entry{one}
	}
	for _, e := range entries {
		out[e.Key] = utils.ToString(e.Value)
	}
	return nil
}

func (p connectionParams) toMap() map[string]string {
	if len(p) == 0 {
		return nil
	}
	return map[string]string(p)
}

type resourceBody struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	Abstract   string `json:"abstract"`
	Enabled    Flag   `json:"enabled"`
	Advertised Flag   `json:"advertised"`
}

type layerBody struct {
	Name         string `json:"name"`
	DefaultStyle ref    `json:"defaultStyle"`
	Styles       json.RawMessage
	Resource     ref `json:"resource"`
}

// UnmarshalJSON keeps the styles collection raw; it shares the catalog's
// empty-string quirk handled by decodeRefs.
func (l *layerBody) UnmarshalJSON(b []byte) error {
	type alias struct {
		Name         string          `json:"name"`
		DefaultStyle ref             `json:"defaultStyle"`
		Styles       json.RawMessage `json:"styles"`
		Resource     ref             `json:"resource"`
	}
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	l.Name = a.Name
	l.DefaultStyle = a.DefaultStyle
	l.Styles = a.Styles
	l.Resource = a.Resource
	return nil
}
