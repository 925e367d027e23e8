package geoserver

import "strings"

// Config holds configuration for the map-server catalog connection.
type Config struct {
	// Location is the public base URL of the map server (with trailing slash).
	Location string `mapstructure:"location" default:"http://localhost:8080/geoserver/"`
	// InternalLocation is the base URL used for management traffic. Falls back
	// to Location when empty.
	InternalLocation string `mapstructure:"internal_location" default:""`
	// User is the management API user.
	User string `mapstructure:"user" default:"admin"`
	// Password is the management API password.
	Password string `mapstructure:"password" default:"geoserver"`
	// WPSEnabled controls whether attribute statistics are requested from the
	// remote processing service.
	WPSEnabled bool `mapstructure:"wps_enabled" default:"false"`
	// TimeoutSeconds is the HTTP timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// PublicLocation returns the public base URL with a trailing slash.
func (c Config) PublicLocation() string {
	return ensureSlash(c.Location)
}

// InternalBase returns the management base URL with a trailing slash.
func (c Config) InternalBase() string {
	if c.InternalLocation == "" {
		return c.PublicLocation()
	}
	return ensureSlash(c.InternalLocation)
}

// RestURL returns the REST management endpoint.
func (c Config) RestURL() string {
	return c.InternalBase() + "rest"
}

func ensureSlash(s string) string {
	if s == "" || strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}
