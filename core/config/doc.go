// Package config aggregates the application configuration.
//
// Configuration is sourced from environment variables (optionally seeded from
// a .env file) through Viper. Each core package declares its own partial
// Config struct with `mapstructure` and `default` tags; this package binds
// them into one tree, so GEOSERVER_USER maps to geoserver.user and so on.
package config
