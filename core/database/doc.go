// Package database manages the connection to the local record store.
//
// The record store holds the Layer, Attribute and Style records that mirror the
// external map-server catalog (see feature/layers/models). Connections are made
// through GORM, with MySQL as the production driver and SQLite (including
// in-memory databases) for development and tests.
package database
