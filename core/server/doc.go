// Package server holds the configuration for the HTTP admin surface.
//
// The admin API exposes the synchronization and deletion operations over HTTP
// (see feature/layers). Access is protected by an API key checked by the auth
// middleware when configured.
package server
