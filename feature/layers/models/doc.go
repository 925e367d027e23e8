// Package models defines the local records mirroring the external catalog
// (layers, attributes, styles and the user metadata hanging off them) and a
// Store with the database operations the reconciler and deleter need.
package models
