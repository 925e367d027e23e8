// Package utils provides small type-conversion helpers.
//
// Values coming back from the map-server catalog and the statistics service
// are loosely typed (booleans as strings, numbers as strings), so handlers
// normalize them through these helpers instead of repeating type switches.
package utils
