// Package styles generates default symbology for freshly published layers
// and mirrors catalog style objects into local records.
package styles
