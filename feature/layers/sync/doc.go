// Package sync implements the catalog reconciliation loop: it lists the
// resources published by the external catalog, upserts the matching local
// layer records, refreshes their attribute schemas and statistics, and
// optionally removes local records whose upstream resource disappeared.
package sync
