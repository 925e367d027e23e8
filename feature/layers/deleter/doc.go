// Package deleter removes a layer and everything hanging off it from the
// external catalog: the published layer, its non-shared styles, the backing
// resource and, where applicable, the backing store or geometry table.
// Deletion is best-effort; expected partial failures are logged, not raised.
package deleter
