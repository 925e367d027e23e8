// Package spatial talks directly to the spatial-relational backend (PostGIS)
// behind the map server's vector stores.
//
// Its single job is dropping the geometry table of a deleted resource, which
// the map server does not reliably cascade. Connections are short-lived, one
// per operation.
package spatial
