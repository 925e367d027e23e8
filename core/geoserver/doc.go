// Package geoserver provides clients for the external map-server catalog.
//
// Three collaborators live here, all thin HTTP plumbing:
//
//   - Client (the Catalog interface): the REST management API — workspaces,
//     stores, resources, layers, styles, reload.
//   - OWSClient (the SchemaClient interface): feature-type and coverage
//     schema descriptions used by attribute synchronization.
//   - WPSClient (the StatisticsClient interface): the remote aggregation
//     process computing numeric attribute statistics.
//
// # Error taxonomy
//
//   - ErrNotFound: the catalog object does not exist (404).
//   - FailedRequestError: any other non-success response, typically a style
//     or store that is still shared by another layer.
//   - IsConnectionRefused: the server is unreachable; delete call sites treat
//     this as a soft no-op.
//
// Interfaces are mocked in the mocks subpackage for tests.
package geoserver
