package mocks

import (
	"context"

	"geosync/core/geoserver"

	"github.com/stretchr/testify/mock"
)

// Catalog is a mock implementation of geoserver.Catalog
type Catalog struct {
	mock.Mock
}

func (m *Catalog) GetWorkspace(ctx context.Context, name string) (*geoserver.Workspace, error) {
	args := m.Called(ctx, name)
	if ws, ok := args.Get(0).(*geoserver.Workspace); ok {
		return ws, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Catalog) GetStore(ctx context.Context, name, workspace string) (*geoserver.Store, error) {
	args := m.Called(ctx, name, workspace)
	if s, ok := args.Get(0).(*geoserver.Store); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Catalog) GetStores(ctx context.Context) ([]geoserver.Store, error) {
	args := m.Called(ctx)
	if s, ok := args.Get(0).([]geoserver.Store); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Catalog) GetResource(ctx context.Context, name, workspace string) (*geoserver.Resource, error) {
	args := m.Called(ctx, name, workspace)
	if r, ok := args.Get(0).(*geoserver.Resource); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Catalog) GetResources(ctx context.Context, q geoserver.ResourceQuery) ([]geoserver.Resource, error) {
	args := m.Called(ctx, q)
	if r, ok := args.Get(0).([]geoserver.Resource); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Catalog) GetLayer(ctx context.Context, name string) (*geoserver.Layer, error) {
	args := m.Called(ctx, name)
	if l, ok := args.Get(0).(*geoserver.Layer); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Catalog) GetLayers(ctx context.Context, resource *geoserver.Resource) ([]geoserver.Layer, error) {
	args := m.Called(ctx, resource)
	if l, ok := args.Get(0).([]geoserver.Layer); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Catalog) GetStyle(ctx context.Context, name string) (*geoserver.Style, error) {
	args := m.Called(ctx, name)
	if s, ok := args.Get(0).(*geoserver.Style); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Catalog) CreateStyle(ctx context.Context, name, sldBody string) error {
	args := m.Called(ctx, name, sldBody)
	return args.Error(0)
}

func (m *Catalog) SaveLayer(ctx context.Context, layer *geoserver.Layer) error {
	args := m.Called(ctx, layer)
	return args.Error(0)
}

func (m *Catalog) DeleteLayer(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *Catalog) DeleteStyle(ctx context.Context, name string, purge bool) error {
	args := m.Called(ctx, name, purge)
	return args.Error(0)
}

func (m *Catalog) DeleteResource(ctx context.Context, res *geoserver.Resource) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

func (m *Catalog) DeleteStore(ctx context.Context, store *geoserver.Store, recurse bool) error {
	args := m.Called(ctx, store, recurse)
	return args.Error(0)
}

func (m *Catalog) Reload(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// SchemaClient is a mock implementation of geoserver.SchemaClient
type SchemaClient struct {
	mock.Mock
}

func (m *SchemaClient) DescribeFeatureType(ctx context.Context, typename string) ([]geoserver.SchemaField, error) {
	args := m.Called(ctx, typename)
	if f, ok := args.Get(0).([]geoserver.SchemaField); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SchemaClient) DescribeCoverage(ctx context.Context, identifier string) ([]geoserver.SchemaField, error) {
	args := m.Called(ctx, identifier)
	if f, ok := args.Get(0).([]geoserver.SchemaField); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SchemaClient) CoverageGridExtent(ctx context.Context, identifier string) ([]int, error) {
	args := m.Called(ctx, identifier)
	if e, ok := args.Get(0).([]int); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

// StatisticsClient is a mock implementation of geoserver.StatisticsClient
type StatisticsClient struct {
	mock.Mock
}

func (m *StatisticsClient) AttributeStatistics(ctx context.Context, typename, field string) (*geoserver.AttributeStatistics, error) {
	args := m.Called(ctx, typename, field)
	if s, ok := args.Get(0).(*geoserver.AttributeStatistics); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
