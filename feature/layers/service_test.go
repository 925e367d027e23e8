package layers

import (
	"context"
	"testing"

	"geosync/core/geoserver"
	"geosync/core/geoserver/mocks"
	"geosync/feature/layers/deleter"
	"geosync/feature/layers/models"
	"geosync/feature/layers/sync"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *mocks.Catalog, *mocks.SchemaClient, *models.Store) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	store := models.NewStore(db, zap.NewNop())
	require.NoError(t, store.AutoMigrate())

	catalog := new(mocks.Catalog)
	schema := new(mocks.SchemaClient)
	syncService := sync.NewService(catalog, schema, nil, store, false, zap.NewNop())
	del := deleter.New(catalog, nil, zap.NewNop())

	svc := NewService(catalog, schema, store, syncService, del, zap.NewNop())
	return svc, catalog, schema, store
}

func TestStoresFilter(t *testing.T) {
	svc, catalog, _, _ := newTestService(t)

	catalog.On("GetStores", mock.Anything).Return([]geoserver.Store{
		{Name: "postgis", Type: geoserver.StoreTypeData},
		{Name: "geotiff", Type: geoserver.StoreTypeCoverage},
	}, nil)

	all, err := svc.Stores(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "datastore", all[0].Type)

	vector, err := svc.Stores(context.Background(), "dataStore")
	require.NoError(t, err)
	require.Len(t, vector, 1)
	assert.Equal(t, "postgis", vector[0].Name)

	raster, err := svc.Stores(context.Background(), "coveragestore")
	require.NoError(t, err)
	require.Len(t, raster, 1)
	assert.Equal(t, "geotiff", raster[0].Name)
}

func TestDeleteCascadesThroughCatalog(t *testing.T) {
	svc, catalog, _, store := newTestService(t)
	ctx := context.Background()

	layer := &models.Layer{
		Name: "rivers", Workspace: "geo", Store: "spatialdb",
		StoreType: geoserver.StoreTypeData, TypeName: "geo:rivers",
	}
	require.NoError(t, store.DB().Create(layer).Error)

	resource := &geoserver.Resource{
		Name: "rivers", Workspace: "geo", Store: "spatialdb",
		StoreType: geoserver.StoreTypeData,
	}
	catalog.On("GetWorkspace", mock.Anything, "geo").Return(&geoserver.Workspace{Name: "geo"}, nil)
	catalog.On("GetResource", mock.Anything, "rivers", "geo").Return(resource, nil)
	catalog.On("GetLayer", mock.Anything, "rivers").Return(&geoserver.Layer{Name: "rivers"}, nil)
	catalog.On("GetStore", mock.Anything, "spatialdb", "geo").
		Return(&geoserver.Store{Name: "spatialdb", Workspace: "geo", Type: geoserver.StoreTypeData}, nil)
	catalog.On("DeleteLayer", mock.Anything, "rivers").Return(nil)
	catalog.On("DeleteResource", mock.Anything, mock.Anything).Return(nil)
	catalog.On("DeleteStore", mock.Anything, mock.Anything, true).Return(nil)

	require.NoError(t, svc.Delete(ctx, "rivers", false))

	catalog.AssertCalled(t, "DeleteLayer", mock.Anything, "rivers")
	_, err := store.GetLayer(ctx, "rivers")
	assert.ErrorIs(t, err, models.ErrLayerNotFound)
}

func TestDeleteLocalOnly(t *testing.T) {
	svc, catalog, _, store := newTestService(t)
	ctx := context.Background()

	layer := &models.Layer{Name: "rivers", TypeName: "geo:rivers"}
	require.NoError(t, store.DB().Create(layer).Error)

	require.NoError(t, svc.Delete(ctx, "rivers", true))

	catalog.AssertNotCalled(t, "GetResource", mock.Anything, mock.Anything, mock.Anything)
	_, err := store.GetLayer(ctx, "rivers")
	assert.ErrorIs(t, err, models.ErrLayerNotFound)
}

func TestDeleteMissingLayer(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	err := svc.Delete(context.Background(), "missing", false)
	assert.ErrorIs(t, err, models.ErrLayerNotFound)
}

func TestGridExtent(t *testing.T) {
	svc, _, schema, store := newTestService(t)
	ctx := context.Background()

	raster := &models.Layer{
		Name: "dem", StoreType: geoserver.StoreTypeCoverage, TypeName: "geo:dem",
	}
	vector := &models.Layer{
		Name: "rivers", StoreType: geoserver.StoreTypeData, TypeName: "geo:rivers",
	}
	require.NoError(t, store.DB().Create(raster).Error)
	require.NoError(t, store.DB().Create(vector).Error)

	schema.On("CoverageGridExtent", mock.Anything, "geo:dem").Return([]int{512, 256}, nil)

	extent, err := svc.GridExtent(ctx, "dem")
	require.NoError(t, err)
	assert.Equal(t, []int{512, 256}, extent)

	_, err = svc.GridExtent(ctx, "rivers")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not raster-backed")
}

func TestFixupStyles(t *testing.T) {
	svc, catalog, _, store := newTestService(t)
	ctx := context.Background()

	layer := &models.Layer{
		Name: "rivers", Workspace: "geo", Store: "spatialdb",
		StoreType: geoserver.StoreTypeData, TypeName: "geo:rivers",
	}
	require.NoError(t, store.DB().Create(layer).Error)

	catalog.On("GetLayers", mock.Anything, mock.Anything).
		Return([]geoserver.Layer{{Name: "rivers", DefaultStyle: "line"}}, nil).Once()
	catalog.On("CreateStyle", mock.Anything, "geo_rivers", mock.Anything).Return(nil)
	catalog.On("SaveLayer", mock.Anything, mock.Anything).Return(nil)
	catalog.On("GetLayer", mock.Anything, "rivers").
		Return(&geoserver.Layer{Name: "rivers", DefaultStyle: "geo_rivers"}, nil)
	catalog.On("GetStyle", mock.Anything, "geo_rivers").
		Return(&geoserver.Style{Name: "geo_rivers", Title: "Rivers"}, nil)

	require.NoError(t, svc.FixupStyles(ctx, "rivers", ""))

	var reloaded models.Layer
	require.NoError(t, store.DB().Preload("DefaultStyle").First(&reloaded, layer.ID).Error)
	require.NotNil(t, reloaded.DefaultStyle)
	assert.Equal(t, "geo_rivers", reloaded.DefaultStyle.Name)
}
