package layers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"geosync/core/geoserver"
	"geosync/core/geoserver/mocks"
	"geosync/feature/layers/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) (*fiber.App, *mocks.Catalog, *mocks.SchemaClient, *models.Store) {
	svc, catalog, schema, store := newTestService(t)
	app := fiber.New()
	handler := NewHandler(svc)
	handler.RegisterRoutes(app)
	return app, catalog, schema, store
}

func TestHandleSync(t *testing.T) {
	app, catalog, schema, _ := setupTestApp(t)

	catalog.On("GetResources", mock.Anything, geoserver.ResourceQuery{}).
		Return([]geoserver.Resource{{
			Name:      "rivers",
			Workspace: "geo",
			Store:     "postgis",
			StoreType: geoserver.StoreTypeData,
			Enabled:   geoserver.ExplicitTrue(),
		}}, nil)
	schema.On("DescribeFeatureType", mock.Anything, mock.Anything).
		Return([]geoserver.SchemaField{}, nil)

	req := httptest.NewRequest("POST", "/layers/sync", strings.NewReader(`{"owner":"admin"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Stats struct {
			Created int `json:"created"`
		} `json:"stats"`
		Layers []map[string]any `json:"layers"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Stats.Created)
	require.Len(t, body.Layers, 1)
	assert.Equal(t, "created", body.Layers[0]["status"])
}

func TestHandleSyncInvalidBody(t *testing.T) {
	app, _, _, _ := setupTestApp(t)

	req := httptest.NewRequest("POST", "/layers/sync", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleDeleteNotFound(t *testing.T) {
	app, _, _, _ := setupTestApp(t)

	req := httptest.NewRequest("DELETE", "/layers/missing", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandleDeleteLocalOnly(t *testing.T) {
	app, catalog, _, store := setupTestApp(t)

	layer := &models.Layer{Name: "rivers", TypeName: "geo:rivers"}
	require.NoError(t, store.DB().Create(layer).Error)

	req := httptest.NewRequest("DELETE", "/layers/rivers?local_only=true", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
	catalog.AssertNotCalled(t, "DeleteLayer", mock.Anything, mock.Anything)
}

func TestHandleList(t *testing.T) {
	app, _, _, store := setupTestApp(t)

	for _, l := range []models.Layer{
		{Name: "rivers", Workspace: "geo", Store: "postgis"},
		{Name: "dem", Workspace: "raster", Store: "geotiff"},
	} {
		layer := l
		require.NoError(t, store.DB().Create(&layer).Error)
	}

	req := httptest.NewRequest("GET", "/layers/?workspace=geo", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body []models.Layer
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "rivers", body[0].Name)
}

func TestHandleStores(t *testing.T) {
	app, catalog, _, _ := setupTestApp(t)

	catalog.On("GetStores", mock.Anything).Return([]geoserver.Store{
		{Name: "postgis", Type: geoserver.StoreTypeData},
		{Name: "geotiff", Type: geoserver.StoreTypeCoverage},
	}, nil)

	req := httptest.NewRequest("GET", "/stores?type=coveragestore", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body []StoreInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 1)
	assert.Equal(t, "geotiff", body[0].Name)
}

func TestHandleGridExtent(t *testing.T) {
	app, _, schema, store := setupTestApp(t)

	layer := &models.Layer{
		Name: "dem", StoreType: geoserver.StoreTypeCoverage, TypeName: "geo:dem",
	}
	require.NoError(t, store.DB().Create(layer).Error)

	schema.On("CoverageGridExtent", mock.Anything, "geo:dem").Return([]int{512, 256}, nil)

	req := httptest.NewRequest("GET", "/layers/dem/extent", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Extent []int `json:"extent"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []int{512, 256}, body.Extent)
}
