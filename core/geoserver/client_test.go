package geoserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := Config{Location: server.URL + "/geoserver/", User: "admin", Password: "secret"}
	return NewClient(cfg, zap.NewNop()), server
}

func TestGetWorkspace(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/geoserver/rest/workspaces/geodata.json", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "admin", user)
		assert.Equal(t, "secret", pass)
		w.Write([]byte(`{"workspace":{"name":"geodata"}}`))
	})

	client, _ := newTestClient(t, mux)

	ws, err := client.GetWorkspace(context.Background(), "geodata")
	require.NoError(t, err)
	assert.Equal(t, "geodata", ws.Name)

	_, err = client.GetWorkspace(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetResourcesByWorkspace(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/geoserver/rest/workspaces/geodata/datastores.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"dataStores":{"dataStore":[{"name":"rivers_db"}]}}`))
	})
	mux.HandleFunc("/geoserver/rest/workspaces/geodata/coveragestores.json", func(w http.ResponseWriter, r *http.Request) {
		// Empty collections come back as an empty string.
		w.Write([]byte(`{"coverageStores":""}`))
	})
	mux.HandleFunc("/geoserver/rest/workspaces/geodata/datastores/rivers_db/featuretypes.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"featureTypes":{"featureType":[{"name":"rivers_2020"}]}}`))
	})
	mux.HandleFunc("/geoserver/rest/workspaces/geodata/datastores/rivers_db/featuretypes/rivers_2020.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"featureType":{"name":"rivers_2020","title":"Rivers","abstract":"All rivers","enabled":"true","advertised":true}}`))
	})

	client, _ := newTestClient(t, mux)

	resources, err := client.GetResources(context.Background(), ResourceQuery{Workspace: "geodata"})
	require.NoError(t, err)
	require.Len(t, resources, 1)

	res := resources[0]
	assert.Equal(t, "rivers_2020", res.Name)
	assert.Equal(t, "geodata", res.Workspace)
	assert.Equal(t, "rivers_db", res.Store)
	assert.Equal(t, StoreTypeData, res.StoreType)
	assert.True(t, res.Enabled.True(), "string-encoded enabled flag should parse")
	assert.True(t, res.Advertised.True())
}

func TestGetStoreConnectionParameters(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/geoserver/rest/workspaces/geodata/datastores/rivers_db.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"dataStore":{"name":"rivers_db","connectionParameters":{"entry":[{"@key":"dbtype","$":"postgis"},{"@key":"host","$":"localhost"}]}}}`))
	})

	client, _ := newTestClient(t, mux)

	store, err := client.GetStore(context.Background(), "rivers_db", "geodata")
	require.NoError(t, err)
	assert.Equal(t, "postgis", store.ConnectionParameters["dbtype"])
	assert.True(t, store.IsPostGIS())
}

func TestGetLayer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/geoserver/rest/layers/rivers_2020.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"layer":{"name":"rivers_2020","defaultStyle":{"name":"point"},"styles":{"style":[{"name":"alt_a"}]},"resource":{"name":"geodata:rivers_2020"}}}`))
	})

	client, _ := newTestClient(t, mux)

	layer, err := client.GetLayer(context.Background(), "rivers_2020")
	require.NoError(t, err)
	assert.Equal(t, "point", layer.DefaultStyle)
	assert.Equal(t, []string{"alt_a"}, layer.Styles)
	assert.Equal(t, "geodata:rivers_2020", layer.Resource)
}

func TestDeleteStyleFailedRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/geoserver/rest/styles/shared_style", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "purge=true", r.URL.RawQuery)
		http.Error(w, "style is in use", http.StatusForbidden)
	})

	client, _ := newTestClient(t, mux)

	err := client.DeleteStyle(context.Background(), "shared_style", true)
	var failed *FailedRequestError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, http.StatusForbidden, failed.Status)
}

func TestSaveLayerSendsDefaultStyle(t *testing.T) {
	var body string
	mux := http.NewServeMux()
	mux.HandleFunc("/geoserver/rest/layers/rivers_2020.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		body = string(buf)
	})

	client, _ := newTestClient(t, mux)

	err := client.SaveLayer(context.Background(), &Layer{Name: "rivers_2020", DefaultStyle: "geodata_rivers_2020"})
	require.NoError(t, err)
	assert.Contains(t, body, `"geodata_rivers_2020"`)
}

func TestIsConnectionRefused(t *testing.T) {
	cfg := Config{Location: "http://127.0.0.1:1/geoserver/", TimeoutSeconds: 1}
	client := NewClient(cfg, zap.NewNop())

	_, err := client.GetWorkspace(context.Background(), "geodata")
	require.Error(t, err)
	assert.True(t, IsConnectionRefused(err))
}
