package geoserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Catalog defines the management operations this service consumes from the
// map server. It is implemented by Client and mocked in mocks for tests.
type Catalog interface {
	GetWorkspace(ctx context.Context, name string) (*Workspace, error)
	GetStore(ctx context.Context, name, workspace string) (*Store, error)
	GetStores(ctx context.Context) ([]Store, error)
	GetResource(ctx context.Context, name, workspace string) (*Resource, error)
	GetResources(ctx context.Context, q ResourceQuery) ([]Resource, error)
	GetLayer(ctx context.Context, name string) (*Layer, error)
	GetLayers(ctx context.Context, resource *Resource) ([]Layer, error)
	GetStyle(ctx context.Context, name string) (*Style, error)
	CreateStyle(ctx context.Context, name, sldBody string) error
	SaveLayer(ctx context.Context, layer *Layer) error
	DeleteLayer(ctx context.Context, name string) error
	DeleteStyle(ctx context.Context, name string, purge bool) error
	DeleteResource(ctx context.Context, res *Resource) error
	DeleteStore(ctx context.Context, store *Store, recurse bool) error
	Reload(ctx context.Context) error
}

// Client talks to the map server's REST management API using JSON
// representations.
type Client struct {
	rest     string
	user     string
	password string
	http     *http.Client
	logger   *zap.Logger
}

// NewClient creates a catalog client from the configuration.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	return &Client{
		rest:     strings.TrimSuffix(cfg.RestURL(), "/"),
		user:     cfg.User,
		password: cfg.Password,
		http:     &http.Client{Transport: transport},
		logger:   logger,
	}
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.rest+path, body)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.user, c.password)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.http.Do(req)
}

// getJSON fetches path and decodes the response body into out.
// 404 maps to ErrNotFound, other non-2xx to FailedRequestError.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &FailedRequestError{Status: resp.StatusCode, Body: string(b)}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// send issues a write request and discards the response body.
func (c *Client) send(ctx context.Context, method, path, contentType string, body io.Reader) error {
	resp, err := c.do(ctx, method, path, contentType, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &FailedRequestError{Status: resp.StatusCode, Body: string(b)}
	}
	return nil
}

// GetWorkspace fetches a workspace by name.
func (c *Client) GetWorkspace(ctx context.Context, name string) (*Workspace, error) {
	var out struct {
		Workspace Workspace `json:"workspace"`
	}
	if err := c.getJSON(ctx, "/workspaces/"+url.PathEscape(name)+".json", &out); err != nil {
		return nil, err
	}
	return &out.Workspace, nil
}

func (c *Client) listWorkspaces(ctx context.Context) ([]ref, error) {
	var out struct {
		Workspaces json.RawMessage `json:"workspaces"`
	}
	if err := c.getJSON(ctx, "/workspaces.json", &out); err != nil {
		return nil, err
	}
	return decodeRefs(out.Workspaces, "workspace")
}

func storeCollection(storeType string) string {
	if storeType == StoreTypeCoverage {
		return "coveragestores"
	}
	return "datastores"
}

func resourceCollection(storeType string) string {
	if storeType == StoreTypeCoverage {
		return "coverages"
	}
	return "featuretypes"
}

func (c *Client) listStores(ctx context.Context, workspace, storeType string) ([]ref, error) {
	var out map[string]json.RawMessage
	path := fmt.Sprintf("/workspaces/%s/%s.json", url.PathEscape(workspace), storeCollection(storeType))
	if err := c.getJSON(ctx, path, &out); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	singular := "dataStore"
	if storeType == StoreTypeCoverage {
		singular = "coverageStore"
	}
	return decodeRefs(out[singular+"s"], singular)
}

func (c *Client) getStoreDetail(ctx context.Context, workspace, name, storeType string) (*Store, error) {
	path := fmt.Sprintf("/workspaces/%s/%s/%s.json",
		url.PathEscape(workspace), storeCollection(storeType), url.PathEscape(name))

	var out map[string]storeBody
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	for _, body := range out {
		return &Store{
			Name:                 body.Name,
			Workspace:            workspace,
			Type:                 storeType,
			ConnectionParameters: body.ConnectionParameters.toMap(),
		}, nil
	}
	return nil, ErrNotFound
}

// GetStore fetches a store by name. When workspace is empty, all workspaces
// are searched. Vector stores are preferred over raster stores on name clash.
func (c *Client) GetStore(ctx context.Context, name, workspace string) (*Store, error) {
	workspaces := []string{workspace}
	if workspace == "" {
		refs, err := c.listWorkspaces(ctx)
		if err != nil {
			return nil, err
		}
		workspaces = workspaces[:0]
		for _, r := range refs {
			workspaces = append(workspaces, r.Name)
		}
	}

	for _, ws := range workspaces {
		for _, storeType := range []string{StoreTypeData, StoreTypeCoverage} {
			store, err := c.getStoreDetail(ctx, ws, name, storeType)
			if err == nil {
				return store, nil
			}
			if !IsNotFound(err) {
				return nil, err
			}
		}
	}
	return nil, ErrNotFound
}

// GetStores lists every store in every workspace.
func (c *Client) GetStores(ctx context.Context) ([]Store, error) {
	workspaces, err := c.listWorkspaces(ctx)
	if err != nil {
		return nil, err
	}

	var stores []Store
	for _, ws := range workspaces {
		for _, storeType := range []string{StoreTypeData, StoreTypeCoverage} {
			refs, err := c.listStores(ctx, ws.Name, storeType)
			if err != nil {
				return nil, err
			}
			for _, r := range refs {
				store, err := c.getStoreDetail(ctx, ws.Name, r.Name, storeType)
				if err != nil {
					if IsNotFound(err) {
						continue
					}
					return nil, err
				}
				stores = append(stores, *store)
			}
		}
	}
	return stores, nil
}

func (c *Client) getResourceDetail(ctx context.Context, store Store, name string) (*Resource, error) {
	path := fmt.Sprintf("/workspaces/%s/%s/%s/%s/%s.json",
		url.PathEscape(store.Workspace), storeCollection(store.Type),
		url.PathEscape(store.Name), resourceCollection(store.Type), url.PathEscape(name))

	var out map[string]resourceBody
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	for _, body := range out {
		return &Resource{
			Name:       body.Name,
			Workspace:  store.Workspace,
			Store:      store.Name,
			StoreType:  store.Type,
			Title:      body.Title,
			Abstract:   body.Abstract,
			Enabled:    body.Enabled,
			Advertised: body.Advertised,
		}, nil
	}
	return nil, ErrNotFound
}

func (c *Client) storeResources(ctx context.Context, store Store) ([]Resource, error) {
	path := fmt.Sprintf("/workspaces/%s/%s/%s/%s.json",
		url.PathEscape(store.Workspace), storeCollection(store.Type),
		url.PathEscape(store.Name), resourceCollection(store.Type))

	var out map[string]json.RawMessage
	if err := c.getJSON(ctx, path, &out); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	singular := "featureType"
	if store.Type == StoreTypeCoverage {
		singular = "coverage"
	}
	refs, err := decodeRefs(out[singular+"s"], singular)
	if err != nil {
		return nil, err
	}

	resources := make([]Resource, 0, len(refs))
	for _, r := range refs {
		res, err := c.getResourceDetail(ctx, store, r.Name)
		if err != nil {
			if IsNotFound(err) {
				continue
			}
			return nil, err
		}
		resources = append(resources, *res)
	}
	return resources, nil
}

// GetResource fetches a resource by name, optionally restricted to a
// workspace.
func (c *Client) GetResource(ctx context.Context, name, workspace string) (*Resource, error) {
	resources, err := c.GetResources(ctx, ResourceQuery{Workspace: workspace})
	if err != nil {
		return nil, err
	}
	for i := range resources {
		if resources[i].Name == name {
			return &resources[i], nil
		}
	}
	return nil, ErrNotFound
}

// GetResources lists resources matching the query, workspace by workspace
// and store by store.
func (c *Client) GetResources(ctx context.Context, q ResourceQuery) ([]Resource, error) {
	var stores []Store

	switch {
	case q.Store != "":
		store, err := c.GetStore(ctx, q.Store, q.Workspace)
		if err != nil {
			return nil, err
		}
		stores = []Store{*store}
	case q.Workspace != "":
		for _, storeType := range []string{StoreTypeData, StoreTypeCoverage} {
			refs, err := c.listStores(ctx, q.Workspace, storeType)
			if err != nil {
				return nil, err
			}
			for _, r := range refs {
				stores = append(stores, Store{Name: r.Name, Workspace: q.Workspace, Type: storeType})
			}
		}
	default:
		all, err := c.GetStores(ctx)
		if err != nil {
			return nil, err
		}
		stores = all
	}

	var resources []Resource
	for _, store := range stores {
		rs, err := c.storeResources(ctx, store)
		if err != nil {
			return nil, err
		}
		resources = append(resources, rs...)
	}
	return resources, nil
}

// GetLayer fetches a published layer by name.
func (c *Client) GetLayer(ctx context.Context, name string) (*Layer, error) {
	var out struct {
		Layer layerBody `json:"layer"`
	}
	if err := c.getJSON(ctx, "/layers/"+url.PathEscape(name)+".json", &out); err != nil {
		return nil, err
	}

	layer := &Layer{
		Name:         out.Layer.Name,
		Resource:     out.Layer.Resource.Name,
		DefaultStyle: out.Layer.DefaultStyle.Name,
	}
	styles, err := decodeRefs(out.Layer.Styles, "style")
	if err != nil {
		return nil, err
	}
	for _, s := range styles {
		layer.Styles = append(layer.Styles, s.Name)
	}
	return layer, nil
}

// GetLayers returns the published layers associated with a resource. The
// catalog publishes one layer per resource, named after it.
func (c *Client) GetLayers(ctx context.Context, resource *Resource) ([]Layer, error) {
	layer, err := c.GetLayer(ctx, resource.Name)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return []Layer{*layer}, nil
}

// GetStyle fetches a style and its styling document.
func (c *Client) GetStyle(ctx context.Context, name string) (*Style, error) {
	var out struct {
		Style struct {
			Name     string `json:"name"`
			SLDTitle string `json:"sldTitle"`
		} `json:"style"`
	}
	if err := c.getJSON(ctx, "/styles/"+url.PathEscape(name)+".json", &out); err != nil {
		return nil, err
	}

	href := c.rest + "/styles/" + url.PathEscape(name) + ".sld"
	body, err := c.getStyleBody(ctx, name)
	if err != nil {
		return nil, err
	}
	return &Style{Name: out.Style.Name, Title: out.Style.SLDTitle, Body: body, BodyHref: href}, nil
}

func (c *Client) getStyleBody(ctx context.Context, name string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/styles/"+url.PathEscape(name)+".sld", "", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &FailedRequestError{Status: resp.StatusCode, Body: string(b)}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CreateStyle registers a new style from a styling document.
func (c *Client) CreateStyle(ctx context.Context, name, sldBody string) error {
	path := "/styles?name=" + url.QueryEscape(name)
	return c.send(ctx, http.MethodPost, path, "application/vnd.ogc.sld+xml", strings.NewReader(sldBody))
}

// SaveLayer persists layer changes (currently the default style) back to the
// catalog.
func (c *Client) SaveLayer(ctx context.Context, layer *Layer) error {
	payload := map[string]any{
		"layer": map[string]any{
			"defaultStyle": map[string]string{"name": layer.DefaultStyle},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	path := "/layers/" + url.PathEscape(layer.Name) + ".json"
	return c.send(ctx, http.MethodPut, path, "application/json", strings.NewReader(string(body)))
}

// DeleteLayer removes a published layer.
func (c *Client) DeleteLayer(ctx context.Context, name string) error {
	return c.send(ctx, http.MethodDelete, "/layers/"+url.PathEscape(name), "", nil)
}

// DeleteStyle removes a style; purge also removes the underlying document.
func (c *Client) DeleteStyle(ctx context.Context, name string, purge bool) error {
	path := "/styles/" + url.PathEscape(name)
	if purge {
		path += "?purge=true"
	}
	return c.send(ctx, http.MethodDelete, path, "", nil)
}

// DeleteResource removes a resource from its store.
func (c *Client) DeleteResource(ctx context.Context, res *Resource) error {
	path := fmt.Sprintf("/workspaces/%s/%s/%s/%s/%s",
		url.PathEscape(res.Workspace), storeCollection(res.StoreType),
		url.PathEscape(res.Store), resourceCollection(res.StoreType), url.PathEscape(res.Name))
	return c.send(ctx, http.MethodDelete, path, "", nil)
}

// DeleteStore removes a store, recursively when requested.
func (c *Client) DeleteStore(ctx context.Context, store *Store, recurse bool) error {
	path := fmt.Sprintf("/workspaces/%s/%s/%s",
		url.PathEscape(store.Workspace), storeCollection(store.Type), url.PathEscape(store.Name))
	if recurse {
		path += "?recurse=true"
	}
	return c.send(ctx, http.MethodDelete, path, "", nil)
}

// Reload asks the map server to reload its catalog from disk, restoring
// consistency after a partially failed delete.
func (c *Client) Reload(ctx context.Context) error {
	return c.send(ctx, http.MethodPost, "/reload", "", nil)
}
