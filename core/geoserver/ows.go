package geoserver

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// SchemaField is a (name, type) pair from a resource's field schema.
type SchemaField struct {
	Name string
	Type string
}

// SchemaClient describes the field schema of a published resource. Vector
// resources are described through a feature-type query, raster resources
// through a coverage query.
type SchemaClient interface {
	DescribeFeatureType(ctx context.Context, typename string) ([]SchemaField, error)
	DescribeCoverage(ctx context.Context, identifier string) ([]SchemaField, error)
	CoverageGridExtent(ctx context.Context, identifier string) ([]int, error)
}

// OWSClient implements SchemaClient against the map server's OWS endpoints.
type OWSClient struct {
	location string
	user     string
	password string
	http     *http.Client
	logger   *zap.Logger
}

// NewOWSClient creates a schema client from the configuration. It shares the
// catalog client's transport settings.
func NewOWSClient(cfg Config, logger *zap.Logger) *OWSClient {
	rest := NewClient(cfg, logger)
	return &OWSClient{
		location: cfg.PublicLocation(),
		user:     cfg.User,
		password: cfg.Password,
		http:     rest.http,
		logger:   logger,
	}
}

func (c *OWSClient) get(ctx context.Context, service string, params url.Values) ([]byte, error) {
	u := c.location + service + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.user, c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &FailedRequestError{Status: resp.StatusCode, Body: string(b)}
	}
	return io.ReadAll(resp.Body)
}

// DescribeFeatureType returns the (name, type) pairs of a vector resource's
// schema, parsed out of the XML schema document.
func (c *OWSClient) DescribeFeatureType(ctx context.Context, typename string) ([]SchemaField, error) {
	params := url.Values{
		"service":  []string{"wfs"},
		"version":  []string{"1.0.0"},
		"request":  []string{"DescribeFeatureType"},
		"typename": []string{typename},
	}
	body, err := c.get(ctx, "wfs", params)
	if err != nil {
		return nil, err
	}
	return parseFeatureTypeSchema(body)
}

// DescribeCoverage returns the axis keys of a raster resource, typed
// "raster".
func (c *OWSClient) DescribeCoverage(ctx context.Context, identifier string) ([]SchemaField, error) {
	body, err := c.describeCoverageRaw(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return parseCoverageAxes(body)
}

// CoverageGridExtent returns the pixel size of a coverage per grid axis
// (high - low + 1).
func (c *OWSClient) CoverageGridExtent(ctx context.Context, identifier string) ([]int, error) {
	body, err := c.describeCoverageRaw(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return parseGridExtent(body)
}

func (c *OWSClient) describeCoverageRaw(ctx context.Context, identifier string) ([]byte, error) {
	params := url.Values{
		"service":     []string{"wcs"},
		"version":     []string{"1.1.0"},
		"request":     []string{"DescribeCoverage"},
		"identifiers": []string{identifier},
	}
	return c.get(ctx, "wcs", params)
}

// parseFeatureTypeSchema walks the XSD document and collects the elements of
// the feature type's extension sequence.
func parseFeatureTypeSchema(doc []byte) ([]SchemaField, error) {
	decoder := xml.NewDecoder(strings.NewReader(string(doc)))

	var fields []SchemaField
	var inExtension, inSequence bool
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse schema document: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "extension":
				inExtension = true
			case "sequence":
				if inExtension {
					inSequence = true
				}
			case "element":
				if inExtension && inSequence {
					var field SchemaField
					for _, attr := range t.Attr {
						switch attr.Name.Local {
						case "name":
							field.Name = attr.Value
						case "type":
							field.Type = attr.Value
						}
					}
					if field.Name != "" {
						fields = append(fields, field)
					}
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "extension":
				inExtension = false
			case "sequence":
				if inExtension {
					inSequence = false
				}
			}
		}
	}
	return fields, nil
}

// parseCoverageAxes collects the available axis keys of a coverage
// description.
func parseCoverageAxes(doc []byte) ([]SchemaField, error) {
	decoder := xml.NewDecoder(strings.NewReader(string(doc)))

	var fields []SchemaField
	var inAxis, inKeys, inKey bool
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse coverage description: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "Axis":
				inAxis = true
			case "AvailableKeys":
				inKeys = inAxis
			case "Key":
				inKey = inAxis && inKeys
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "Axis":
				inAxis = false
			case "AvailableKeys":
				inKeys = false
			case "Key":
				inKey = false
			}
		case xml.CharData:
			if inKey {
				key := strings.TrimSpace(string(t))
				if key != "" {
					fields = append(fields, SchemaField{Name: key, Type: "raster"})
				}
			}
		}
	}
	return fields, nil
}

// parseGridExtent reads the GridEnvelope low/high limits and returns the
// extent in pixels per axis.
func parseGridExtent(doc []byte) ([]int, error) {
	decoder := xml.NewDecoder(strings.NewReader(string(doc)))

	var inEnvelope bool
	var current string
	var lows, highs []int
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse coverage description: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "GridEnvelope":
				inEnvelope = true
			case "low", "high":
				if inEnvelope {
					current = t.Name.Local
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "GridEnvelope":
				inEnvelope = false
			case "low", "high":
				current = ""
			}
		case xml.CharData:
			if current == "" {
				continue
			}
			values, err := parseInts(string(t))
			if err != nil {
				return nil, err
			}
			if len(values) == 0 {
				continue
			}
			if current == "low" {
				lows = values
			} else {
				highs = values
			}
		}
	}

	if len(lows) != len(highs) {
		return nil, fmt.Errorf("grid envelope limits do not align: %d low, %d high", len(lows), len(highs))
	}
	extent := make([]int, len(lows))
	for i := range lows {
		extent[i] = highs[i] - lows[i] + 1
	}
	return extent, nil
}

func parseInts(s string) ([]int, error) {
	fields := strings.Fields(s)
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid grid limit %q: %w", f, err)
		}
		out = append(out, v)
	}
	return out, nil
}
