package geoserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"geosync/core/utils"

	"go.uber.org/zap"
)

// AttributeStatistics is the numeric summary the processing service computes
// over one attribute of one layer.
type AttributeStatistics struct {
	Count             int     `json:"count"`
	Min               float64 `json:"min"`
	Max               float64 `json:"max"`
	Average           float64 `json:"average"`
	Median            float64 `json:"median"`
	StandardDeviation float64 `json:"standard_deviation"`
	Sum               float64 `json:"sum"`
	UniqueValues      int     `json:"unique_values"`
}

// StatisticsClient requests attribute statistics from the remote processing
// service.
type StatisticsClient interface {
	AttributeStatistics(ctx context.Context, typename, field string) (*AttributeStatistics, error)
}

// WPSClient implements StatisticsClient against the map server's WPS
// aggregation process.
type WPSClient struct {
	location string
	user     string
	password string
	http     *http.Client
	logger   *zap.Logger
}

// NewWPSClient creates a statistics client from the configuration.
func NewWPSClient(cfg Config, logger *zap.Logger) *WPSClient {
	rest := NewClient(cfg, logger)
	return &WPSClient{
		location: cfg.PublicLocation(),
		user:     cfg.User,
		password: cfg.Password,
		http:     rest.http,
		logger:   logger,
	}
}

const aggregateRequestTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<wps:Execute version="1.0.0" service="WPS" xmlns:wps="http://www.opengis.net/wps/1.0.0"
    xmlns:ows="http://www.opengis.net/ows/1.1" xmlns:wfs="http://www.opengis.net/wfs"
    xmlns:xlink="http://www.w3.org/1999/xlink">
  <ows:Identifier>gs:Aggregate</ows:Identifier>
  <wps:DataInputs>
    <wps:Input>
      <ows:Identifier>features</ows:Identifier>
      <wps:Reference mimeType="text/xml" xlink:href="http://geoserver/wfs" method="POST">
        <wps:Body>
          <wfs:GetFeature service="WFS" version="1.0.0" outputFormat="GML2">
            <wfs:Query typeName="%[1]s"/>
          </wfs:GetFeature>
        </wps:Body>
      </wps:Reference>
    </wps:Input>
    <wps:Input>
      <ows:Identifier>aggregationAttribute</ows:Identifier>
      <wps:Data><wps:LiteralData>%[2]s</wps:LiteralData></wps:Data>
    </wps:Input>
    <wps:Input>
      <ows:Identifier>function</ows:Identifier>
      <wps:Data><wps:LiteralData>Count</wps:LiteralData></wps:Data>
    </wps:Input>
    <wps:Input>
      <ows:Identifier>function</ows:Identifier>
      <wps:Data><wps:LiteralData>Min</wps:LiteralData></wps:Data>
    </wps:Input>
    <wps:Input>
      <ows:Identifier>function</ows:Identifier>
      <wps:Data><wps:LiteralData>Max</wps:LiteralData></wps:Data>
    </wps:Input>
    <wps:Input>
      <ows:Identifier>function</ows:Identifier>
      <wps:Data><wps:LiteralData>Average</wps:LiteralData></wps:Data>
    </wps:Input>
    <wps:Input>
      <ows:Identifier>function</ows:Identifier>
      <wps:Data><wps:LiteralData>Median</wps:LiteralData></wps:Data>
    </wps:Input>
    <wps:Input>
      <ows:Identifier>function</ows:Identifier>
      <wps:Data><wps:LiteralData>StdDev</wps:LiteralData></wps:Data>
    </wps:Input>
    <wps:Input>
      <ows:Identifier>function</ows:Identifier>
      <wps:Data><wps:LiteralData>Sum</wps:LiteralData></wps:Data>
    </wps:Input>
  </wps:DataInputs>
  <wps:ResponseForm>
    <wps:RawDataOutput mimeType="application/json">
      <ows:Identifier>result</ows:Identifier>
    </wps:RawDataOutput>
  </wps:ResponseForm>
</wps:Execute>`

// AttributeStatistics runs the aggregation process for one attribute of one
// layer and maps the results.
func (c *WPSClient) AttributeStatistics(ctx context.Context, typename, field string) (*AttributeStatistics, error) {
	request := fmt.Sprintf(aggregateRequestTemplate, typename, field)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.location+"wps", strings.NewReader(request))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.user, c.password)
	req.Header.Set("Content-Type", "application/xml")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &FailedRequestError{Status: resp.StatusCode, Body: string(b)}
	}

	var out struct {
		AggregationResults map[string]any `json:"AggregationResults"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode aggregation results: %w", err)
	}
	if out.AggregationResults == nil {
		return nil, fmt.Errorf("aggregation response missing results")
	}

	results := out.AggregationResults
	stats := &AttributeStatistics{
		Count:             int(utils.ToFloat(results["Count"])),
		Min:               utils.ToFloat(results["Min"]),
		Max:               utils.ToFloat(results["Max"]),
		Average:           utils.ToFloat(results["Average"]),
		Median:            utils.ToFloat(results["Median"]),
		StandardDeviation: utils.ToFloat(results["StandardDeviation"]),
		Sum:               utils.ToFloat(results["Sum"]),
	}
	if v, ok := results["unique_values"]; ok {
		stats.UniqueValues = int(utils.ToFloat(v))
	}

	c.logger.Debug("Computed attribute statistics",
		zap.String("typename", typename),
		zap.String("field", field),
		zap.Duration("took", time.Since(start)),
	)
	return stats, nil
}
