// Copyright 2025 The il-ilce-eslestirme Authors
// SPDX-License-Identifier: Apache-2.0

// Package route computes road network distances between coordinate pairs.
package route

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ealevli/il-ilce-eslestirme/spatial"
	"github.com/ealevli/il-ilce-eslestirme/utils/httputils"
)

const defaultBaseURL = "https://api.openrouteservice.org"

// ErrNoRoute means the router answered but could not connect the two
// points, for instance because one falls too far from the road network.
var ErrNoRoute = errors.New("güzergah bulunamadı")

// snapRadiusMeters is how far a coordinate may be snapped onto the road
// network before the router gives up on it.
const snapRadiusMeters = 1000

// ORSClientOptions configuration for the openrouteservice client.
type ORSClientOptions struct {
	// BaseURL overrides the openrouteservice endpoint, mostly for tests.
	BaseURL string

	// APIKey is the openrouteservice authorization token.
	APIKey string

	// Timeout is the per-request timeout. Defaults to 30 seconds.
	Timeout time.Duration

	// TraceWriter enables light tracing of HTTP requests and responses.
	TraceWriter io.Writer

	// TraceBody enables full HTTP body tracing.
	TraceBody bool
}

// ORSClient computes driving distances through the openrouteservice
// directions API.
type ORSClient struct {
	client  *http.Client
	baseURL string
}

// NewORSClient creates an openrouteservice client.
func NewORSClient(options *ORSClientOptions) *ORSClient {
	if options == nil {
		options = &ORSClientOptions{}
	}

	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := options.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if options.APIKey != "" {
		headers["Authorization"] = options.APIKey
	}

	transport := &httputils.AppendRequestHeadersRoundTripper{
		Headers: headers,
		Transport: &httputils.LoggingRoundTripper{
			Writer:    options.TraceWriter,
			DumpBody:  options.TraceBody,
			Transport: http.DefaultTransport,
		},
	}

	return &ORSClient{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		baseURL: baseURL,
	}
}

type directionsRequest struct {
	Coordinates [][2]float64 `json:"coordinates"`
	Preference  string       `json:"preference"`
	Radiuses    []float64    `json:"radiuses"`
}

type directionsResponse struct {
	Features []struct {
		Properties struct {
			Segments []struct {
				Distance float64 `json:"distance"`
			} `json:"segments"`
		} `json:"properties"`
	} `json:"features"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Routable point error codes from the openrouteservice API.
const (
	orsCodePointNotFound = 2009
	orsCodeRouteNotFound = 2010
)

// RoadDistance returns the driving distance between origin and destination
// in kilometers, rounded to two decimals. ErrNoRoute is returned when no
// route connects the two points.
func (c *ORSClient) RoadDistance(ctx context.Context, origin, destination spatial.Point) (float64, error) {
	body, err := json.Marshal(directionsRequest{
		Coordinates: [][2]float64{
			{origin.Lng, origin.Lat},
			{destination.Lng, destination.Lat},
		},
		Preference: "fastest",
		Radiuses:   []float64{snapRadiusMeters, snapRadiusMeters},
	})
	if err != nil {
		return 0, fmt.Errorf("encoding directions request: %w", err)
	}

	reqURL := c.baseURL + "/v2/directions/driving-car/geojson"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("creating directions request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("calling directions service: %w", err)
	}
	defer resp.Body.Close()

	var parsed directionsResponse

	decodeErr := json.NewDecoder(resp.Body).Decode(&parsed)

	// Unroutable points come back as a 4xx with a structured error body,
	// so decode before looking at the status.
	if parsed.Error != nil {
		switch parsed.Error.Code {
		case orsCodePointNotFound, orsCodeRouteNotFound:
			return 0, fmt.Errorf("%w: %s", ErrNoRoute, parsed.Error.Message)
		default:
			return 0, fmt.Errorf("directions service error %d: %s",
				parsed.Error.Code, parsed.Error.Message)
		}
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("directions service returned HTTP %d", resp.StatusCode)
	}

	if decodeErr != nil {
		return 0, fmt.Errorf("decoding directions response: %w", decodeErr)
	}

	if len(parsed.Features) == 0 || len(parsed.Features[0].Properties.Segments) == 0 {
		return 0, ErrNoRoute
	}

	meters := parsed.Features[0].Properties.Segments[0].Distance

	return spatial.RoundKm(meters / 1000), nil
}
