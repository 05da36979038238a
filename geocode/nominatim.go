// Copyright 2025 The il-ilce-eslestirme Authors
// SPDX-License-Identifier: Apache-2.0

// Package geocode resolves coordinates to normalized Turkish
// (il, ilçe) administrative pairs via reverse geocoding.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ealevli/il-ilce-eslestirme/spatial"
	"github.com/ealevli/il-ilce-eslestirme/utils/httputils"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// Address is the structured address payload of a Nominatim reverse
// geocoding response. Only the keys relevant to il/ilçe extraction are
// mapped; which ones win is decided by provinceKeys and districtKeys.
type Address struct {
	Province     string `json:"province"`
	State        string `json:"state"`
	Region       string `json:"region"`
	Town         string `json:"town"`
	County       string `json:"county"`
	Municipality string `json:"municipality"`
	CityDistrict string `json:"city_district"`
	District     string `json:"district"`
	Suburb       string `json:"suburb"`
	Village      string `json:"village"`
}

// Field returns the raw value of the given Nominatim address key.
func (a *Address) Field(key string) string {
	switch key {
	case "province":
		return a.Province
	case "state":
		return a.State
	case "region":
		return a.Region
	case "town":
		return a.Town
	case "county":
		return a.County
	case "municipality":
		return a.Municipality
	case "city_district":
		return a.CityDistrict
	case "district":
		return a.District
	case "suburb":
		return a.Suburb
	case "village":
		return a.Village
	default:
		return ""
	}
}

// Result is a single reverse geocoding response.
type Result struct {
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
	// Nominatim reports "Unable to geocode" here instead of a non-200 status.
	Error string `json:"error"`
}

// Empty reports whether the provider returned nothing usable.
func (r *Result) Empty() bool {
	return r == nil || r.Error != "" || (r.Address == Address{} && r.DisplayName == "")
}

// ClientOptions configuration for the Nominatim client.
type ClientOptions struct {
	// BaseURL overrides the Nominatim endpoint, mostly for tests.
	BaseURL string

	// UserAgent identifies this application, required by the usage policy.
	UserAgent string

	// Timeout is the per-request timeout. Defaults to 20 seconds.
	Timeout time.Duration

	// TraceWriter enables light tracing of HTTP requests and responses.
	TraceWriter io.Writer

	// TraceBody enables full HTTP body tracing.
	TraceBody bool
}

// Client talks to a Nominatim-compatible reverse geocoding service.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a reverse geocoding client.
func NewClient(options *ClientOptions) *Client {
	if options == nil {
		options = &ClientOptions{}
	}

	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := options.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}

	userAgent := options.UserAgent
	if userAgent == "" {
		userAgent = "il-ilce-eslestirme/unknown"
	}

	transport := &http.Transport{
		MaxIdleConns:        4,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	}

	loggingTransport := &httputils.LoggingRoundTripper{
		Writer:    options.TraceWriter,
		DumpBody:  options.TraceBody,
		Transport: transport,
	}

	headerTransport := &httputils.AppendRequestHeadersRoundTripper{
		Headers: map[string]string{
			"User-Agent": userAgent,
			"Accept":     "application/json",
		},
		Transport: loggingTransport,
	}

	return &Client{
		client: &http.Client{
			Timeout:   timeout,
			Transport: headerTransport,
		},
		baseURL: baseURL,
	}
}

// Reverse resolves the point to an address, requesting Turkish naming.
// An empty (but well-formed) provider answer is not an error: the result
// simply reports Empty().
func (c *Client) Reverse(ctx context.Context, p spatial.Point) (*Result, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(p.Lng, 'f', -1, 64))
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("accept-language", "tr")

	reqURL := c.baseURL + "/reverse?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating reverse geocoding request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ClassifyHTTPStatus(resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding reverse geocoding response: %w", err)
	}

	return &result, nil
}

func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &GeocodingError{
			Type:    ErrorTypeTimeout,
			Message: "zaman aşımı",
			Err:     err,
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &GeocodingError{
			Type:    ErrorTypeTimeout,
			Message: "zaman aşımı",
			Err:     err,
		}
	}

	return &GeocodingError{
		Type:    ErrorTypeNetwork,
		Message: "ağ hatası",
		Err:     err,
	}
}
