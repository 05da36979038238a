// Copyright 2025 The il-ilce-eslestirme Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ealevli/il-ilce-eslestirme/spatial"
)

func TestClientReverse(t *testing.T) {
	var gotQuery map[string]string

	var gotUA string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/reverse", r.URL.Path)

		gotUA = r.Header.Get("User-Agent")
		gotQuery = map[string]string{
			"lat":             r.URL.Query().Get("lat"),
			"lon":             r.URL.Query().Get("lon"),
			"format":          r.URL.Query().Get("format"),
			"addressdetails":  r.URL.Query().Get("addressdetails"),
			"accept-language": r.URL.Query().Get("accept-language"),
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"display_name": "Kızılay, Çankaya, Ankara, Türkiye",
			"address": {"province": "Ankara", "town": "Çankaya"}
		}`))
	}))
	defer srv.Close()

	client := NewClient(&ClientOptions{BaseURL: srv.URL, UserAgent: "test/1.0"})

	result, err := client.Reverse(context.Background(), spatial.Point{Lat: 39.92, Lng: 32.85})
	require.NoError(t, err)

	assert.Equal(t, "test/1.0", gotUA)

	expectedQuery := map[string]string{
		"lat":             "39.92",
		"lon":             "32.85",
		"format":          "jsonv2",
		"addressdetails":  "1",
		"accept-language": "tr",
	}
	if diff := cmp.Diff(expectedQuery, gotQuery); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}

	assert.False(t, result.Empty())
	assert.Equal(t, "Ankara", result.Address.Province)
	assert.Equal(t, "Çankaya", result.Address.Town)
	assert.Equal(t, "Kızılay, Çankaya, Ankara, Türkiye", result.DisplayName)
}

func TestClientReverseUnableToGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error": "Unable to geocode"}`))
	}))
	defer srv.Close()

	client := NewClient(&ClientOptions{BaseURL: srv.URL})

	result, err := client.Reverse(context.Background(), spatial.Point{Lat: 0, Lng: 0})
	require.NoError(t, err)
	assert.True(t, result.Empty())
}

func TestClientReverseRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(&ClientOptions{BaseURL: srv.URL})

	_, err := client.Reverse(context.Background(), spatial.Point{Lat: 39.92, Lng: 32.85})
	require.Error(t, err)

	var geoErr *GeocodingError

	require.True(t, errors.As(err, &geoErr))
	assert.Equal(t, ErrorTypeRateLimit, geoErr.Type)
	assert.True(t, IsRetryable(err))
}

func TestClientReverseBadRequestIsNotRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(&ClientOptions{BaseURL: srv.URL})

	_, err := client.Reverse(context.Background(), spatial.Point{Lat: 39.92, Lng: 32.85})
	require.Error(t, err)
	assert.False(t, IsRetryable(err))
}
