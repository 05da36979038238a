// Copyright 2025 The il-ilce-eslestirme Authors
// SPDX-License-Identifier: Apache-2.0

package route

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ealevli/il-ilce-eslestirme/spatial"
)

var (
	kadikoy = spatial.Point{Lat: 40.9819, Lng: 29.0255}
	besikta = spatial.Point{Lat: 41.0422, Lng: 29.0067}
)

func TestORSClientRoadDistance(t *testing.T) {
	var gotAuth string

	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2/directions/driving-car/geojson", r.URL.Path)

		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"features": [{"properties": {"segments": [{"distance": 12345.6}]}}]
		}`))
	}))
	defer srv.Close()

	client := NewORSClient(&ORSClientOptions{BaseURL: srv.URL, APIKey: "test-key"})

	km, err := client.RoadDistance(context.Background(), kadikoy, besikta)
	require.NoError(t, err)

	assert.Equal(t, 12.35, km)
	assert.Equal(t, "test-key", gotAuth)
	assert.Equal(t, "fastest", gotBody["preference"])

	coords, ok := gotBody["coordinates"].([]any)
	require.True(t, ok)
	require.Len(t, coords, 2)

	first, ok := coords[0].([]any)
	require.True(t, ok)
	// longitude first
	assert.Equal(t, kadikoy.Lng, first[0])
	assert.Equal(t, kadikoy.Lat, first[1])
}

func TestORSClientNoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{
			"error": {"code": 2010, "message": "Could not find routable point"}
		}`))
	}))
	defer srv.Close()

	client := NewORSClient(&ORSClientOptions{BaseURL: srv.URL})

	_, err := client.RoadDistance(context.Background(), kadikoy, besikta)
	require.ErrorIs(t, err, ErrNoRoute)
}

func TestORSClientServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 2003, "message": "Key not authorised"}}`))
	}))
	defer srv.Close()

	client := NewORSClient(&ORSClientOptions{BaseURL: srv.URL})

	_, err := client.RoadDistance(context.Background(), kadikoy, besikta)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoRoute)
	assert.Contains(t, err.Error(), "2003")
}

func TestORSClientEmptyFeatures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"features": []}`))
	}))
	defer srv.Close()

	client := NewORSClient(&ORSClientOptions{BaseURL: srv.URL})

	_, err := client.RoadDistance(context.Background(), kadikoy, besikta)
	require.ErrorIs(t, err, ErrNoRoute)
}
