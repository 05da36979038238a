// Copyright 2025 The il-ilce-eslestirme Authors
// SPDX-License-Identifier: Apache-2.0

package httputils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendRequestHeadersRoundTripper(t *testing.T) {
	var gotUA string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := &http.Client{
		Transport: &AppendRequestHeadersRoundTripper{
			Transport: http.DefaultTransport,
			Headers: map[string]string{
				"User-Agent": "il-ilce-eslestirme/test",
			},
		},
	}

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "il-ilce-eslestirme/test", gotUA)
}

func TestLoggingRoundTripperWithoutWriterIsPassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := &http.Client{
		Transport: &LoggingRoundTripper{Transport: http.DefaultTransport},
	}

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestLoggingRoundTripperDumpsTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var sb strings.Builder

	client := &http.Client{
		Transport: &LoggingRoundTripper{
			Transport: http.DefaultTransport,
			Writer:    &sb,
		},
	}

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := sb.String()
	assert.Contains(t, out, "> GET /")
	assert.Contains(t, out, "< RESPONSE:")
}

func TestAbbreviateTruncatesLongLines(t *testing.T) {
	long := strings.Repeat("x", 1024)

	lines := abbreviate([]string{long}, '>')
	require.Len(t, lines, 1)
	assert.Less(t, len(lines[0]), 1024)
	assert.True(t, strings.HasSuffix(lines[0], "…"))
}
