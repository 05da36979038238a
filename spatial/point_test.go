// Copyright 2025 The il-ilce-eslestirme Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	ankara := Point{Lat: 39.9334, Lng: 32.8597}
	istanbul := Point{Lat: 41.0082, Lng: 28.9784}

	d := ankara.HaversineDistance(&istanbul)

	// Known distance is roughly 351 km
	assert.InDelta(t, 351_000, d, 5_000)
}

func TestHaversineDistanceIsSymmetric(t *testing.T) {
	a := Point{Lat: 38.4192, Lng: 27.1287}
	b := Point{Lat: 36.8969, Lng: 30.7133}

	assert.Equal(t, a.HaversineDistance(&b), b.HaversineDistance(&a))
}

func TestHaversineDistanceZeroIffEqual(t *testing.T) {
	a := Point{Lat: 40.1885, Lng: 29.0610}

	assert.Zero(t, a.HaversineDistance(&a))

	b := Point{Lat: 40.1886, Lng: 29.0610}
	assert.Greater(t, a.HaversineDistance(&b), 0.0)
}

func TestKilometersTo(t *testing.T) {
	a := Point{Lat: 39.9334, Lng: 32.8597}
	b := Point{Lat: 39.9334, Lng: 32.8597}

	assert.Equal(t, 0.0, a.KilometersTo(&b))

	c := Point{Lat: 41.0082, Lng: 28.9784}
	km := a.KilometersTo(&c)
	// two decimals at most
	assert.Equal(t, RoundKm(km), km)
}

func TestValid(t *testing.T) {
	assert.True(t, Point{Lat: 39.9, Lng: 32.8}.Valid())
	assert.False(t, Point{Lat: math.NaN(), Lng: 32.8}.Valid())
	assert.False(t, Point{Lat: 39.9, Lng: math.Inf(1)}.Valid())
	assert.False(t, Point{Lat: 91, Lng: 32.8}.Valid())
	assert.False(t, Point{Lat: 39.9, Lng: -181}.Valid())
}

func TestRoundKm(t *testing.T) {
	assert.Equal(t, 12.35, RoundKm(12.3456))
	assert.Equal(t, 12.34, RoundKm(12.344))
	assert.Equal(t, 0.0, RoundKm(0))
}
