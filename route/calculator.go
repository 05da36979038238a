// Copyright 2025 The il-ilce-eslestirme Authors
// SPDX-License-Identifier: Apache-2.0

package route

import (
	"context"
	"errors"
	"log"

	"github.com/ealevli/il-ilce-eslestirme/spatial"
)

// RoadRouter computes driving distances. *ORSClient satisfies it.
type RoadRouter interface {
	RoadDistance(ctx context.Context, origin, destination spatial.Point) (float64, error)
}

// DistanceResult carries the two distances between a coordinate pair.
// Nil means the value could not be computed.
type DistanceResult struct {
	StraightLineKm *float64
	RoadKm         *float64
}

// Calculator pairs the cheap great-circle distance with the road network
// distance from a router. The router is optional.
type Calculator struct {
	router RoadRouter
}

// NewCalculator creates a Calculator. A nil router disables road
// distances, leaving only the straight-line figures.
func NewCalculator(router RoadRouter) *Calculator {
	return &Calculator{router: router}
}

// Distances computes both distances between a and b. The straight-line
// distance never depends on the router: routing failures degrade the
// result instead of discarding it.
func (c *Calculator) Distances(ctx context.Context, a, b spatial.Point) DistanceResult {
	if !a.Valid() || !b.Valid() {
		return DistanceResult{}
	}

	straight := a.KilometersTo(&b)
	result := DistanceResult{StraightLineKm: &straight}

	if c.router == nil {
		return result
	}

	road, err := c.router.RoadDistance(ctx, a, b)
	if err != nil {
		if errors.Is(err, ErrNoRoute) {
			log.Printf("no road route between %s and %s", a, b)
		} else {
			log.Printf("road distance between %s and %s failed: %v", a, b, err)
		}

		return result
	}

	result.RoadKm = &road

	return result
}
