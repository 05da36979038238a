// Copyright 2025 The il-ilce-eslestirme Authors
// SPDX-License-Identifier: Apache-2.0

// Package cache persists geocoding and routing answers between runs so
// repeated batches do not hammer the remote services.
package cache

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/uber/h3-go/v4"

	"github.com/ealevli/il-ilce-eslestirme/spatial"
)

// cellResolution is the H3 resolution used for cache keys. Resolution 10
// cells are about 65 meters across, so coordinates that close share one
// cached answer.
const cellResolution = 10

// Store keeps resolved (il, ilçe) pairs and road distances keyed by H3
// cell in a DuckDB database.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open DuckDB connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying database connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// CreateSchema creates the cache tables if they do not exist.
func (s *Store) CreateSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS resolutions (
			cell BIGINT PRIMARY KEY,
			lat DOUBLE NOT NULL,
			lng DOUBLE NOT NULL,
			province VARCHAR NOT NULL,
			district VARCHAR NOT NULL
		);

		CREATE TABLE IF NOT EXISTS road_distances (
			origin_cell BIGINT NOT NULL,
			dest_cell BIGINT NOT NULL,
			km DOUBLE NOT NULL,
			PRIMARY KEY (origin_cell, dest_cell)
		);
	`)

	return err
}

// CellFor maps a point to its cache key.
func CellFor(p spatial.Point) (int64, error) {
	latLng := h3.NewLatLng(p.Lat, p.Lng)

	cell, err := h3.LatLngToCell(latLng, cellResolution)
	if err != nil {
		return 0, fmt.Errorf("error converting %s to h3 cell: %w", p, err)
	}

	return int64(cell), nil
}

// GetResolution looks up a cached (il, ilçe) pair for the point. The ok
// result is false on a miss.
func (s *Store) GetResolution(p spatial.Point) (province, district string, ok bool, err error) {
	cell, err := CellFor(p)
	if err != nil {
		return "", "", false, err
	}

	row := s.db.QueryRow(
		`SELECT province, district FROM resolutions WHERE cell = ?`, cell)

	if err := row.Scan(&province, &district); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", false, nil
		}

		return "", "", false, err
	}

	return province, district, true, nil
}

// PutResolution stores a resolved (il, ilçe) pair for the point.
func (s *Store) PutResolution(p spatial.Point, province, district string) error {
	cell, err := CellFor(p)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO resolutions(cell, lat, lng, province, district)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (cell) DO UPDATE SET province = excluded.province,
			district = excluded.district
	`, cell, p.Lat, p.Lng, province, district)

	return err
}

// GetRoadDistance looks up a cached road distance for the pair. The ok
// result is false on a miss.
func (s *Store) GetRoadDistance(origin, destination spatial.Point) (km float64, ok bool, err error) {
	originCell, err := CellFor(origin)
	if err != nil {
		return 0, false, err
	}

	destCell, err := CellFor(destination)
	if err != nil {
		return 0, false, err
	}

	row := s.db.QueryRow(
		`SELECT km FROM road_distances WHERE origin_cell = ? AND dest_cell = ?`,
		originCell, destCell)

	if err := row.Scan(&km); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}

		return 0, false, err
	}

	return km, true, nil
}

// PutRoadDistance stores a road distance for the pair.
func (s *Store) PutRoadDistance(origin, destination spatial.Point, km float64) error {
	originCell, err := CellFor(origin)
	if err != nil {
		return err
	}

	destCell, err := CellFor(destination)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO road_distances(origin_cell, dest_cell, km)
		VALUES (?, ?, ?)
		ON CONFLICT (origin_cell, dest_cell) DO UPDATE SET km = excluded.km
	`, originCell, destCell, km)

	return err
}
