// Copyright 2025 The il-ilce-eslestirme Authors
// SPDX-License-Identifier: Apache-2.0

package enrich

import (
	"context"
	"log"
	"os"
	"runtime"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/ealevli/il-ilce-eslestirme/geocode"
	"github.com/ealevli/il-ilce-eslestirme/route"
	"github.com/ealevli/il-ilce-eslestirme/spatial"
)

// Geocoder resolves a point to an (il, ilçe) pair. *geocode.Resolver
// satisfies it.
type Geocoder interface {
	Resolve(ctx context.Context, p spatial.Point) (geocode.Resolution, error)
}

// Distancer computes the distances for a coordinate pair.
// *route.Calculator satisfies it.
type Distancer interface {
	Distances(ctx context.Context, a, b spatial.Point) route.DistanceResult
}

// ResultCache persists answers between runs. *cache.Store satisfies it.
type ResultCache interface {
	GetResolution(p spatial.Point) (province, district string, ok bool, err error)
	PutResolution(p spatial.Point, province, district string) error
	GetRoadDistance(origin, destination spatial.Point) (km float64, ok bool, err error)
	PutRoadDistance(origin, destination spatial.Point, km float64) error
}

// Metrics tracks statistics about one enrichment run.
type Metrics struct {
	Rows        int
	Resolved    int
	NotFound    int
	Failed      int
	CacheHits   int
	RoadRouted  int
	RoadMissing int
}

// Merge combines two Metrics.
func (m *Metrics) Merge(o *Metrics) *Metrics {
	m.Rows += o.Rows
	m.Resolved += o.Resolved
	m.NotFound += o.NotFound
	m.Failed += o.Failed
	m.CacheHits += o.CacheHits
	m.RoadRouted += o.RoadRouted
	m.RoadMissing += o.RoadMissing

	return m
}

// Options configuration for an Enricher.
type Options struct {
	// Workers bounds concurrent road distance requests. Defaults to the
	// number of CPUs.
	Workers int

	// DryRun validates the input and reports what would be done without
	// touching any remote service or writing output.
	DryRun bool
}

// Enricher runs the full pipeline: geocode every case point, compute the
// distances to the dealer, write the augmented spreadsheet.
type Enricher struct {
	geocoder   Geocoder
	calculator Distancer
	cache      ResultCache
	options    Options

	Metrics Metrics
}

// NewEnricher creates an Enricher. cache may be nil.
func NewEnricher(geocoder Geocoder, calculator Distancer, cache ResultCache, options Options) *Enricher {
	if options.Workers <= 0 {
		options.Workers = runtime.NumCPU()
	}

	return &Enricher{
		geocoder:   geocoder,
		calculator: calculator,
		cache:      cache,
		options:    options,
	}
}

// Run processes inputPath and writes the augmented spreadsheet to
// outputPath. Row-scoped failures are logged and never abort the batch.
func (e *Enricher) Run(ctx context.Context, inputPath, outputPath string) error {
	table, err := OpenTable(inputPath)
	if err != nil {
		return err
	}
	defer table.Close()

	e.Metrics.Rows = len(table.Rows)

	if e.options.DryRun {
		e.reportDryRun(table)

		return nil
	}

	results := make([]RowResult, len(table.Rows))

	e.geocodeRows(ctx, table, results)
	e.computeDistances(ctx, table, results)

	if err := table.WriteResults(outputPath, results); err != nil {
		return err
	}

	log.Printf(
		"Enrichment complete - %d rows, %d resolved (%d cached), %d not found, %d failed, %d road distances (%d missing).",
		e.Metrics.Rows,
		e.Metrics.Resolved,
		e.Metrics.CacheHits,
		e.Metrics.NotFound,
		e.Metrics.Failed,
		e.Metrics.RoadRouted,
		e.Metrics.RoadMissing,
	)

	return nil
}

func (e *Enricher) reportDryRun(table *Table) {
	validCases, validDealers := 0, 0

	for _, row := range table.Rows {
		if row.CaseValid {
			validCases++
		}

		if row.DealerValid {
			validDealers++
		}
	}

	log.Printf(
		"Dry run - %d rows, %d with usable case coordinates, %d with usable dealer coordinates.",
		len(table.Rows), validCases, validDealers)
}

// geocodeRows is sequential on purpose: the provider enforces a global
// request rate and ordering keeps the backoff bookkeeping simple.
func (e *Enricher) geocodeRows(ctx context.Context, table *Table, results []RowResult) {
	bar := newProgressBar(len(table.Rows), "Geocoding")

	for i, row := range table.Rows {
		results[i] = e.geocodeRow(ctx, row)

		if bar == nil {
			log.Printf("Row %d: %s / %s", row.Number, results[i].Province, results[i].District)
		} else if err := bar.Add(1); err != nil {
			log.Printf("updating progress bar: %v", err)
		}
	}
}

func (e *Enricher) geocodeRow(ctx context.Context, row Row) RowResult {
	if e.cache != nil && row.CaseValid {
		province, district, ok, err := e.cache.GetResolution(row.Case)
		if err != nil {
			log.Printf("Row %d: cache lookup failed: %v", row.Number, err)
		} else if ok {
			e.Metrics.Resolved++
			e.Metrics.CacheHits++

			resolution := geocode.Resolution{
				Outcome:  geocode.Resolved,
				Province: province,
				District: district,
			}

			return RowResult{
				Province: resolution.ProvinceLabel(),
				District: resolution.DistrictLabel(),
			}
		}
	}

	resolution, err := e.geocoder.Resolve(ctx, row.Case)

	switch resolution.Outcome {
	case geocode.Resolved:
		e.Metrics.Resolved++

		if e.cache != nil {
			if err := e.cache.PutResolution(row.Case, resolution.Province, resolution.District); err != nil {
				log.Printf("Row %d: cache store failed: %v", row.Number, err)
			}
		}
	case geocode.NotFound:
		e.Metrics.NotFound++
	case geocode.Failed:
		e.Metrics.Failed++

		log.Printf("Row %d: geocoding failed - %v", row.Number, err)
	}

	return RowResult{
		Province: resolution.ProvinceLabel(),
		District: resolution.DistrictLabel(),
	}
}

func (e *Enricher) computeDistances(ctx context.Context, table *Table, results []RowResult) {
	bar := newProgressBar(len(table.Rows), "Computing distances")

	var wg sync.WaitGroup

	var mu sync.Mutex

	semaphore := make(chan struct{}, e.options.Workers)

	for i := range table.Rows {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()
			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			routed, missing := e.distanceRow(ctx, table.Rows[i], &results[i])

			mu.Lock()
			e.Metrics.RoadRouted += routed
			e.Metrics.RoadMissing += missing

			if bar != nil {
				if err := bar.Add(1); err != nil {
					log.Printf("updating progress bar: %v", err)
				}
			}
			mu.Unlock()
		}(i)
	}

	wg.Wait()
}

func (e *Enricher) distanceRow(ctx context.Context, row Row, result *RowResult) (routed, missing int) {
	if !row.CaseValid || !row.DealerValid {
		return 0, 0
	}

	if e.cache != nil {
		km, ok, err := e.cache.GetRoadDistance(row.Case, row.Dealer)
		if err != nil {
			log.Printf("Row %d: cache lookup failed: %v", row.Number, err)
		} else if ok {
			straight := row.Case.KilometersTo(&row.Dealer)
			result.StraightLineKm = &straight
			result.RoadKm = &km

			return 1, 0
		}
	}

	distances := e.calculator.Distances(ctx, row.Case, row.Dealer)
	result.StraightLineKm = distances.StraightLineKm
	result.RoadKm = distances.RoadKm

	if distances.RoadKm == nil {
		return 0, 1
	}

	if e.cache != nil {
		if err := e.cache.PutRoadDistance(row.Case, row.Dealer, *distances.RoadKm); err != nil {
			log.Printf("Row %d: cache store failed: %v", row.Number, err)
		}
	}

	return 1, 0
}

func newProgressBar(n int, description string) *progressbar.ProgressBar {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}

	return progressbar.NewOptions(n,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
