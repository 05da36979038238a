// Copyright 2025 The il-ilce-eslestirme Authors
// SPDX-License-Identifier: Apache-2.0

// Package enrich reads a spreadsheet of case and dealer coordinates and
// augments it with resolved administrative units and distances.
package enrich

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ealevli/il-ilce-eslestirme/spatial"
)

// Required input column headers. Matching ignores case and surrounding
// whitespace so hand-edited spreadsheets still load.
const (
	ColumnCaseLat   = "VAKA Lat"
	ColumnCaseLng   = "VAKA Long"
	ColumnDealerLat = "Bayi Enlem"
	ColumnDealerLng = "Bayi Boylam"
)

// Output column headers, appended after the existing columns in this order.
const (
	ColumnProvince       = "Bulunan İl"
	ColumnDistrict       = "Bulunan İlçe"
	ColumnStraightLineKm = "Lineer Mesafe (km)"
	ColumnRoadKm         = "Reel Yol Mesafesi (km)"
)

// Row is one data row of the input spreadsheet.
type Row struct {
	// Number is the spreadsheet row number, 1-based, header included.
	Number int

	Case        spatial.Point
	CaseValid   bool
	Dealer      spatial.Point
	DealerValid bool
}

// RowResult is what gets appended to a row on output.
type RowResult struct {
	Province       string
	District       string
	StraightLineKm *float64
	RoadKm         *float64
}

// Table is an input spreadsheet with its coordinate columns located.
type Table struct {
	file      *excelize.File
	sheetName string
	width     int

	Rows []Row
}

// OpenTable loads the first sheet of an xlsx file and locates the four
// required coordinate columns.
func OpenTable(path string) (*Table, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", path, err)
	}

	table, err := newTable(file)
	if err != nil {
		_ = file.Close()

		return nil, err
	}

	return table, nil
}

func newTable(file *excelize.File) (*Table, error) {
	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found")
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("error reading rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	header := rows[0]

	columns, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	// Data rows may be wider than the header; the appended columns must
	// not overwrite any existing cell.
	width := len(header)
	for _, cells := range rows[1:] {
		if len(cells) > width {
			width = len(cells)
		}
	}

	table := &Table{
		file:      file,
		sheetName: sheetName,
		width:     width,
		Rows:      make([]Row, 0, len(rows)-1),
	}

	for i, cells := range rows[1:] {
		row := Row{Number: i + 2}

		row.Case, row.CaseValid = pointAt(cells, columns.caseLat, columns.caseLng)
		row.Dealer, row.DealerValid = pointAt(cells, columns.dealerLat, columns.dealerLng)

		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// Close releases the underlying file.
func (t *Table) Close() error {
	return t.file.Close()
}

// WriteResults appends the output columns and saves the augmented
// spreadsheet to path. results must be parallel to Rows.
func (t *Table) WriteResults(path string, results []RowResult) error {
	if len(results) != len(t.Rows) {
		return fmt.Errorf("got %d results for %d rows", len(results), len(t.Rows))
	}

	headers := []string{
		ColumnProvince, ColumnDistrict, ColumnStraightLineKm, ColumnRoadKm,
	}

	for i, header := range headers {
		if err := t.setCell(1, t.width+i+1, header); err != nil {
			return err
		}
	}

	for i, result := range results {
		rowNumber := t.Rows[i].Number

		values := []any{result.Province, result.District, nil, nil}
		if result.StraightLineKm != nil {
			values[2] = *result.StraightLineKm
		}

		if result.RoadKm != nil {
			values[3] = *result.RoadKm
		}

		for j, value := range values {
			if value == nil {
				continue
			}

			if err := t.setCell(rowNumber, t.width+j+1, value); err != nil {
				return err
			}
		}
	}

	if err := t.file.SaveAs(path); err != nil {
		return fmt.Errorf("error saving %s: %w", path, err)
	}

	return nil
}

func (t *Table) setCell(row, column int, value any) error {
	cell, err := excelize.CoordinatesToCellName(column, row)
	if err != nil {
		return err
	}

	return t.file.SetCellValue(t.sheetName, cell, value)
}

type columnIndexes struct {
	caseLat, caseLng, dealerLat, dealerLng int
}

func locateColumns(header []string) (columnIndexes, error) {
	indexes := columnIndexes{caseLat: -1, caseLng: -1, dealerLat: -1, dealerLng: -1}

	wanted := map[string]*int{
		normalizeHeader(ColumnCaseLat):   &indexes.caseLat,
		normalizeHeader(ColumnCaseLng):   &indexes.caseLng,
		normalizeHeader(ColumnDealerLat): &indexes.dealerLat,
		normalizeHeader(ColumnDealerLng): &indexes.dealerLng,
	}

	for i, cell := range header {
		if target, ok := wanted[normalizeHeader(cell)]; ok && *target == -1 {
			*target = i
		}
	}

	var missing []string

	for label, index := range map[string]int{
		ColumnCaseLat:   indexes.caseLat,
		ColumnCaseLng:   indexes.caseLng,
		ColumnDealerLat: indexes.dealerLat,
		ColumnDealerLng: indexes.dealerLng,
	} {
		if index == -1 {
			missing = append(missing, label)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)

		return indexes, fmt.Errorf("missing required columns: %s",
			strings.Join(missing, ", "))
	}

	return indexes, nil
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func pointAt(cells []string, latIndex, lngIndex int) (spatial.Point, bool) {
	lat, latOK := parseCoordinate(cells, latIndex)
	lng, lngOK := parseCoordinate(cells, lngIndex)

	if !latOK || !lngOK {
		return spatial.Point{}, false
	}

	point := spatial.Point{Lat: lat, Lng: lng}

	return point, point.Valid()
}

// parseCoordinate reads a cell as a float. Turkish spreadsheets sometimes
// carry a decimal comma, so that is accepted too.
func parseCoordinate(cells []string, index int) (float64, bool) {
	if index >= len(cells) {
		return 0, false
	}

	raw := strings.TrimSpace(cells[index])
	if raw == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		value, err = strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil {
			return 0, false
		}
	}

	return value, true
}
