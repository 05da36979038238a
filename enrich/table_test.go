// Copyright 2025 The il-ilce-eslestirme Authors
// SPDX-License-Identifier: Apache-2.0

package enrich

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTestSheet(t *testing.T, header []string, rows [][]any) string {
	t.Helper()

	file := excelize.NewFile()
	sheet := file.GetSheetName(0)

	for i, cell := range header {
		name, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		require.NoError(t, file.SetCellValue(sheet, name, cell))
	}

	for r, row := range rows {
		for c, value := range row {
			if value == nil {
				continue
			}

			name, err := excelize.CoordinatesToCellName(c+1, r+2)
			require.NoError(t, err)
			require.NoError(t, file.SetCellValue(sheet, name, value))
		}
	}

	path := filepath.Join(t.TempDir(), "input.xlsx")
	require.NoError(t, file.SaveAs(path))
	require.NoError(t, file.Close())

	return path
}

var testHeader = []string{"Vaka No", "VAKA Lat", "VAKA Long", "Bayi Enlem", "Bayi Boylam"}

func TestOpenTable(t *testing.T) {
	path := writeTestSheet(t, testHeader, [][]any{
		{"V-1", 39.92, 32.85, 39.94, 32.86},
		{"V-2", "41,0082", "28,9784", 40.98, 29.02},
		{"V-3", nil, nil, 40.98, 29.02},
		{"V-4", "not-a-number", 32.85, 40.98, 29.02},
	})

	table, err := OpenTable(path)
	require.NoError(t, err)

	defer table.Close()

	require.Len(t, table.Rows, 4)

	assert.True(t, table.Rows[0].CaseValid)
	assert.True(t, table.Rows[0].DealerValid)
	assert.InDelta(t, 39.92, table.Rows[0].Case.Lat, 1e-9)

	// decimal comma
	assert.True(t, table.Rows[1].CaseValid)
	assert.InDelta(t, 41.0082, table.Rows[1].Case.Lat, 1e-9)

	assert.False(t, table.Rows[2].CaseValid)
	assert.True(t, table.Rows[2].DealerValid)

	assert.False(t, table.Rows[3].CaseValid)
}

func TestOpenTableHeaderMatchIsLenient(t *testing.T) {
	path := writeTestSheet(t,
		[]string{" vaka lat ", "VAKA LONG", "bayi enlem", "Bayi  Boylam"},
		[][]any{{39.92, 32.85, 39.94, 32.86}})

	table, err := OpenTable(path)
	require.NoError(t, err)

	defer table.Close()

	require.Len(t, table.Rows, 1)
	assert.True(t, table.Rows[0].CaseValid)
}

func TestOpenTableMissingColumns(t *testing.T) {
	path := writeTestSheet(t, []string{"VAKA Lat", "Bayi Enlem"}, nil)

	_, err := OpenTable(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bayi Boylam")
	assert.Contains(t, err.Error(), "VAKA Long")
}

func TestWriteResults(t *testing.T) {
	path := writeTestSheet(t, testHeader, [][]any{
		{"V-1", 39.92, 32.85, 39.94, 32.86},
		{"V-2", nil, nil, 40.98, 29.02},
	})

	table, err := OpenTable(path)
	require.NoError(t, err)

	defer table.Close()

	straight, road := 12.34, 15.6

	outputPath := filepath.Join(t.TempDir(), "output.xlsx")
	require.NoError(t, table.WriteResults(outputPath, []RowResult{
		{Province: "Ankara", District: "Çankaya", StraightLineKm: &straight, RoadKm: &road},
		{Province: "NotFound", District: "NotFound"},
	}))

	out, err := excelize.OpenFile(outputPath)
	require.NoError(t, err)

	defer out.Close()

	rows, err := out.GetRows(out.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	expectedHeader := append(append([]string{}, testHeader...),
		ColumnProvince, ColumnDistrict, ColumnStraightLineKm, ColumnRoadKm)
	if diff := cmp.Diff(expectedHeader, rows[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}

	require.GreaterOrEqual(t, len(rows[1]), 9)
	assert.Equal(t, "Ankara", rows[1][5])
	assert.Equal(t, "Çankaya", rows[1][6])
	assert.Equal(t, "12.34", rows[1][7])
	assert.Equal(t, "15.6", rows[1][8])

	// distances left blank for the unresolvable row
	require.GreaterOrEqual(t, len(rows[2]), 7)
	assert.Equal(t, "NotFound", rows[2][5])
	assert.Equal(t, "NotFound", rows[2][6])
}

func TestWriteResultsKeepsCellsBeyondHeader(t *testing.T) {
	path := writeTestSheet(t, testHeader, [][]any{
		{"V-1", 39.92, 32.85, 39.94, 32.86, "ek not"},
		{"V-2", 39.92, 32.85, 39.94, 32.86},
	})

	table, err := OpenTable(path)
	require.NoError(t, err)

	defer table.Close()

	outputPath := filepath.Join(t.TempDir(), "output.xlsx")
	require.NoError(t, table.WriteResults(outputPath, []RowResult{
		{Province: "Ankara", District: "Çankaya"},
		{Province: "Ankara", District: "Merkez"},
	}))

	out, err := excelize.OpenFile(outputPath)
	require.NoError(t, err)

	defer out.Close()

	rows, err := out.GetRows(out.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// the stray cell survives and results land after it
	require.GreaterOrEqual(t, len(rows[1]), 8)
	assert.Equal(t, "ek not", rows[1][5])
	assert.Equal(t, "Ankara", rows[1][6])
	assert.Equal(t, "Çankaya", rows[1][7])

	require.GreaterOrEqual(t, len(rows[2]), 8)
	assert.Equal(t, "Merkez", rows[2][7])
}

func TestWriteResultsLengthMismatch(t *testing.T) {
	path := writeTestSheet(t, testHeader, [][]any{
		{"V-1", 39.92, 32.85, 39.94, 32.86},
	})

	table, err := OpenTable(path)
	require.NoError(t, err)

	defer table.Close()

	err = table.WriteResults(filepath.Join(t.TempDir(), "out.xlsx"), nil)
	require.Error(t, err)
}
