package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/wildfiresim/firesim/grid"
)

var gridHeader = []string{"row", "col", "fuel_value", "slope_pct", "aspect_deg", "elevation_m"}

// readGrid parses the landscape raster CSV (one row per cell, in any
// order) into a *grid.Grid, the CLI-facing counterpart to fuel.Load and
// weather.ReadDaily for the one input type those packages don't already
// cover.
func readGrid(r io.Reader, cellSizeM, originX, originY, noData float64) (*grid.Grid, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("firesim: reading grid header: %w", err)
	}
	if !stringsEqual(header, gridHeader) {
		return nil, fmt.Errorf("firesim: expected grid header %v, got %v", gridHeader, header)
	}

	maxRow, maxCol := -1, -1
	type rawCell struct {
		row, col, fuel          int
		slope, aspect, elevation float64
	}
	var cells []rawCell
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firesim: grid row %d: %w", line, err)
		}
		line++
		if len(record) != 6 {
			return nil, fmt.Errorf("firesim: grid row %d: expected 6 columns, got %d", line, len(record))
		}
		row, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("firesim: grid row %d: bad row %q: %w", line, record[0], err)
		}
		col, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("firesim: grid row %d: bad col %q: %w", line, record[1], err)
		}
		fuelValue, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, fmt.Errorf("firesim: grid row %d: bad fuel_value %q: %w", line, record[2], err)
		}
		slope, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return nil, fmt.Errorf("firesim: grid row %d: bad slope_pct %q: %w", line, record[3], err)
		}
		aspect, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			return nil, fmt.Errorf("firesim: grid row %d: bad aspect_deg %q: %w", line, record[4], err)
		}
		elevation, err := strconv.ParseFloat(record[5], 64)
		if err != nil {
			return nil, fmt.Errorf("firesim: grid row %d: bad elevation_m %q: %w", line, record[5], err)
		}
		if row > maxRow {
			maxRow = row
		}
		if col > maxCol {
			maxCol = col
		}
		cells = append(cells, rawCell{row, col, fuelValue, slope, aspect, elevation})
	}
	if maxRow < 0 || maxCol < 0 {
		return nil, fmt.Errorf("firesim: grid file contains no cells")
	}

	rows, cols := maxRow+1, maxCol+1
	g := grid.New(rows, cols, cellSizeM, originX, originY, noData)
	for _, c := range cells {
		g.SetCell(c.row, c.col, c.fuel, c.slope, c.aspect, c.elevation)
	}
	return g, nil
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
