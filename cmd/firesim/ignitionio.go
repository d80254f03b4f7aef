package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ctessum/geom"

	"github.com/wildfiresim/firesim/grid"
	"github.com/wildfiresim/firesim/ignition"
)

var ignitionHeader = []string{"type", "x", "y", "size_hectares", "polygon"}

// readIgnitions parses the ignition file CSV into resolved seeds, one
// row per ignition. A "point" row uses x/y/size_hectares; a "polygon"
// row ignores x/y/size_hectares and instead reads a ";"-separated list
// of "x,y" vertices from the polygon column.
func readIgnitions(r io.Reader, g *grid.Grid) ([]ignition.Seed, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("firesim: reading ignition header: %w", err)
	}
	if !stringsEqual(header, ignitionHeader) {
		return nil, fmt.Errorf("firesim: expected ignition header %v, got %v", ignitionHeader, header)
	}

	var seeds []ignition.Seed
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firesim: ignition row %d: %w", line, err)
		}
		line++
		if len(record) != 5 {
			return nil, fmt.Errorf("firesim: ignition row %d: expected 5 columns, got %d", line, len(record))
		}

		var rowSeeds []ignition.Seed
		switch record[0] {
		case "point":
			x, err := strconv.ParseFloat(record[1], 64)
			if err != nil {
				return nil, fmt.Errorf("firesim: ignition row %d: bad x %q: %w", line, record[1], err)
			}
			y, err := strconv.ParseFloat(record[2], 64)
			if err != nil {
				return nil, fmt.Errorf("firesim: ignition row %d: bad y %q: %w", line, record[2], err)
			}
			var size float64
			if record[3] != "" {
				size, err = strconv.ParseFloat(record[3], 64)
				if err != nil {
					return nil, fmt.Errorf("firesim: ignition row %d: bad size_hectares %q: %w", line, record[3], err)
				}
			}
			rowSeeds, err = ignition.ResolvePoint(g, ignition.Point{X: x, Y: y, SizeHectares: size})
			if err != nil {
				return nil, fmt.Errorf("firesim: ignition row %d: %w", line, err)
			}
		case "polygon":
			poly, err := parsePolygon(record[4])
			if err != nil {
				return nil, fmt.Errorf("firesim: ignition row %d: %w", line, err)
			}
			rowSeeds, err = ignition.ResolvePerimeter(g, ignition.Perimeter{Polygon: poly})
			if err != nil {
				return nil, fmt.Errorf("firesim: ignition row %d: %w", line, err)
			}
		default:
			return nil, fmt.Errorf("firesim: ignition row %d: unrecognized type %q", line, record[0])
		}
		seeds = append(seeds, rowSeeds...)
	}
	if len(seeds) == 0 {
		return nil, fmt.Errorf("firesim: ignition file contains no usable ignitions")
	}
	return seeds, nil
}

// parsePolygon reads a ";"-separated list of "x,y" vertex pairs into a
// single-ring geom.Polygon.
func parsePolygon(s string) (geom.Polygon, error) {
	parts := strings.Split(s, ";")
	ring := make([]geom.Point, 0, len(parts))
	for _, p := range parts {
		xy := strings.Split(p, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("bad polygon vertex %q", p)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xy[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad polygon vertex %q: %w", p, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(xy[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("bad polygon vertex %q: %w", p, err)
		}
		ring = append(ring, geom.Point{X: x, Y: y})
	}
	if len(ring) < 3 {
		return nil, fmt.Errorf("polygon needs at least 3 vertices, got %d", len(ring))
	}
	return geom.Polygon{ring}, nil
}
