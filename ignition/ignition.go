// Package ignition resolves a scenario's starting fire — either a single
// point with an optional size, or a perimeter polygon — into the set of
// grid cells seeded with initial front points.
package ignition

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"

	"github.com/wildfiresim/firesim/grid"
)

// Point is a (latitude/longitude projected to grid coordinates) ignition
// with an optional starting size.
type Point struct {
	X, Y        float64
	SizeHectares float64
}

// Perimeter is a polygon-bounded ignition; every combustible cell whose
// center falls within the polygon is seeded.
type Perimeter struct {
	Polygon geom.Polygon
}

// Seed is one resolved starting cell: its row/col and whether it was the
// literal requested location or a substituted nearest-combustible cell.
type Seed struct {
	Row, Col    int
	Substituted bool
}

// ResolvePoint resolves a Point ignition against g. A zero-size point
// resolves to a single cell; a point with SizeHectares > 0 resolves to
// every cell within a disc of the equivalent radius. If the center cell
// is non-fuel, the nearest combustible cell in expanding rings is
// substituted (spec's point-ignition substitution rule), and the disc
// (if any) is recentered there.
func ResolvePoint(g *grid.Grid, p Point) ([]Seed, error) {
	row, col, ok := g.RowColFromXY(p.X, p.Y)
	if !ok {
		return nil, fmt.Errorf("ignition: point (%v,%v) falls outside the grid", p.X, p.Y)
	}
	centerRow, centerCol := row, col
	substituted := false
	if !g.Combustible(row, col) {
		nr, nc, found := g.NearestCombustible(row, col)
		if !found {
			return nil, fmt.Errorf("ignition: no combustible cell found near (%v,%v)", p.X, p.Y)
		}
		centerRow, centerCol, substituted = nr, nc, true
	}
	if p.SizeHectares <= 0 {
		return []Seed{{Row: centerRow, Col: centerCol, Substituted: substituted}}, nil
	}

	radiusM := radiusFromHectares(p.SizeHectares)
	cx, cy := g.CellCenterXY(centerRow, centerCol)
	var seeds []Seed
	cellRadius := int(math.Ceil(radiusM/g.CellSizeM)) + 1
	for dr := -cellRadius; dr <= cellRadius; dr++ {
		for dc := -cellRadius; dc <= cellRadius; dc++ {
			r, c := centerRow+dr, centerCol+dc
			if !g.InBounds(r, c) || !g.Combustible(r, c) {
				continue
			}
			x, y := g.CellCenterXY(r, c)
			if dist(x, y, cx, cy) <= radiusM {
				seeds = append(seeds, Seed{Row: r, Col: c, Substituted: substituted && r == centerRow && c == centerCol})
			}
		}
	}
	if len(seeds) == 0 {
		seeds = append(seeds, Seed{Row: centerRow, Col: centerCol, Substituted: substituted})
	}
	return seeds, nil
}

// ResolvePerimeter resolves a Perimeter ignition: every combustible cell
// in g whose center lies within (or on the edge of) the polygon is
// seeded.
func ResolvePerimeter(g *grid.Grid, per Perimeter) ([]Seed, error) {
	bounds := per.Polygon.Bounds()
	minRow, minCol, _ := g.RowColFromXY(bounds.Min.X, bounds.Min.Y)
	maxRow, maxCol, _ := g.RowColFromXY(bounds.Max.X, bounds.Max.Y)
	if minRow > maxRow {
		minRow, maxRow = maxRow, minRow
	}
	if minCol > maxCol {
		minCol, maxCol = maxCol, minCol
	}
	clampRow := func(r int) int {
		if r < 0 {
			return 0
		}
		if r >= g.Rows {
			return g.Rows - 1
		}
		return r
	}
	clampCol := func(c int) int {
		if c < 0 {
			return 0
		}
		if c >= g.Cols {
			return g.Cols - 1
		}
		return c
	}
	minRow, maxRow = clampRow(minRow), clampRow(maxRow)
	minCol, maxCol = clampCol(minCol), clampCol(maxCol)

	var seeds []Seed
	for r := minRow; r <= maxRow; r++ {
		for c := minCol; c <= maxCol; c++ {
			if !g.Combustible(r, c) {
				continue
			}
			x, y := g.CellCenterXY(r, c)
			status := geom.Point{X: x, Y: y}.Within(per.Polygon)
			if status == geom.Inside || status == geom.OnEdge {
				seeds = append(seeds, Seed{Row: r, Col: c})
			}
		}
	}
	if len(seeds) == 0 {
		return nil, fmt.Errorf("ignition: perimeter contains no combustible cell")
	}
	return seeds, nil
}

// radiusFromHectares converts an area in hectares to the radius (in
// meters) of a circle of equivalent area.
func radiusFromHectares(hectares float64) float64 {
	areaM2 := hectares * 10000
	return math.Sqrt(areaM2 / math.Pi)
}

func dist(x1, y1, x2, y2 float64) float64 {
	dx, dy := x1-x2, y1-y2
	return math.Sqrt(dx*dx + dy*dy)
}
