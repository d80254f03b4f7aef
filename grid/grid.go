// Package grid holds the immutable landscape raster: fuel type, slope,
// aspect, and elevation per cell, plus the packed row/column hash used
// everywhere else as a cell identifier.
package grid

import (
	"fmt"

	"github.com/ctessum/sparse"
)

// Cell is one landscape grid cell. Cells are immutable once the grid that
// owns them has been built.
type Cell struct {
	Row, Col int
	FuelCode int     // 0 means non-burnable.
	SlopePct float64 // percent rise.
	AspectDeg float64 // compass degrees, 0-360.
	ElevationM float64
}

// Hash returns the packed cell identifier row*cols+col used as a map key
// throughout the scenario engine.
func (c Cell) Hash(cols int) int {
	return c.Row*cols + c.Col
}

// Grid is a rectangular landscape raster, geo-referenced at its corner,
// with a fixed cell size.
type Grid struct {
	Rows, Cols int
	CellSizeM  float64
	OriginX, OriginY float64 // coordinates of the grid's lower-left corner
	NoData     float64

	fuel       *sparse.DenseArrayInt
	slope      *sparse.DenseArray
	aspect     *sparse.DenseArray
	elevation  *sparse.DenseArray
}

// New builds a Grid of the given extent. Use Set* to populate cell
// attributes, or use Build to construct one from parallel raster slices.
func New(rows, cols int, cellSizeM, originX, originY, noData float64) *Grid {
	return &Grid{
		Rows: rows, Cols: cols, CellSizeM: cellSizeM,
		OriginX: originX, OriginY: originY, NoData: noData,
		fuel:      sparse.ZerosDenseInt(rows, cols),
		slope:     sparse.ZerosDense(rows, cols),
		aspect:    sparse.ZerosDense(rows, cols),
		elevation: sparse.ZerosDense(rows, cols),
	}
}

// Build constructs a Grid from four equal-extent, row-major raster slices.
func Build(rows, cols int, cellSizeM, originX, originY, noData float64, fuel []int, slope, aspect, elevation []float64) (*Grid, error) {
	n := rows * cols
	if len(fuel) != n || len(slope) != n || len(aspect) != n || len(elevation) != n {
		return nil, fmt.Errorf("grid: input rasters must all have %d cells", n)
	}
	g := New(rows, cols, cellSizeM, originX, originY, noData)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := r*cols + c
			g.fuel.Set(fuel[i], r, c)
			g.slope.Set(slope[i], r, c)
			g.aspect.Set(aspect[i], r, c)
			g.elevation.Set(elevation[i], r, c)
		}
	}
	return g, nil
}

// InBounds reports whether (row, col) falls within the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.Rows && col >= 0 && col < g.Cols
}

// Hash returns the packed cell identifier for (row, col).
func (g *Grid) Hash(row, col int) int {
	return row*g.Cols + col
}

// RowCol inverts Hash.
func (g *Grid) RowCol(hash int) (row, col int) {
	return hash / g.Cols, hash % g.Cols
}

// SetCell sets the attributes of one cell. Intended for use while building
// the grid; callers must not mutate a Grid once scenarios are running
// against it.
func (g *Grid) SetCell(row, col, fuelCode int, slopePct, aspectDeg, elevationM float64) {
	g.fuel.Set(fuelCode, row, col)
	g.slope.Set(slopePct, row, col)
	g.aspect.Set(aspectDeg, row, col)
	g.elevation.Set(elevationM, row, col)
}

// Cell returns the (immutable) attributes of the cell at (row, col).
func (g *Grid) Cell(row, col int) Cell {
	return Cell{
		Row: row, Col: col,
		FuelCode:   g.fuel.Get(row, col),
		SlopePct:   g.slope.Get(row, col),
		AspectDeg:  g.aspect.Get(row, col),
		ElevationM: g.elevation.Get(row, col),
	}
}

// CellByHash returns the cell at the given packed hash.
func (g *Grid) CellByHash(hash int) Cell {
	row, col := g.RowCol(hash)
	return g.Cell(row, col)
}

// Combustible reports whether the cell at (row, col) can burn.
func (g *Grid) Combustible(row, col int) bool {
	if !g.InBounds(row, col) {
		return false
	}
	return g.fuel.Get(row, col) != 0
}

// neighborOffsets are the eight-connected neighbor offsets in a fixed,
// deterministic order (N, NE, E, SE, S, SW, W, NW).
var neighborOffsets = [8][2]int{
	{-1, 0}, {-1, 1}, {0, 1}, {1, 1},
	{1, 0}, {1, -1}, {0, -1}, {-1, -1},
}

// Neighbors8 returns the in-bounds 8-connected neighbor hashes of (row, col).
func (g *Grid) Neighbors8(row, col int) []int {
	out := make([]int, 0, 8)
	for _, off := range neighborOffsets {
		r, c := row+off[0], col+off[1]
		if g.InBounds(r, c) {
			out = append(out, g.Hash(r, c))
		}
	}
	return out
}

// AllNeighbors8Burned reports whether every in-bounds 8-connected neighbor
// of (row, col) is marked in burned. A cell with no in-bounds neighbors at
// all (a 1x1 grid) counts as surrounded.
func (g *Grid) AllNeighbors8Burned(row, col int, burned func(hash int) bool) bool {
	for _, off := range neighborOffsets {
		r, c := row+off[0], col+off[1]
		if !g.InBounds(r, c) {
			continue
		}
		if !burned(g.Hash(r, c)) {
			return false
		}
	}
	return true
}

// NCells returns the total number of cells in the grid.
func (g *Grid) NCells() int { return g.Rows * g.Cols }

// RowColFromXY returns the row/col of the cell containing the
// georeferenced point (x, y), and whether that point falls within the
// grid's extent at all.
func (g *Grid) RowColFromXY(x, y float64) (row, col int, ok bool) {
	col = int((x - g.OriginX) / g.CellSizeM)
	row = int((y - g.OriginY) / g.CellSizeM)
	return row, col, g.InBounds(row, col)
}

// CellCenterXY returns the georeferenced coordinates of the center of
// cell (row, col).
func (g *Grid) CellCenterXY(row, col int) (x, y float64) {
	x = g.OriginX + (float64(col)+0.5)*g.CellSizeM
	y = g.OriginY + (float64(row)+0.5)*g.CellSizeM
	return x, y
}

// NearestCombustible performs an expanding-ring search outward from
// (row, col) and returns the row/col of the nearest combustible cell,
// including (row, col) itself if it is already combustible. ok is false
// if the grid contains no combustible cell at all.
func (g *Grid) NearestCombustible(row, col int) (nRow, nCol int, ok bool) {
	if g.Combustible(row, col) {
		return row, col, true
	}
	maxRing := g.Rows
	if g.Cols > maxRing {
		maxRing = g.Cols
	}
	for ring := 1; ring <= maxRing; ring++ {
		for dr := -ring; dr <= ring; dr++ {
			for dc := -ring; dc <= ring; dc++ {
				if abs(dr) != ring && abs(dc) != ring {
					continue // interior of the ring, already checked at a smaller radius
				}
				r, c := row+dr, col+dc
				if g.Combustible(r, c) {
					return r, c, true
				}
			}
		}
	}
	return 0, 0, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
