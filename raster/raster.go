// Package raster is the minimal byte-format collaborator spec.md §1
// treats as external: a Reader/Writer pair that moves a rectangular,
// georeferenced grid of float64 cell values to and from a stream. A real
// deployment would back this with a GeoTIFF or ASCII-grid codec (out of
// spec.md's scope); the concrete implementation here follows the
// teacher's own gob-based persistence (save.go's Save/Load), which is
// the pack's own answer to "how does this repo serialize a grid to
// disk" and needs no GDAL-class dependency no example repo provides.
package raster

import (
	"encoding/gob"
	"fmt"
	"io"
)

// FormatVersion is bumped whenever the encoded layout changes, so
// ReadRaster can reject files written by an incompatible version, mirroring the
// teacher's VarGridDataVersion check in save.go.
const FormatVersion = "firesim-raster-v1"

// Grid is a flat, row-major rectangular raster with the georeferencing
// fields any GeoTIFF/ASCII reader would carry.
type Grid struct {
	Rows, Cols       int
	CellSizeM        float64
	OriginX, OriginY float64
	NoData           float64
	Values           []float64 // row-major, length Rows*Cols
}

// At returns the value at (row, col).
func (g *Grid) At(row, col int) float64 {
	return g.Values[row*g.Cols+col]
}

// Set assigns the value at (row, col).
func (g *Grid) Set(row, col int, v float64) {
	g.Values[row*g.Cols+col] = v
}

// New allocates a Grid of the given extent, filled with NoData.
func New(rows, cols int, cellSizeM, originX, originY, noData float64) *Grid {
	g := &Grid{Rows: rows, Cols: cols, CellSizeM: cellSizeM, OriginX: originX, OriginY: originY, NoData: noData}
	g.Values = make([]float64, rows*cols)
	for i := range g.Values {
		g.Values[i] = noData
	}
	return g
}

// Writer persists a Grid to a byte stream. Reader is its inverse. Both
// are satisfied by the gob codec below; a GeoTIFF/ASCII implementation
// would satisfy the same interfaces without changing any caller.
type Writer interface {
	WriteRaster(w io.Writer, g *Grid) error
}

// Reader reads a Grid from a byte stream.
type Reader interface {
	ReadRaster(r io.Reader) (*Grid, error)
}

// GobCodec implements Reader and Writer using encoding/gob, matching the
// teacher's save.go persistence style.
type GobCodec struct{}

type versionedGrid struct {
	FormatVersion string
	Grid          Grid
}

// WriteRaster gob-encodes g, prefixed with FormatVersion, to w.
func (GobCodec) WriteRaster(w io.Writer, g *Grid) error {
	if g == nil {
		return fmt.Errorf("raster: cannot write a nil grid")
	}
	enc := gob.NewEncoder(w)
	if err := enc.Encode(versionedGrid{FormatVersion: FormatVersion, Grid: *g}); err != nil {
		return fmt.Errorf("raster: encoding grid: %w", err)
	}
	return nil
}

// ReadRaster decodes a Grid previously written by WriteRaster, rejecting
// data written by an incompatible FormatVersion.
func (GobCodec) ReadRaster(r io.Reader) (*Grid, error) {
	dec := gob.NewDecoder(r)
	var vg versionedGrid
	if err := dec.Decode(&vg); err != nil {
		return nil, fmt.Errorf("raster: decoding grid: %w", err)
	}
	if vg.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("raster: format version %q is not compatible with %q", vg.FormatVersion, FormatVersion)
	}
	return &vg.Grid, nil
}
