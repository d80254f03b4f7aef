package ignition

import (
	"testing"

	"github.com/ctessum/geom"

	"github.com/wildfiresim/firesim/grid"
)

func buildTestGrid() *grid.Grid {
	rows, cols := 10, 10
	n := rows * cols
	fuel := make([]int, n)
	slope := make([]float64, n)
	aspect := make([]float64, n)
	elev := make([]float64, n)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			fuel[r*cols+c] = 7 // everything combustible by default
		}
	}
	g, _ := grid.Build(rows, cols, 100, 0, 0, -9999, fuel, slope, aspect, elev)
	return g
}

func TestResolvePointZeroSize(t *testing.T) {
	g := buildTestGrid()
	cx, cy := g.CellCenterXY(5, 5)
	seeds, err := ResolvePoint(g, Point{X: cx, Y: cy})
	if err != nil {
		t.Fatalf("ResolvePoint: %v", err)
	}
	if len(seeds) != 1 || seeds[0].Row != 5 || seeds[0].Col != 5 {
		t.Errorf("seeds = %+v, want single seed (5,5)", seeds)
	}
	if seeds[0].Substituted {
		t.Error("expected no substitution for an already-combustible cell")
	}
}

func TestResolvePointSubstitutesNearestCombustible(t *testing.T) {
	g := buildTestGrid()
	g.SetCell(5, 5, 0, 0, 0, 0) // center cell is non-fuel
	cx, cy := g.CellCenterXY(5, 5)
	seeds, err := ResolvePoint(g, Point{X: cx, Y: cy})
	if err != nil {
		t.Fatalf("ResolvePoint: %v", err)
	}
	if len(seeds) != 1 {
		t.Fatalf("expected 1 seed, got %d", len(seeds))
	}
	if !seeds[0].Substituted {
		t.Error("expected substitution flag set")
	}
	if seeds[0].Row == 5 && seeds[0].Col == 5 {
		t.Error("substituted seed should not be the non-fuel cell itself")
	}
}

func TestResolvePointOutsideGrid(t *testing.T) {
	g := buildTestGrid()
	if _, err := ResolvePoint(g, Point{X: -5000, Y: -5000}); err == nil {
		t.Fatal("expected error for a point outside the grid")
	}
}

func TestResolvePointWithSizeSeedsMultipleCells(t *testing.T) {
	g := buildTestGrid()
	cx, cy := g.CellCenterXY(5, 5)
	seeds, err := ResolvePoint(g, Point{X: cx, Y: cy, SizeHectares: 5})
	if err != nil {
		t.Fatalf("ResolvePoint: %v", err)
	}
	if len(seeds) < 2 {
		t.Errorf("expected multiple seeds for a sized ignition, got %d", len(seeds))
	}
}

func TestResolvePerimeterSeedsCellsInsidePolygon(t *testing.T) {
	g := buildTestGrid()
	poly := geom.Polygon{{
		{X: 200, Y: 200}, {X: 200, Y: 500}, {X: 500, Y: 500}, {X: 500, Y: 200}, {X: 200, Y: 200},
	}}
	seeds, err := ResolvePerimeter(g, Perimeter{Polygon: poly})
	if err != nil {
		t.Fatalf("ResolvePerimeter: %v", err)
	}
	for _, s := range seeds {
		x, y := g.CellCenterXY(s.Row, s.Col)
		if x < 200 || x > 500 || y < 200 || y > 500 {
			t.Errorf("seed (%d,%d) at (%v,%v) is outside the perimeter", s.Row, s.Col, x, y)
		}
	}
	if len(seeds) == 0 {
		t.Error("expected at least one seed inside the perimeter")
	}
}

func TestResolvePerimeterNoCombustibleCells(t *testing.T) {
	g := buildTestGrid()
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			g.SetCell(r, c, 0, 0, 0, 0)
		}
	}
	poly := geom.Polygon{{
		{X: 0, Y: 0}, {X: 0, Y: 900}, {X: 900, Y: 900}, {X: 900, Y: 0}, {X: 0, Y: 0},
	}}
	if _, err := ResolvePerimeter(g, Perimeter{Polygon: poly}); err == nil {
		t.Fatal("expected error when no combustible cells fall in the perimeter")
	}
}
