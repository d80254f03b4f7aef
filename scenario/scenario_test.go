package scenario

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/wildfiresim/firesim/fbp"
	"github.com/wildfiresim/firesim/fuel"
	"github.com/wildfiresim/firesim/grid"
	"github.com/wildfiresim/firesim/ignition"
	"github.com/wildfiresim/firesim/weather"
)

const testFuelCSV = `grid_value,export_value,descriptive_name,fuel_type
1,101,Pine forest,C-2
`

func buildTestFixture(t *testing.T, rows, cols int) (*grid.Grid, *fuel.Table, *weather.Stream) {
	t.Helper()
	n := rows * cols
	fuelCodes := make([]int, n)
	slope := make([]float64, n)
	aspect := make([]float64, n)
	elev := make([]float64, n)
	for i := range fuelCodes {
		fuelCodes[i] = 1
	}
	g, err := grid.Build(rows, cols, 30, 0, 0, -9999, fuelCodes, slope, aspect, elev)
	if err != nil {
		t.Fatalf("grid.Build: %v", err)
	}
	tbl, err := fuel.Load(strings.NewReader(testFuelCSV), 50, 50, nil)
	if err != nil {
		t.Fatalf("fuel.Load: %v", err)
	}
	date, _ := time.Parse("2006-01-02", "2023-07-01")
	wx, err := weather.Build("s1", []weather.DailyObservation{{
		Scenario: "s1", Date: date,
		PREC: 0, TEMP: 25, RH: 30, WS: 25, WD: 270,
		FFMC: 92, DMC: 40, DC: 300, ISI: 10, BUI: 60, FWI: 25,
	}})
	if err != nil {
		t.Fatalf("weather.Build: %v", err)
	}
	wx.PrecomputeSurvival([]fbp.Class{fbp.C2})
	return g, tbl, wx
}

func TestResetAndRunBurnsAtLeastIgnitionCell(t *testing.T) {
	g, tbl, wx := buildTestFixture(t, 10, 10)
	s := New(g, tbl, wx, Settings{MaximumSpreadDistance: 2, MinimumRos: 0.1, Deterministic: true}, nil, nil)

	if err := s.Reset([]ignition.Seed{{Row: 5, Col: 5}}, 0, 0, 0, 24, 0); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if s.State() != Ready {
		t.Fatalf("state after Reset = %v, want Ready", s.State())
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Run(ctx)

	if s.State() != Done {
		t.Fatalf("state after Run = %v, want Done", s.State())
	}
	if s.BurnedCells() < 1 {
		t.Error("expected at least the ignition cell to have burned")
	}
	if _, ok := s.ArrivalMinute(g.Hash(5, 5)); !ok {
		t.Error("expected an arrival time recorded for the ignition cell")
	}
}

func TestResetRequiresSeeds(t *testing.T) {
	g, tbl, wx := buildTestFixture(t, 5, 5)
	s := New(g, tbl, wx, Settings{MaximumSpreadDistance: 2, MinimumRos: 0.1}, nil, nil)
	if err := s.Reset(nil, 0, 0, 0, 24, 0); err == nil {
		t.Fatal("expected error resetting with no ignition seeds")
	}
}

func TestCancelStopsTheRunLoop(t *testing.T) {
	g, tbl, wx := buildTestFixture(t, 50, 50)
	s := New(g, tbl, wx, Settings{MaximumSpreadDistance: 2, MinimumRos: 0.01, Deterministic: true}, nil, nil)
	if err := s.Reset([]ignition.Seed{{Row: 25, Col: 25}}, 0, 0, 0, 24, 0); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	s.Cancel()
	s.Run(context.Background())
	if s.State() != Cancelled {
		t.Fatalf("state = %v, want Cancelled", s.State())
	}
}

func TestMinimumRosDropsSpreadWithoutPanicking(t *testing.T) {
	g, tbl, wx := buildTestFixture(t, 10, 10)
	s := New(g, tbl, wx, Settings{MaximumSpreadDistance: 2, MinimumRos: 1e9, Deterministic: true}, nil, nil)
	if err := s.Reset([]ignition.Seed{{Row: 5, Col: 5}}, 0, 0, 0, 24, 0); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Run(ctx)
	if s.State() != Done {
		t.Fatalf("state = %v, want Done", s.State())
	}
	if s.BurnedCells() != 1 {
		t.Errorf("with an unreachable minimum ROS, only the ignition cell should burn; got %d", s.BurnedCells())
	}
}

func TestFinalSizeHectaresMatchesBurnedCellCount(t *testing.T) {
	g, tbl, wx := buildTestFixture(t, 10, 10)
	s := New(g, tbl, wx, Settings{MaximumSpreadDistance: 2, MinimumRos: 1e9, Deterministic: true}, nil, nil)
	if err := s.Reset([]ignition.Seed{{Row: 5, Col: 5}}, 0, 0, 0, 24, 0); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Run(ctx)
	wantHectares := float64(s.BurnedCells()) * 30 * 30 / 10000
	if got := s.FinalSizeHectares(); got != wantHectares {
		t.Errorf("FinalSizeHectares = %v, want %v", got, wantHectares)
	}
}
