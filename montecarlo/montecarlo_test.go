package montecarlo

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/wildfiresim/firesim/fbp"
	"github.com/wildfiresim/firesim/fuel"
	"github.com/wildfiresim/firesim/grid"
	"github.com/wildfiresim/firesim/ignition"
	"github.com/wildfiresim/firesim/probmap"
	"github.com/wildfiresim/firesim/scenario"
	"github.com/wildfiresim/firesim/weather"
)

const testFuelCSV = `grid_value,export_value,descriptive_name,fuel_type
1,101,Pine forest,C-2
`

func buildFixture(t *testing.T, rows, cols int) (*grid.Grid, *fuel.Table, *weather.Stream) {
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

func TestDeterministicStopsAfterOneIteration(t *testing.T) {
	g, tbl, wx := buildFixture(t, 20, 20)
	jobs := []Job{{ID: "j1", Wx: wx, Seeds: []ignition.Seed{{Row: 10, Col: 10}}, NumHours: 24}}
	c := NewController(g, tbl, jobs,
		scenario.Settings{MaximumSpreadDistance: 2, MinimumRos: 0.1, Deterministic: true, SaveDayOffsets: []int{0}},
		Settings{Deterministic: true, OutputDateOffsets: []int{0}},
		probmap.Thresholds{LowMax: 500, ModerateMax: 2000}, nil)

	report := c.Run(context.Background())
	if report.Iterations != 1 {
		t.Fatalf("Iterations = %d, want 1", report.Iterations)
	}
	if len(report.Sizes) != 1 {
		t.Fatalf("len(Sizes) = %d, want 1", len(report.Sizes))
	}
	if report.Sizes[0] <= 0 {
		t.Errorf("expected a positive burned size, got %v", report.Sizes[0])
	}
}

func TestSurfaceModeRunsEveryCombustibleCellOnce(t *testing.T) {
	g, tbl, wx := buildFixture(t, 4, 4)
	jobs := BuildSurfaceJobs(g, wx, 0, 24)
	if len(jobs) != 16 {
		t.Fatalf("BuildSurfaceJobs produced %d jobs, want 16", len(jobs))
	}
	c := NewController(g, tbl, jobs,
		scenario.Settings{MaximumSpreadDistance: 2, MinimumRos: 1e9, Deterministic: true},
		Settings{Surface: true},
		probmap.Thresholds{LowMax: 500, ModerateMax: 2000}, nil)

	report := c.Run(context.Background())
	if report.Iterations != 1 {
		t.Fatalf("Iterations = %d, want 1", report.Iterations)
	}
	if report.TotalScenarios != 16 {
		t.Fatalf("TotalScenarios = %d, want 16", report.TotalScenarios)
	}
}

func TestOutOfTimeProducesAtLeastOneSizeAndInterimSave(t *testing.T) {
	g, tbl, wx := buildFixture(t, 60, 60)
	var jobs []Job
	for i := 0; i < 4; i++ {
		jobs = append(jobs, Job{ID: "j", Wx: wx, Seeds: []ignition.Seed{{Row: 30, Col: 30}}, NumHours: 24})
	}
	c := NewController(g, tbl, jobs,
		scenario.Settings{MaximumSpreadDistance: 2, MinimumRos: 0.01, Deterministic: true, SaveDayOffsets: []int{0}},
		Settings{Deterministic: false, MaximumTimeSeconds: 0.001, ConfidenceLevel: 0.8,
			ThresholdScenarioWeight: 1, ThresholdDailyWeight: 1, ThresholdHourlyWeight: 1,
			OutputDateOffsets: []int{0}},
		probmap.Thresholds{LowMax: 500, ModerateMax: 2000}, nil)

	var interim map[int]*probmap.ProbabilityMap
	c.OnInterimSave = func(maps map[int]*probmap.ProbabilityMap) { interim = maps }

	report := c.Run(context.Background())
	if len(report.Sizes) < 1 {
		t.Fatalf("expected at least one recorded size even when out of time, got %d", len(report.Sizes))
	}
	if report.OutOfTime && interim == nil && report.InterimSaved {
		t.Errorf("InterimSaved was true but OnInterimSave callback never fired")
	}
}

func TestProbabilityMapInvariantHoldsAfterRun(t *testing.T) {
	g, tbl, wx := buildFixture(t, 20, 20)
	jobs := []Job{
		{ID: "j1", Wx: wx, Seeds: []ignition.Seed{{Row: 10, Col: 10}}, NumHours: 24},
		{ID: "j2", Wx: wx, Seeds: []ignition.Seed{{Row: 5, Col: 5}}, NumHours: 24},
	}
	c := NewController(g, tbl, jobs,
		scenario.Settings{MaximumSpreadDistance: 2, MinimumRos: 0.1, Deterministic: true, SaveDayOffsets: []int{0}},
		Settings{Deterministic: true, OutputDateOffsets: []int{0}},
		probmap.Thresholds{LowMax: 500, ModerateMax: 2000}, nil)

	report := c.Run(context.Background())
	for offset, pm := range report.ProbabilityMaps {
		if err := pm.CheckInvariant(); err != nil {
			t.Errorf("day offset %d: %v", offset, err)
		}
	}
}

func TestRunsRequiredDoesNotDecreaseAsConfidenceLevelRises(t *testing.T) {
	g, tbl, wx := buildFixture(t, 15, 15)
	jobs := []Job{{ID: "j1", Wx: wx, Seeds: []ignition.Seed{{Row: 7, Col: 7}}, NumHours: 24}}
	base := scenario.Settings{MaximumSpreadDistance: 2, MinimumRos: 0.1, SaveDayOffsets: []int{0}}

	lowCL := NewController(g, tbl, jobs, base,
		Settings{ConfidenceLevel: 0.5, ThresholdScenarioWeight: 1, ThresholdDailyWeight: 1, ThresholdHourlyWeight: 1, OutputDateOffsets: []int{0}},
		probmap.Thresholds{LowMax: 500, ModerateMax: 2000}, nil)
	highCL := NewController(g, tbl, jobs, base,
		Settings{ConfidenceLevel: 0.99, ThresholdScenarioWeight: 1, ThresholdDailyWeight: 1, ThresholdHourlyWeight: 1, OutputDateOffsets: []int{0}},
		probmap.Thresholds{LowMax: 500, ModerateMax: 2000}, nil)

	for i := 0; i < 5; i++ {
		lowCL.sizesStat.update(float64(10 + i))
		lowCL.meansStat.update(float64(10 + i))
		lowCL.pctStat.update(float64(10 + i))
		highCL.sizesStat.update(float64(10 + i))
		highCL.meansStat.update(float64(10 + i))
		highCL.pctStat.update(float64(10 + i))
	}

	if got, want := highCL.RunsRequired(), lowCL.RunsRequired(); got < want {
		t.Errorf("RunsRequired at higher confidence (%d) should never be less than at lower confidence (%d)", got, want)
	}
}
