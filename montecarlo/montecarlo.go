// Package montecarlo is the iteration controller: it replicates
// scenarios across random-threshold realizations, accumulates their
// final sizes into three stopping-rule statistics, and decides when
// confidence in the resulting probability surface is high enough to
// stop, per spec.md §4.6. It is the Monte-Carlo analogue of the
// teacher's worker-pool shape (run.go's Calculations), generalized from
// a fixed-nprocs sweep over grid cells to a semaphore-bounded goroutine
// per scenario, since scenario lifetimes are event-loop driven rather
// than uniform.
package montecarlo

import (
	"context"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wildfiresim/firesim/fuel"
	"github.com/wildfiresim/firesim/grid"
	"github.com/wildfiresim/firesim/ignition"
	"github.com/wildfiresim/firesim/probmap"
	"github.com/wildfiresim/firesim/scenario"
	"github.com/wildfiresim/firesim/weather"
)

// Job is one (weather stream × ignition) pairing the controller
// replicates across Monte-Carlo iterations. One scenario is constructed
// per Job and reused (reset, not rebuilt) across iterations, matching
// spec.md §3's scenario lifecycle.
type Job struct {
	ID       string
	Wx       *weather.Stream
	Seeds    []ignition.Seed
	StartDay int
	Lat, Lon float64
	NumHours int
}

// Settings are the Monte-Carlo controller's own control knobs, from
// spec.md §6's "Controls" list.
type Settings struct {
	Deterministic           bool
	ConfidenceLevel         float64 // e.g. 0.95
	MaximumTimeSeconds      float64
	MaximumCountSimulations int
	ThresholdScenarioWeight float64 // relative tolerance weight for the sizes statistic
	ThresholdDailyWeight    float64 // relative tolerance weight for the per-iteration means statistic
	ThresholdHourlyWeight   float64 // relative tolerance weight for the per-iteration 95th-percentile statistic
	Surface                 bool
	OutputDateOffsets       []int
}

// Report is the result of a Controller run: the aggregated probability
// maps (one per configured output day offset) and every individual
// scenario final size, for CSV export and the statistical summaries
// spec.md §1/§6 call for.
type Report struct {
	ProbabilityMaps map[int]*probmap.ProbabilityMap // keyed by output day offset
	Sizes           []float64                       // hectares, one per scenario counted into the aggregator
	Iterations      int
	TotalScenarios  int
	OutOfTime       bool
	InterimSaved    bool
}

// Controller owns the shared, read-only landscape/fuel data, the fixed
// set of replication Jobs, and the concurrency/statistics machinery that
// drives iterations to a stopping point.
type Controller struct {
	Grid      *grid.Grid
	FuelTable *fuel.Table
	Jobs      []Job

	ScenarioSettings scenario.Settings
	Settings         Settings
	Thresholds       probmap.Thresholds

	// OnInterimSave, if set, is called once with the current (partial)
	// probability maps when the controller runs out of time after at
	// least one scenario of the first iteration has completed, per
	// spec.md §5.
	OnInterimSave func(maps map[int]*probmap.ProbabilityMap)

	log logrus.FieldLogger

	sem       chan struct{}
	scenarios []*scenario.Scenario

	probMaps map[int]*probmap.ProbabilityMap

	sizesStat runningStat
	meansStat runningStat
	pctStat   runningStat
}

// NewController builds a controller bound to g/fuelTable, one scenario
// per job (sharing one BurnedData pool), and one empty ProbabilityMap
// per configured output day offset. The task-limiter semaphore is sized
// to max(runtime.GOMAXPROCS(0), len(jobs)) so one full iteration can
// always run at once, per spec.md §5.
func NewController(g *grid.Grid, fuelTable *fuel.Table, jobs []Job, scenarioSettings scenario.Settings, settings Settings, thresholds probmap.Thresholds, log logrus.FieldLogger) *Controller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	limit := runtime.GOMAXPROCS(0)
	if len(jobs) > limit {
		limit = len(jobs)
	}
	if limit < 1 {
		limit = 1
	}

	pool := scenario.NewBurnedPool()
	scenarios := make([]*scenario.Scenario, len(jobs))
	for i, job := range jobs {
		scenarios[i] = scenario.New(g, fuelTable, job.Wx, scenarioSettings, pool, log.WithField("job", job.ID))
	}

	probMaps := make(map[int]*probmap.ProbabilityMap, len(settings.OutputDateOffsets))
	for _, d := range settings.OutputDateOffsets {
		probMaps[d] = probmap.New(g.Rows, g.Cols, thresholds)
	}

	return &Controller{
		Grid: g, FuelTable: fuelTable, Jobs: jobs,
		ScenarioSettings: scenarioSettings, Settings: settings, Thresholds: thresholds,
		log: log, sem: make(chan struct{}, limit), scenarios: scenarios,
		probMaps: probMaps,
	}
}

// ProbabilityMaps returns the controller's live per-output-day-offset
// aggregators (the same instances a Report references once Run returns).
func (c *Controller) ProbabilityMaps() map[int]*probmap.ProbabilityMap { return c.probMaps }

// Run drives iterations until a stopping rule trips (spec.md §4.6): the
// maximum wall-clock or scenario-count bound, the deterministic
// single-iteration rule, surface mode's exhaustive-single-pass rule, or
// all three stopping-rule statistics reporting confidence at
// Settings.ConfidenceLevel.
func (c *Controller) Run(ctx context.Context) *Report {
	if c.Settings.MaximumTimeSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(c.Settings.MaximumTimeSeconds*float64(time.Second)))
		defer cancel()
	}

	report := &Report{ProbabilityMaps: c.probMaps}

	for iteration := 0; ; iteration++ {
		// The first iteration runs without the deadline so that at least
		// one result is always recorded.
		iterCtx := ctx
		if iteration == 0 {
			iterCtx = context.WithoutCancel(ctx)
		}
		sizes, completed, pending := c.runIteration(iterCtx, iteration)
		report.Iterations++
		report.TotalScenarios += len(sizes)

		numCompleted := 0
		for _, ok := range completed {
			if ok {
				numCompleted++
			}
		}

		outOfTime := ctx.Err() != nil
		c.publish(pending, completed, numCompleted, report)

		var iterSizes []float64
		for i, size := range sizes {
			if !completed[i] && numCompleted == 0 {
				continue // the very first wholly-uncompleted iteration contributes nothing, per spec.md §4.5
			}
			c.sizesStat.update(size)
			report.Sizes = append(report.Sizes, size)
			iterSizes = append(iterSizes, size)
		}
		if len(iterSizes) > 0 {
			c.meansStat.update(mean(iterSizes))
			c.pctStat.update(percentile95(iterSizes))
		}

		if outOfTime {
			report.OutOfTime = true
			if iteration == 0 && numCompleted > 0 && !report.InterimSaved {
				if c.OnInterimSave != nil {
					c.OnInterimSave(c.probMaps)
				}
				report.InterimSaved = true
			}
		}

		if c.shouldStop(report, outOfTime) {
			break
		}
	}
	return report
}

// publish folds one iteration's buffered per-scenario snapshots into the
// shared probability maps: a scenario's snapshots are included if it
// completed, or if it was cancelled but at least one scenario in the
// same iteration completed (spec.md §4.5) — which also covers "the very
// first uncompleted iteration excluded", since in that case numCompleted
// is zero and nothing is published. RecordSize is incremented once per
// scenario whose snapshots were included, keeping the aggregator's
// denominator in lockstep with the numerator.
func (c *Controller) publish(pending [][]pendingSnapshot, completed []bool, numCompleted int, report *Report) {
	if numCompleted == 0 {
		return
	}
	for _, buf := range pending {
		for _, ps := range buf {
			if pm, ok := c.probMaps[ps.dayOffset]; ok {
				pm.Publish(ps.snap)
			}
		}
		for _, pm := range c.probMaps {
			pm.RecordSize()
		}
	}
}

// shouldStop implements spec.md §4.6's four stopping conditions, plus
// surface mode's exhaustive-single-pass rule.
func (c *Controller) shouldStop(report *Report, outOfTime bool) bool {
	if c.Settings.Surface {
		return true // surface mode always runs every combustible cell exactly once
	}
	if c.Settings.Deterministic {
		return true // rule 1: deterministic mode always stops after the first iteration
	}
	if outOfTime {
		return true // rule 2
	}
	if c.Settings.MaximumCountSimulations > 0 && report.TotalScenarios >= c.Settings.MaximumCountSimulations {
		return true // rule 3
	}
	return c.allConfident() // rule 4
}

func (c *Controller) allConfident() bool {
	cl := c.Settings.ConfidenceLevel
	return c.sizesStat.confident(cl, c.tolerance(c.Settings.ThresholdScenarioWeight)) &&
		c.meansStat.confident(cl, c.tolerance(c.Settings.ThresholdDailyWeight)) &&
		c.pctStat.confident(cl, c.tolerance(c.Settings.ThresholdHourlyWeight))
}

// tolerance turns a configured threshold weight into the relative
// confidence-interval tolerance applied to one of the three stopping
// statistics. See DESIGN.md for why this reading of
// thresholdScenarioWeight/thresholdDailyWeight/thresholdHourlyWeight was
// chosen over the alternatives spec.md leaves open.
func (c *Controller) tolerance(weight float64) float64 {
	if weight <= 0 {
		weight = 1
	}
	return (1 - c.Settings.ConfidenceLevel) / weight
}

// RunsRequired returns, for diagnostics/logging, the maximum of the
// three statistics' estimated required run counts — the schedule the
// controller would need for its next batch if it were not stopping, per
// spec.md §4.6's "schedule another iteration (maximum across the
// three)".
func (c *Controller) RunsRequired() int {
	cl := c.Settings.ConfidenceLevel
	need := c.sizesStat.runsRequired(cl, c.tolerance(c.Settings.ThresholdScenarioWeight))
	if n := c.meansStat.runsRequired(cl, c.tolerance(c.Settings.ThresholdDailyWeight)); n > need {
		need = n
	}
	if n := c.pctStat.runsRequired(cl, c.tolerance(c.Settings.ThresholdHourlyWeight)); n > need {
		need = n
	}
	return need
}

// pendingSnapshot is one SAVE-event publication buffered during a
// scenario's run, flushed into the shared probability maps only once the
// iteration's completion status is known (see publish).
type pendingSnapshot struct {
	dayOffset int
	snap      *scenario.IntensityMap
}

// runIteration resets and runs every job's scenario once, bounded by the
// task-limiter semaphore, and returns each scenario's final size
// (hectares), whether it reached DONE (as opposed to CANCELLED), and its
// buffered SAVE-event snapshots.
func (c *Controller) runIteration(ctx context.Context, iteration int) (sizes []float64, completed []bool, pending [][]pendingSnapshot) {
	sizes = make([]float64, len(c.Jobs))
	completed = make([]bool, len(c.Jobs))
	pending = make([][]pendingSnapshot, len(c.Jobs))

	var wg sync.WaitGroup
	for i, job := range c.Jobs {
		wg.Add(1)
		go func(i int, job Job) {
			defer wg.Done()
			c.sem <- struct{}{}
			defer func() { <-c.sem }()

			var buf []pendingSnapshot
			s := c.scenarios[i]
			s.SetSaveFunc(func(snap *scenario.IntensityMap, t float64) {
				buf = append(buf, pendingSnapshot{dayOffset: int(math.Round(t / 1440)), snap: snap.Clone()})
			})
			if err := s.Reset(job.Seeds, job.StartDay, job.Lat, job.Lon, job.NumHours, iteration); err != nil {
				c.log.WithField("job", job.ID).WithError(err).Error("montecarlo: scenario reset failed")
				return
			}
			s.Run(ctx)
			sizes[i] = s.FinalSizeHectares()
			completed[i] = s.State() == scenario.Done
			pending[i] = buf
		}(i, job)
	}
	wg.Wait()
	return sizes, completed, pending
}
