package scenario

import (
	"context"
	"math"

	"github.com/wildfiresim/firesim/fbp"
	"github.com/wildfiresim/firesim/frontprop"
	"github.com/wildfiresim/firesim/sched"
	"github.com/wildfiresim/firesim/weather"
)

// Run drains the event queue, dispatching SPREAD/SAVE/END events in
// (time, type, cell_hash) order until the queue empties, ctx's deadline
// is reached, or Cancel is called. ctx's deadline is the redesign
// spec.md §9 calls for in place of a background timer thread: no ticker
// goroutine runs here, ctx.Err() is polled once per popped event.
func (s *Scenario) Run(ctx context.Context) {
	if s.state != Ready {
		return
	}
	s.state = Running
	s.seedSaveEvents()

	for {
		if s.cancelled || ctx.Err() != nil {
			s.state = Cancelled
			return
		}
		e := s.queue.Pop()
		if e == nil {
			s.state = Done
			return
		}
		if e.Time < s.currentTime {
			panic("scenario: event queue dispatched a time that moved backward")
		}
		s.currentTime = e.Time

		switch e.Type {
		case sched.End:
			s.queue.Clear()
			s.state = Done
			return
		case sched.Save:
			if s.save != nil {
				s.save(s.intensity, s.currentTime)
			}
		case sched.Spread:
			s.dispatchSpread(e.CellHash)
		case sched.NewFire:
			row, col := s.grid.RowCol(e.CellHash)
			s.igniteCell(e.CellHash, row, col, s.currentTime)
		}
	}
}

func (s *Scenario) seedSaveEvents() {
	for _, dayOffset := range s.settings.SaveDayOffsets {
		s.queue.Push(&sched.Event{
			Time: float64(dayOffset) * 24 * 60,
			Type: sched.Save,
		})
	}
}

// dispatchSpread advances the front held by one currently-burning cell.
func (s *Scenario) dispatchSpread(hash int) {
	row, col := s.grid.RowCol(hash)
	if s.grid.AllNeighbors8Burned(row, col, s.burned.Test) {
		return // surrounded: no future SPREAD events for this cell
	}

	cell := s.grid.Cell(row, col)
	class := s.fuelTable.ClassForGridValue(cell.FuelCode)
	if class == fbp.ClassNone {
		return
	}

	hourIdx := int(s.currentTime / 60)
	hour := s.wx.HourAt(hourIdx)

	isDay := weather.IsDaytime(s.lat, hour.Time.YearDay(), float64(hour.Time.Hour()), s.settings.OffsetSunriseMin, s.settings.OffsetSunsetMin)
	minFfmc := s.settings.MinimumFfmc
	if !isDay {
		minFfmc = s.settings.MinimumFfmcAtNight
	}
	if hour.FFMC < minFfmc {
		return // too moist to carry spread this hour, not rescheduled
	}

	w := fbp.WeatherInput{
		WindSpeedKmh: hour.WindSpeedKmh, WindDirDeg: hour.WindDirDeg,
		FFMC: hour.FFMC, BUI: hour.BUI,
	}
	si := s.spreadC.Evaluate(class, cell.SlopePct, cell.AspectDeg, w)
	s.intensity.Record(hash, si.MaxIntensity)

	if si.HeadROS < s.settings.MinimumRos {
		return // dropped, not rescheduled
	}

	// In deterministic mode both gates always pass (spec.md §4.3); the
	// per-hour threshold vectors are still populated (with a constant
	// 1.0) by Reset, but dispatch never consults them here.
	if !s.settings.Deterministic {
		idx := hourIdx
		if idx >= len(s.extinctionThresholds) {
			idx = len(s.extinctionThresholds) - 1
		}
		if idx < 0 {
			idx = 0
		}
		depthLimit := fbp.DepthLimit(class)
		if !fbp.Survives(class, hour.DMC, depthLimit, s.extinctionThresholds[idx], hour.DMC, hour.FFMC) {
			return // the cell's fire dies out here
		}
		if !s.passesSpreadThreshold(si.HeadROS, idx) {
			return
		}
	}

	ell := frontprop.Ellipse{HeadRosMPerMin: si.HeadROS, LengthBreadth: si.LengthBreadth, HeadDirRad: compassToMathRad(si.HeadDirection)}
	stepMinutes := frontprop.StepMinutes(si.HeadROS, s.grid.CellSizeM, s.settings.MaximumSpreadDistance)
	if stepMinutes <= 0 {
		return
	}

	points := s.cellPoints[hash]
	remaining := points[:0]
	for _, p := range points {
		next, rowOff, colOff := frontprop.Advance(p, ell, stepMinutes, s.grid.CellSizeM)
		if rowOff == 0 && colOff == 0 {
			remaining = append(remaining, next)
			continue
		}
		nRow, nCol := row+rowOff, col+colOff
		if !s.grid.InBounds(nRow, nCol) {
			s.oobSpread++
			continue
		}
		if !s.grid.Combustible(nRow, nCol) {
			continue
		}
		nHash := s.grid.Hash(nRow, nCol)
		s.cellPoints[nHash] = append(s.cellPoints[nHash], next)
		if !s.burned.Test(nHash) {
			s.igniteCell(nHash, nRow, nCol, s.currentTime+stepMinutes)
		}
	}
	s.cellPoints[hash] = remaining

	if len(remaining) > 0 {
		s.queue.Push(&sched.Event{Time: s.currentTime + stepMinutes, Type: sched.Spread, CellHash: hash})
	}
}

// compassToMathRad converts fbp.SpreadInfo.HeadDirection, a compass
// bearing in radians (0 = north, increasing clockwise), into the math
// convention frontprop.Ellipse expects (0 = east, increasing
// counterclockwise).
func compassToMathRad(compassRad float64) float64 {
	m := math.Pi/2 - compassRad
	m = math.Mod(m, 2*math.Pi)
	if m < 0 {
		m += 2 * math.Pi
	}
	return m
}

// passesSpreadThreshold gates whether the stochastic spread modifier lets
// headROS actually propagate this step: the saturating ratio
// headROS/(headROS+minimumRos) approaches 1 for fast-spreading fronts
// and approaches 0 near the minimum-spread floor, compared against the
// scenario's per-hour U[0,1) spread threshold.
func (s *Scenario) passesSpreadThreshold(headROS float64, idx int) bool {
	if idx >= len(s.spreadThresholds) {
		idx = len(s.spreadThresholds) - 1
	}
	if idx < 0 {
		idx = 0
	}
	prob := headROS / (headROS + s.settings.MinimumRos + 1e-9)
	return s.spreadThresholds[idx] < prob
}
