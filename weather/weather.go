// Package weather turns daily noon fire-weather observations into an
// hourly stream keyed by scenario id and hour-since-stream-start, using a
// 24-hour diurnal FFMC model, a fixed wind-speed diurnal proportion table,
// and noon-only precipitation attribution.
package weather

import (
	"fmt"
	"time"

	"github.com/wildfiresim/firesim/fbp"
)

// DailyObservation is one noon row of the weather CSV:
// Scenario,Date,PREC,TEMP,RH,WS,WD,FFMC,DMC,DC,ISI,BUI,FWI.
type DailyObservation struct {
	Scenario string
	Date     time.Time
	PREC     float64
	TEMP     float64
	RH       float64
	WS       float64
	WD       float64
	FFMC     float64
	DMC      float64
	DC       float64
	ISI      float64
	BUI      float64
	FWI      float64
}

// Hour is one derived hourly weather record.
type Hour struct {
	Time            time.Time
	HourIndex       int // hours since the stream's first observation
	WindSpeedKmh    float64
	WindDirDeg      float64
	FFMC            float64
	DMC             float64
	BUI             float64
	PrecipMM        float64
	MorningCategory int // category selected for this hour's day, for diagnostics/tests
}

// Stream is the ordered hourly weather record for one scenario.
type Stream struct {
	ScenarioID string
	Hours      []Hour

	// minuteSurvival holds the per-minute survival probability for each
	// fuel class passed to PrecomputeSurvival, read back by SurvivalAt as a
	// slice index. The scenario engine's extinction check does not read
	// this table; it calls fbp.Survives against the hour's weather.
	minuteSurvival map[fbp.Class][]float64
}

// HourAt returns the weather at the given hour index, or the last
// available hour if the index runs past the end of the stream (the
// stream does not extrapolate beyond its input data).
func (s *Stream) HourAt(hourIndex int) Hour {
	if len(s.Hours) == 0 {
		return Hour{}
	}
	if hourIndex < 0 {
		hourIndex = 0
	}
	if hourIndex >= len(s.Hours) {
		hourIndex = len(s.Hours) - 1
	}
	return s.Hours[hourIndex]
}

// TimeIndex returns the hour-since-stream-start index for a given day
// offset and hour-of-day, relative to the stream's minimum day dMin. This
// implements the round-trip law
// time_index(to_time(d, h), d_min) == d*24 + h - d_min*24.
func TimeIndex(d, h, dMin int) int {
	return d*24 + h - dMin*24
}

// Build derives an hourly stream from a chronologically sorted slice of
// daily noon observations for a single scenario. Consecutive observations
// must be exactly one day apart; Build returns an error otherwise (a
// weather "gap" is a fatal configuration error per the error-handling
// policy).
func Build(scenarioID string, daily []DailyObservation) (*Stream, error) {
	if len(daily) == 0 {
		return nil, fmt.Errorf("weather: no observations for scenario %q", scenarioID)
	}
	for i := 1; i < len(daily); i++ {
		days := daily[i].Date.Sub(daily[i-1].Date).Hours() / 24
		if days != 1 {
			return nil, fmt.Errorf("weather: scenario %q has a gap between %s and %s (expected consecutive days)",
				scenarioID, daily[i-1].Date.Format("2006-01-02"), daily[i].Date.Format("2006-01-02"))
		}
		if daily[i].Date.Year() != daily[i-1].Date.Year() {
			return nil, fmt.Errorf("weather: scenario %q crosses a year boundary between %s and %s",
				scenarioID, daily[i-1].Date.Format("2006-01-02"), daily[i].Date.Format("2006-01-02"))
		}
	}

	s := &Stream{ScenarioID: scenarioID}
	hourIdx := 0
	for i, obs := range daily {
		var nextNoon *DailyObservation
		if i+1 < len(daily) {
			nextNoon = &daily[i+1]
		}
		hours := hoursForDay(obs, nextNoon)
		for _, h := range hours {
			h.HourIndex = hourIdx
			s.Hours = append(s.Hours, h)
			hourIdx++
		}
	}
	return s, nil
}

// windSpeedAt applies the fixed diurnal wind-speed proportion table to a
// day's noon wind-speed reading.
func windSpeedAt(noonWS float64, hourOfDay int) float64 {
	return noonWS * windDiurnalProportion[hourOfDay]
}

// PrecomputeSurvival builds, for each fuel class actually present on the
// landscape, a per-minute survival-probability table spanning the whole
// stream. Each minute's value is fbp.SurvivalProbability evaluated against
// that minute's containing hour's DMC and FFMC; the granularity is per
// minute (not per hour), matching the scenario's minute-resolution event
// clock. Nothing in the scenario package calls PrecomputeSurvival or
// SurvivalAt.
func (s *Stream) PrecomputeSurvival(classes []fbp.Class) {
	s.minuteSurvival = make(map[fbp.Class][]float64, len(classes))
	totalMinutes := len(s.Hours) * 60
	for _, c := range classes {
		table := make([]float64, totalMinutes)
		for h, hour := range s.Hours {
			p := fbp.SurvivalProbability(c, hour.DMC, hour.FFMC)
			base := h * 60
			for m := 0; m < 60; m++ {
				table[base+m] = p
			}
		}
		s.minuteSurvival[c] = table
	}
}

// SurvivalAt returns the precomputed survival probability for fuel class c
// at the given minute (minutes since stream start), clamped to the
// stream's range. It returns 0 if PrecomputeSurvival has not been called
// or was not given c.
func (s *Stream) SurvivalAt(c fbp.Class, minute int) float64 {
	table := s.minuteSurvival[c]
	if len(table) == 0 {
		return 0
	}
	if minute < 0 {
		minute = 0
	}
	if minute >= len(table) {
		minute = len(table) - 1
	}
	return table[minute]
}
