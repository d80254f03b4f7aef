package weather

import (
	"math"
	"time"
)

// windDiurnalProportion scales a day's noon wind-speed reading to each
// hour of the day. Index 0 is midnight, index 12 is noon (the anchor,
// proportion 1.0). Wind is lightest overnight and strongest in the
// afternoon.
var windDiurnalProportion = [24]float64{
	0.55, 0.52, 0.50, 0.48, 0.47, 0.48, // 00-05
	0.55, 0.65, 0.78, 0.90, 0.98, 1.02, // 06-11
	1.00, 1.05, 1.10, 1.12, 1.08, 1.00, // 12-17
	0.88, 0.75, 0.65, 0.60, 0.58, 0.56, // 18-23
}

// dayCurves gives the FFMC offset from the noon value for hours 12-20
// (9 entries), one curve per relative-humidity category (0=low RH/dry,
// 1=medium, 2=high RH/humid). Drier afternoons hold FFMC up longer;
// humid afternoons let it fall off faster.
var dayCurves = [3][9]float64{
	{0.0, 0.3, 0.4, 0.3, 0.1, -0.2, -0.6, -1.1, -1.7}, // low RH
	{0.0, 0.1, 0.1, -0.1, -0.4, -0.8, -1.3, -1.9, -2.6}, // medium RH
	{0.0, -0.2, -0.5, -0.9, -1.4, -2.0, -2.7, -3.5, -4.4}, // high RH
}

// morningCurves gives the FFMC offset from the midnight-to-dawn trough
// for hours 06-12 (7 entries; the last entry, hour 12, is the curve's
// prediction of the next noon FFMC, used to select which category best
// matches the actual observed noon value).
var morningCurves = [3][7]float64{
	{0.0, 0.4, 1.1, 2.0, 3.0, 4.1, 5.3}, // low RH: fast morning recovery
	{0.0, 0.2, 0.6, 1.2, 1.9, 2.7, 3.6}, // medium RH
	{0.0, 0.1, 0.3, 0.6, 1.0, 1.5, 2.1}, // high RH: slow morning recovery
}

func rhCategory(rh float64) int {
	switch {
	case rh < 30:
		return 0 // low
	case rh < 60:
		return 1 // medium
	default:
		return 2 // high
	}
}

// dayHourFFMC returns the FFMC for hour `hour` (12..20) of a day whose
// noon value is noonFFMC, for relative-humidity category cat.
func dayHourFFMC(noonFFMC float64, hour, cat int) float64 {
	return clampFFMC(noonFFMC + dayCurves[cat][hour-12])
}

// selectMorningCategory picks the RH category (0,1,2) whose morning curve
// best predicts the actual next-noon FFMC, starting from the trough value
// at hour 05 (the end of the overnight linear interpolation).
func selectMorningCategory(trough, actualNextNoon float64) int {
	best, bestResidual := 0, math.Inf(1)
	for cat := 0; cat < 3; cat++ {
		predictedNoon := trough + morningCurves[cat][6]
		residual := math.Abs(predictedNoon - actualNextNoon)
		if residual < bestResidual {
			best, bestResidual = cat, residual
		}
	}
	return best
}

// morningHourFFMC returns the FFMC for hour `hour` (6..11) given the
// overnight trough value (at hour 05) and the selected category.
func morningHourFFMC(trough float64, hour, cat int) float64 {
	return clampFFMC(trough + morningCurves[cat][hour-6])
}

func clampFFMC(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 101 {
		return 101
	}
	return v
}

// hoursForDay builds the 24 hourly records (hours 0..23) for one noon
// observation `obs`. nextNoon, if non-nil, is used to select the morning
// regression curve used starting the *following* day and to anchor the
// overnight linear interpolation between this day's 20:00 FFMC and the
// following day's 06:00 FFMC. If nextNoon is nil (the last day in the
// stream), the overnight hours hold the 20:00 value constant and the next
// day's hours (which don't exist) are simply not generated.
func hoursForDay(obs DailyObservation, nextNoon *DailyObservation) []Hour {
	cat := rhCategory(obs.RH)
	hours := make([]Hour, 0, 24)

	ffmc20 := dayHourFFMC(obs.FFMC, 20, cat)

	hasNext := nextNoon != nil
	var troughCat int
	var ffmc6next float64
	if hasNext {
		troughCat = selectMorningCategory(ffmc20, nextNoon.FFMC)
		ffmc6next = morningHourFFMC(ffmc20, 6, troughCat)
	}

	// isOvernight reports whether hour h (0-23) falls in the 21:00-05:00
	// overnight window that interpolates between this day's 20:00 value
	// and the following day's 06:00 value.
	isOvernight := func(h int) bool { return h >= 21 || h <= 5 }

	for h := 0; h < 24; h++ {
		t := obs.Date.Add(time.Duration(h) * time.Hour)
		var ffmc float64
		switch {
		case h >= 12 && h <= 20:
			ffmc = dayHourFFMC(obs.FFMC, h, cat)
		case h >= 6 && h <= 11:
			if hasNext {
				ffmc = morningHourFFMC(ffmc20, h, troughCat)
			} else {
				ffmc = ffmc20
			}
		case isOvernight(h):
			if hasNext {
				ffmc = overnightInterp(ffmc20, ffmc6next, h)
			} else {
				ffmc = ffmc20
			}
		}

		precip := 0.0
		if h == 12 {
			precip = obs.PREC
		}

		hours = append(hours, Hour{
			Time:            t,
			WindSpeedKmh:    windSpeedAt(obs.WS, h),
			WindDirDeg:      obs.WD,
			FFMC:            ffmc,
			DMC:             obs.DMC,
			BUI:             obs.BUI,
			PrecipMM:        precip,
			MorningCategory: cat,
		})
	}
	return hours
}

// overnightInterp linearly interpolates FFMC across the 10-hour span from
// 20:00 (value v20) to the next day's 06:00 (value v6), for an hour h in
// {21,22,23,0,1,2,3,4,5}.
func overnightInterp(v20, v6 float64, h int) float64 {
	// Hours since 20:00, where 21->1 ... 23->3, 0->4 ... 5->9.
	var hoursSince20 int
	if h >= 21 {
		hoursSince20 = h - 20
	} else {
		hoursSince20 = h + 4
	}
	const span = 10.0
	frac := float64(hoursSince20) / span
	return v20 + (v6-v20)*frac
}
