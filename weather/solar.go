package weather

import "math"

// Sunrise returns the hour-of-day (0-24, fractional, local solar time) at
// which the sun rises for latitude latDeg (degrees) and day-of-year
// dayOfYear (1-366), using the standard hour-angle/declination
// approximation. When cos(hourAngle) exceeds 1 (the sun never rises at
// this latitude on this day — polar night), the sentinel -1 is returned
// instead of an out-of-domain arccos.
func Sunrise(latDeg float64, dayOfYear int) float64 {
	cosH := cosHourAngle(latDeg, dayOfYear)
	if cosH > 1 {
		return -1
	}
	if cosH < -1 {
		cosH = -1
	}
	h := math.Acos(cosH) * 180 / math.Pi / 15
	return 12 - h
}

// Sunset returns the hour-of-day the sun sets, mirroring Sunrise. When
// cos(hourAngle) falls below -1 (the sun never sets — polar day), the
// sentinel 25 is returned.
func Sunset(latDeg float64, dayOfYear int) float64 {
	cosH := cosHourAngle(latDeg, dayOfYear)
	if cosH < -1 {
		return 25
	}
	if cosH > 1 {
		cosH = 1
	}
	h := math.Acos(cosH) * 180 / math.Pi / 15
	return 12 + h
}

// cosHourAngle returns cos(h), the cosine of the sunrise/sunset hour
// angle, for latDeg and dayOfYear. Values outside [-1,1] signal a polar
// day/night condition; callers must branch on that explicitly rather
// than clamp-and-continue, since the sentinel hours (-1, 25) must not
// feed into downstream min/max arithmetic.
func cosHourAngle(latDeg float64, dayOfYear int) float64 {
	decl := 23.45 * math.Pi / 180 * math.Sin(2*math.Pi*(284+float64(dayOfYear))/365)
	lat := latDeg * math.Pi / 180
	return -math.Tan(lat) * math.Tan(decl)
}

// IsDaytime reports whether hourOfDay (0-24) falls between sunrise and
// sunset at latDeg/dayOfYear, each shifted by the configured offsets (in
// minutes, per spec.md §6's offsetSunrise/offsetSunset controls). The
// polar-day/night sentinels are branched on explicitly: a sun that never
// rises means every hour is night; a sun that never sets means every
// hour is day.
func IsDaytime(latDeg float64, dayOfYear int, hourOfDay float64, offsetSunriseMin, offsetSunsetMin int) bool {
	sr := Sunrise(latDeg, dayOfYear)
	ss := Sunset(latDeg, dayOfYear)
	if sr == -1 {
		return false
	}
	if ss == 25 {
		return true
	}
	sr += float64(offsetSunriseMin) / 60
	ss += float64(offsetSunsetMin) / 60
	return hourOfDay >= sr && hourOfDay <= ss
}
