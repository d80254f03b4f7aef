package weather

import "testing"

func TestSunriseSentinelAtPolarNight(t *testing.T) {
	// At 89N in midwinter (day 356), the sun never rises.
	if got := Sunrise(89, 356); got != -1 {
		t.Errorf("Sunrise(89, 356) = %v, want -1 sentinel", got)
	}
}

func TestSunsetSentinelAtPolarDay(t *testing.T) {
	// At 89N in midsummer (day 172), the sun never sets.
	if got := Sunset(89, 172); got != 25 {
		t.Errorf("Sunset(89, 172) = %v, want 25 sentinel", got)
	}
}

func TestSunriseSunsetBracketNoonAtEquator(t *testing.T) {
	sr := Sunrise(0, 80)
	ss := Sunset(0, 80)
	if sr <= 0 || sr >= 12 {
		t.Errorf("Sunrise(0, 80) = %v, want in (0,12)", sr)
	}
	if ss <= 12 || ss >= 24 {
		t.Errorf("Sunset(0, 80) = %v, want in (12,24)", ss)
	}
}

func TestIsDaytimeUsesSentinelsAsAlwaysNightOrDay(t *testing.T) {
	if IsDaytime(89, 356, 12, 0, 0) {
		t.Error("polar night: every hour should be night")
	}
	if !IsDaytime(89, 172, 2, 0, 0) {
		t.Error("polar day: every hour should be day")
	}
}

func TestIsDaytimeMidlatitudeNoon(t *testing.T) {
	if !IsDaytime(45, 172, 12, 0, 0) {
		t.Error("noon in midsummer at 45N should be daytime")
	}
	if IsDaytime(45, 355, 2, 0, 0) {
		t.Error("2am in midwinter at 45N should be nighttime")
	}
}
