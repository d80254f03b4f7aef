package fbp

import (
	"math"
	"testing"
)

func TestAngleRoundTrip(t *testing.T) {
	for _, deg := range []float64{0, 45, 90, 180, 270, 359, 400, -30} {
		got := ToDegrees(ToRadians(deg))
		want := math.Mod(deg, 360)
		if want < 0 {
			want += 360
		}
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("ToDegrees(ToRadians(%v)) = %v, want %v", deg, got, want)
		}
	}
}

func TestCriticalRosZeroSurfaceFuel(t *testing.T) {
	if got := CriticalRos(0, 500); got != 0 {
		t.Errorf("CriticalRos(0, 500) = %v, want 0", got)
	}
	if got := CriticalRos(0, 0); got != 0 {
		t.Errorf("CriticalRos(0, 0) = %v, want 0", got)
	}
}

func TestCriticalRosPositive(t *testing.T) {
	if got := CriticalRos(1.2, 500); got <= 0 {
		t.Errorf("CriticalRos(1.2, 500) = %v, want > 0", got)
	}
}

func TestProbabilityPeatMonotoneDecreasing(t *testing.T) {
	prev := ProbabilityPeat(0)
	for mc := 1.0; mc <= 60; mc++ {
		cur := ProbabilityPeat(mc)
		if cur > prev {
			t.Fatalf("ProbabilityPeat not monotone decreasing at mc=%v: prev=%v cur=%v", mc, prev, cur)
		}
		prev = cur
	}
}

func TestClassFromNameMixedwood(t *testing.T) {
	c, ok := ClassFromName("M-1/M-2", 70, 0)
	if !ok || c != M1 {
		t.Errorf("M-1/M-2 with 70%% conifer = %v, %v, want M1, true", c, ok)
	}
	c, ok = ClassFromName("M-1/M-2", 30, 0)
	if !ok || c != M2 {
		t.Errorf("M-1/M-2 with 30%% conifer = %v, %v, want M2, true", c, ok)
	}
	c, ok = ClassFromName("M-3/M-4", 60, 60)
	if !ok || c != M3 {
		t.Errorf("M-3/M-4 with 60%% dead fir = %v, %v, want M3, true", c, ok)
	}
}

func TestClassFromNameUnknown(t *testing.T) {
	_, ok := ClassFromName("not-a-real-fuel", 0, 0)
	if ok {
		t.Error("expected unknown fuel name to report ok=false")
	}
}

func TestEvaluateNonFuel(t *testing.T) {
	si := Evaluate(ClassNone, 0, 0, WeatherInput{WindSpeedKmh: 20, FFMC: 90, BUI: 35})
	if si.HeadROS != 0 || si.MaxIntensity != 0 {
		t.Errorf("non-fuel cell should have zero spread, got %+v", si)
	}
}

func TestEvaluateC2WindIncreasesROS(t *testing.T) {
	calm := Evaluate(C2, 0, 0, WeatherInput{WindSpeedKmh: 0, FFMC: 90, BUI: 35.5})
	windy := Evaluate(C2, 0, 0, WeatherInput{WindSpeedKmh: 20, WindDirDeg: 180, FFMC: 90, BUI: 35.5})
	if windy.HeadROS <= calm.HeadROS {
		t.Errorf("higher wind should increase head ROS: calm=%v windy=%v", calm.HeadROS, windy.HeadROS)
	}
	if windy.LengthBreadth <= 1 {
		t.Errorf("L:B should exceed 1 under wind, got %v", windy.LengthBreadth)
	}
}

func TestEvaluateUphillIncreasesROS(t *testing.T) {
	flat := Evaluate(C2, 0, 0, WeatherInput{WindSpeedKmh: 5, FFMC: 90, BUI: 35.5})
	steep := Evaluate(C2, 40, 0, WeatherInput{WindSpeedKmh: 5, FFMC: 90, BUI: 35.5})
	if steep.HeadROS <= flat.HeadROS {
		t.Errorf("slope should increase head ROS: flat=%v steep=%v", flat.HeadROS, steep.HeadROS)
	}
}

func TestSurvivesBelowDepthLimit(t *testing.T) {
	if !Survives(C2, 10, DuffMoistureSurvivalLimit.Shallow, 0.999, 20, 90) {
		t.Error("duff moisture below the depth limit should always survive")
	}
}

func TestSurvivalProbabilityVariesByDepth(t *testing.T) {
	shallow := SurvivalProbability(O1a, 60, 90)
	deep := SurvivalProbability(C6, 60, 90)
	if deep <= shallow {
		t.Errorf("deep-duff fuel should survive at least as well as shallow: shallow=%v deep=%v", shallow, deep)
	}
}
