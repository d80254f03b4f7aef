package config

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestBindFlagsDefaultsRoundTrip(t *testing.T) {
	v := New()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(flags, v, Defaults()); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}

	s, err := Load(v, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.IntensityMaxLow != 500 {
		t.Errorf("IntensityMaxLow = %v, want 500", s.IntensityMaxLow)
	}
	if s.MaximumCountSimulations != 1000 {
		t.Errorf("MaximumCountSimulations = %v, want 1000", s.MaximumCountSimulations)
	}
	if !s.SaveIntensity {
		t.Error("SaveIntensity should default to true")
	}
}

func TestFlagOverridesDefault(t *testing.T) {
	v := New()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(flags, v, Defaults()); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := flags.Set("surface", "true"); err != nil {
		t.Fatalf("Set surface: %v", err)
	}
	if err := flags.Set("maximum-count-simulations", "42"); err != nil {
		t.Fatalf("Set maximum-count-simulations: %v", err)
	}

	s, err := Load(v, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !s.Surface {
		t.Error("Surface should be overridden to true")
	}
	if s.MaximumCountSimulations != 42 {
		t.Errorf("MaximumCountSimulations = %v, want 42", s.MaximumCountSimulations)
	}
}
