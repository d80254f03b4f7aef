// Package config loads firesim's run-time settings the way the teacher
// loads InMAP's: a *viper.Viper instance layered over command-line
// flags, "FIRESIM_"-prefixed environment variables (generalizing the
// teacher's "INMAP_" convention), and an optional TOML configuration
// file, following inmaputil/cmd.go's Cfg/InitializeConfig/setConfig
// pattern.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Settings holds every control spec.md §6 names. Field names match the
// flag/env/TOML keys viper binds them under.
type Settings struct {
	Deterministic bool `mapstructure:"deterministic"`

	MinimumRos             float64 `mapstructure:"minimum-ros"`
	MaximumSpreadDistanceM float64 `mapstructure:"maximum-spread-distance"`
	MinimumFfmc            float64 `mapstructure:"minimum-ffmc"`
	MinimumFfmcAtNight     float64 `mapstructure:"minimum-ffmc-at-night"`
	OffsetSunriseMinutes   int     `mapstructure:"offset-sunrise"`
	OffsetSunsetMinutes    int     `mapstructure:"offset-sunset"`

	DefaultPercentConifer float64 `mapstructure:"default-percent-conifer"`
	DefaultPercentDeadFir float64 `mapstructure:"default-percent-dead-fir"`

	IntensityMaxLow      float64 `mapstructure:"intensity-max-low"`
	IntensityMaxModerate float64 `mapstructure:"intensity-max-moderate"`

	ConfidenceLevel         float64 `mapstructure:"confidence-level"`
	MaximumTimeSeconds      int     `mapstructure:"maximum-time-seconds"`
	MaximumCountSimulations int     `mapstructure:"maximum-count-simulations"`
	ThresholdScenarioWeight float64 `mapstructure:"threshold-scenario-weight"`
	ThresholdDailyWeight    float64 `mapstructure:"threshold-daily-weight"`
	ThresholdHourlyWeight   float64 `mapstructure:"threshold-hourly-weight"`

	OutputDateOffsets []int `mapstructure:"output-date-offsets"`

	SaveIndividual    bool `mapstructure:"save-individual"`
	SaveAsASCII       bool `mapstructure:"save-as-ascii"`
	SavePoints        bool `mapstructure:"save-points"`
	SaveIntensity     bool `mapstructure:"save-intensity"`
	SaveProbability   bool `mapstructure:"save-probability"`
	SaveOccurrence    bool `mapstructure:"save-occurrence"`
	SaveSimulationArea bool `mapstructure:"save-simulation-area"`

	Surface bool `mapstructure:"surface"`
	RunAsync bool `mapstructure:"run-async"`

	GridFile     string `mapstructure:"grid-file"`
	FuelFile     string `mapstructure:"fuel-file"`
	WeatherFile  string `mapstructure:"weather-file"`
	IgnitionFile string `mapstructure:"ignition-file"`
	OutputDir    string `mapstructure:"output-dir"`
	LogLevel     string `mapstructure:"log-level"`

	GridCellSizeM float64 `mapstructure:"grid-cell-size"`
	GridOriginX   float64 `mapstructure:"grid-origin-x"`
	GridOriginY   float64 `mapstructure:"grid-origin-y"`
	GridNoData    float64 `mapstructure:"grid-no-data"`

	WeatherScenarioID string `mapstructure:"weather-scenario-id"`
	StartDay          int    `mapstructure:"start-day"`
	NumHours          int    `mapstructure:"num-hours"`
}

// Defaults returns the Settings a fresh firesim install would run with,
// mirroring the defaults the teacher's option table registers for each
// flag before any config file or environment variable overrides them.
func Defaults() Settings {
	return Settings{
		Deterministic: false,

		MinimumRos:             0.1,
		MaximumSpreadDistanceM: 0,
		MinimumFfmc:            0,
		MinimumFfmcAtNight:     0,
		OffsetSunriseMinutes:   0,
		OffsetSunsetMinutes:    0,

		DefaultPercentConifer: 50,
		DefaultPercentDeadFir: 0,

		IntensityMaxLow:      500,
		IntensityMaxModerate: 4000,

		ConfidenceLevel:         0.95,
		MaximumTimeSeconds:      0,
		MaximumCountSimulations: 1000,
		ThresholdScenarioWeight: 1,
		ThresholdDailyWeight:    1,
		ThresholdHourlyWeight:   1,

		SaveIndividual:     false,
		SaveAsASCII:        false,
		SavePoints:         false,
		SaveIntensity:      true,
		SaveProbability:    true,
		SaveOccurrence:     false,
		SaveSimulationArea: true,

		Surface:  false,
		RunAsync: false,

		OutputDir: ".",
		LogLevel:  "info",

		GridCellSizeM: 100,
		GridNoData:    -9999,

		NumHours: 72,
	}
}

// New builds a *viper.Viper wired for firesim: "FIRESIM_" environment
// variable prefix (generalizing the teacher's "INMAP_" convention) plus
// automatic env lookup, matching inmaputil/cmd.go's SetEnvPrefix call.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("FIRESIM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags registers one flag per Settings field on flags, with the
// given defaults, and binds each one into v — the same
// register-then-BindPFlag dance inmaputil/cmd.go's InitializeConfig
// does for every InMAP option.
func BindFlags(flags *pflag.FlagSet, v *viper.Viper, d Settings) error {
	flags.Bool("deterministic", d.Deterministic, "skip the random spread and extinction gates (both always pass) and stop after one iteration")

	flags.Float64("minimum-ros", d.MinimumRos, "rate of spread (m/min) below which a front stops advancing")
	flags.Float64("maximum-spread-distance", d.MaximumSpreadDistanceM, "maximum distance, in cell widths, a front may advance in one spread step; 0 stops all spread")
	flags.Float64("minimum-ffmc", d.MinimumFfmc, "FFMC below which daytime spread halts")
	flags.Float64("minimum-ffmc-at-night", d.MinimumFfmcAtNight, "FFMC below which nighttime spread halts")
	flags.Int("offset-sunrise", d.OffsetSunriseMinutes, "minutes to shift the start of daytime burning conditions")
	flags.Int("offset-sunset", d.OffsetSunsetMinutes, "minutes to shift the end of daytime burning conditions")

	flags.Float64("default-percent-conifer", d.DefaultPercentConifer, "default percent conifer for mixedwood fuel types missing an override")
	flags.Float64("default-percent-dead-fir", d.DefaultPercentDeadFir, "default percent dead fir for the M-4 fuel type missing an override")

	flags.Float64("intensity-max-low", d.IntensityMaxLow, "fireline intensity (kW/m) at or below which a burn is Low")
	flags.Float64("intensity-max-moderate", d.IntensityMaxModerate, "fireline intensity (kW/m) at or below which a burn is Moderate")

	flags.Float64("confidence-level", d.ConfidenceLevel, "confidence level used for stopping-rule interval estimation")
	flags.Int("maximum-time-seconds", d.MaximumTimeSeconds, "wall-clock budget for a run, 0 for unbounded")
	flags.Int("maximum-count-simulations", d.MaximumCountSimulations, "maximum total number of scenarios, summed over all iterations and jobs")
	flags.Float64("threshold-scenario-weight", d.ThresholdScenarioWeight, "tolerance weight for the per-scenario-size stopping statistic")
	flags.Float64("threshold-daily-weight", d.ThresholdDailyWeight, "tolerance weight for the per-iteration-mean stopping statistic")
	flags.Float64("threshold-hourly-weight", d.ThresholdHourlyWeight, "tolerance weight for the per-iteration-95th-percentile stopping statistic")

	flags.IntSlice("output-date-offsets", d.OutputDateOffsets, "day offsets from the start day at which to save snapshots")

	flags.Bool("save-individual", d.SaveIndividual, "accepted but not read by the run command; no per-scenario rasters are written")
	flags.Bool("save-as-ascii", d.SaveAsASCII, "accepted but not read by the run command; rasters are always written in the gob format")
	flags.Bool("save-points", d.SavePoints, "accepted but not read by the run command; ignition points are not saved")
	flags.Bool("save-intensity", d.SaveIntensity, "save per-category intensity rasters")
	flags.Bool("save-probability", d.SaveProbability, "save the aggregate probability raster")
	flags.Bool("save-occurrence", d.SaveOccurrence, "accepted but not read by the run command; no occurrence raster is written")
	flags.Bool("save-simulation-area", d.SaveSimulationArea, "save the final fire sizes CSV")

	flags.Bool("surface", d.Surface, "run in surface mode, igniting every combustible cell once, instead of Monte-Carlo replication")
	flags.Bool("run-async", d.RunAsync, "accepted but not read by the run command; the scenarios of an iteration always run concurrently")

	flags.String("grid-file", d.GridFile, "path to the fuel/elevation grid input")
	flags.String("fuel-file", d.FuelFile, "path to the fuel lookup table CSV")
	flags.String("weather-file", d.WeatherFile, "path to the weather stream CSV")
	flags.String("ignition-file", d.IgnitionFile, "path to the ignition points/perimeters file")
	flags.String("output-dir", d.OutputDir, "directory to write output rasters and CSVs to")
	flags.String("log-level", d.LogLevel, "logrus level: trace, debug, info, warn, error")

	flags.Float64("grid-cell-size", d.GridCellSizeM, "landscape grid cell size, in meters")
	flags.Float64("grid-origin-x", d.GridOriginX, "landscape grid lower-left corner x coordinate")
	flags.Float64("grid-origin-y", d.GridOriginY, "landscape grid lower-left corner y coordinate")
	flags.Float64("grid-no-data", d.GridNoData, "no-data sentinel value for output rasters")

	flags.String("weather-scenario-id", d.WeatherScenarioID, "Scenario column value selecting which weather rows to use")
	flags.Int("start-day", d.StartDay, "day offset (0-based) within the weather stream at which ignition occurs")
	flags.Int("num-hours", d.NumHours, "number of hours to run each scenario for")

	flags.VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(f.Name, f); err != nil {
			panic(fmt.Errorf("config: binding flag %q: %w", f.Name, err))
		}
	})
	return nil
}

// Load reads an optional TOML configuration file into v (if cfgFile is
// non-empty) and unmarshals the merged flag/env/file view into a
// Settings, mirroring setConfig's "read the file if one was given" and
// inmaputil's reliance on cfg.Get* accessors — folded here into one
// typed struct instead of scattered cfg.GetString/GetBool calls.
func Load(v *viper.Viper, cfgFile string) (*Settings, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading configuration file %q: %w", cfgFile, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("config: unmarshaling settings: %w", err)
	}
	return &s, nil
}
