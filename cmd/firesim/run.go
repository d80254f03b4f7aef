package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wildfiresim/firesim/fuel"
	"github.com/wildfiresim/firesim/grid"
	"github.com/wildfiresim/firesim/ignition"
	"github.com/wildfiresim/firesim/internal/config"
	"github.com/wildfiresim/firesim/internal/telemetry"
	"github.com/wildfiresim/firesim/montecarlo"
	"github.com/wildfiresim/firesim/probmap"
	"github.com/wildfiresim/firesim/raster"
	"github.com/wildfiresim/firesim/scenario"
	"github.com/wildfiresim/firesim/weather"
)

func newRunCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the fire-growth Monte-Carlo simulation.",
		Long: `run loads the landscape grid, fuel lookup table, weather stream, and
ignition locations named by the configured file paths, then replicates
fire-growth scenarios across Monte-Carlo iterations until a stopping
rule trips, writing the resulting probability rasters and fire-size CSV
to the configured output directory.`,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.Load(v, *cfgFile)
			if err != nil {
				return err
			}
			return runSimulation(cmd.Context(), s)
		},
	}
}

func runSimulation(ctx context.Context, s *config.Settings) error {
	log := telemetry.New(s.LogLevel)

	g, err := loadGrid(s)
	if err != nil {
		return fmt.Errorf("firesim: %w", err)
	}
	fuelTable, err := loadFuelTable(s, log)
	if err != nil {
		return fmt.Errorf("firesim: %w", err)
	}
	wx, err := loadWeather(s)
	if err != nil {
		return fmt.Errorf("firesim: %w", err)
	}

	scenarioSettings := scenario.Settings{
		MaximumSpreadDistance: s.MaximumSpreadDistanceM,
		MinimumRos:            s.MinimumRos,
		Deterministic:         s.Deterministic,
		SaveDayOffsets:        s.OutputDateOffsets,
		MinimumFfmc:           s.MinimumFfmc,
		MinimumFfmcAtNight:    s.MinimumFfmcAtNight,
		OffsetSunriseMin:      s.OffsetSunriseMinutes,
		OffsetSunsetMin:       s.OffsetSunsetMinutes,
	}
	mcSettings := montecarlo.Settings{
		Deterministic:           s.Deterministic,
		ConfidenceLevel:         s.ConfidenceLevel,
		MaximumTimeSeconds:      float64(s.MaximumTimeSeconds),
		MaximumCountSimulations: s.MaximumCountSimulations,
		ThresholdScenarioWeight: s.ThresholdScenarioWeight,
		ThresholdDailyWeight:    s.ThresholdDailyWeight,
		ThresholdHourlyWeight:   s.ThresholdHourlyWeight,
		Surface:                 s.Surface,
		OutputDateOffsets:       s.OutputDateOffsets,
	}
	thresholds := probmap.Thresholds{LowMax: s.IntensityMaxLow, ModerateMax: s.IntensityMaxModerate}

	var jobs []montecarlo.Job
	if s.Surface {
		jobs = montecarlo.BuildSurfaceJobs(g, wx, s.StartDay, s.NumHours)
	} else {
		seeds, err := loadIgnitions(s, g)
		if err != nil {
			return fmt.Errorf("firesim: %w", err)
		}
		lat, lon := ignitionCentroid(g, seeds)
		jobs = []montecarlo.Job{{
			ID:       "job-0",
			Wx:       wx,
			Seeds:    seeds,
			StartDay: s.StartDay,
			Lat:      lat, Lon: lon,
			NumHours: s.NumHours,
		}}
	}
	if len(jobs) == 0 {
		return fmt.Errorf("firesim: no combustible cells to ignite")
	}

	controller := montecarlo.NewController(g, fuelTable, jobs, scenarioSettings, mcSettings, thresholds, log)
	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return fmt.Errorf("firesim: creating output directory: %w", err)
	}
	controller.OnInterimSave = func(maps map[int]*probmap.ProbabilityMap) {
		log.Info("firesim: out of time, writing interim probability maps")
		if err := writeOutputs(s, maps, nil); err != nil {
			log.WithError(err).Error("firesim: failed to write interim outputs")
		}
	}

	report := controller.Run(ctx)
	log.WithFields(map[string]interface{}{
		"iterations":      report.Iterations,
		"total_scenarios": report.TotalScenarios,
		"out_of_time":     report.OutOfTime,
	}).Info("firesim: run complete")

	return writeOutputs(s, report.ProbabilityMaps, report.Sizes)
}

func loadGrid(s *config.Settings) (*grid.Grid, error) {
	f, err := os.Open(s.GridFile)
	if err != nil {
		return nil, fmt.Errorf("opening grid file: %w", err)
	}
	defer f.Close()
	return readGrid(f, s.GridCellSizeM, s.GridOriginX, s.GridOriginY, s.GridNoData)
}

func loadFuelTable(s *config.Settings, log *logrus.Logger) (*fuel.Table, error) {
	f, err := os.Open(s.FuelFile)
	if err != nil {
		return nil, fmt.Errorf("opening fuel file: %w", err)
	}
	defer f.Close()
	return fuel.Load(f, int(s.DefaultPercentConifer), int(s.DefaultPercentDeadFir), log)
}

func loadWeather(s *config.Settings) (*weather.Stream, error) {
	f, err := os.Open(s.WeatherFile)
	if err != nil {
		return nil, fmt.Errorf("opening weather file: %w", err)
	}
	defer f.Close()
	byScenario, err := weather.ReadDaily(f)
	if err != nil {
		return nil, err
	}
	daily, ok := byScenario[s.WeatherScenarioID]
	if !ok {
		return nil, fmt.Errorf("weather file contains no rows for scenario %q", s.WeatherScenarioID)
	}
	return weather.Build(s.WeatherScenarioID, daily)
}

func loadIgnitions(s *config.Settings, g *grid.Grid) ([]ignition.Seed, error) {
	f, err := os.Open(s.IgnitionFile)
	if err != nil {
		return nil, fmt.Errorf("opening ignition file: %w", err)
	}
	defer f.Close()
	return readIgnitions(f, g)
}

// ignitionCentroid returns the georeferenced coordinates of the first
// seed, used as the job's representative location for RNG seeding.
func ignitionCentroid(g *grid.Grid, seeds []ignition.Seed) (lat, lon float64) {
	if len(seeds) == 0 {
		return 0, 0
	}
	x, y := g.CellCenterXY(seeds[0].Row, seeds[0].Col)
	return y, x
}

// writeOutputs writes the configured subset of probability rasters and
// the fire-size CSV into s.OutputDir.
func writeOutputs(s *config.Settings, maps map[int]*probmap.ProbabilityMap, sizes []float64) error {
	var codec raster.GobCodec
	for offset, pm := range maps {
		if s.SaveProbability {
			if err := writeRasterFile(codec, filepath.Join(s.OutputDir, fmt.Sprintf("total_day%d.gob", offset)),
				raster.FromProbability(pm, s.GridCellSizeM, s.GridOriginX, s.GridOriginY, s.GridNoData)); err != nil {
				return err
			}
		}
		if s.SaveIntensity {
			for _, cat := range []probmap.Category{probmap.Low, probmap.Moderate, probmap.High} {
				if err := writeRasterFile(codec, filepath.Join(s.OutputDir, fmt.Sprintf("%s_day%d.gob", categoryName(cat), offset)),
					raster.FromCategoryCount(pm, cat, s.GridCellSizeM, s.GridOriginX, s.GridOriginY, s.GridNoData)); err != nil {
					return err
				}
			}
		}
		if err := pm.CheckInvariant(); err != nil {
			return fmt.Errorf("firesim: probability map invariant violated: %w", err)
		}
	}
	if s.SaveSimulationArea && sizes != nil {
		f, err := os.Create(filepath.Join(s.OutputDir, "sizes.csv"))
		if err != nil {
			return fmt.Errorf("firesim: creating sizes CSV: %w", err)
		}
		defer f.Close()
		if err := raster.WriteSizesCSV(f, sizes); err != nil {
			return fmt.Errorf("firesim: writing sizes CSV: %w", err)
		}
	}
	return nil
}

func writeRasterFile(codec raster.GobCodec, path string, g *raster.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("firesim: creating raster file %q: %w", path, err)
	}
	defer f.Close()
	if err := codec.WriteRaster(f, g); err != nil {
		return fmt.Errorf("firesim: writing raster file %q: %w", path, err)
	}
	return nil
}

func categoryName(cat probmap.Category) string {
	switch cat {
	case probmap.Low:
		return "low"
	case probmap.Moderate:
		return "moderate"
	case probmap.High:
		return "high"
	default:
		return "unknown"
	}
}
