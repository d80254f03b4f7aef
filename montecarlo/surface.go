package montecarlo

import (
	"fmt"

	"github.com/wildfiresim/firesim/grid"
	"github.com/wildfiresim/firesim/ignition"
	"github.com/wildfiresim/firesim/weather"
)

// BuildSurfaceJobs constructs one Job per combustible cell in g, each
// ignited as a single-cell point, sharing one weather stream and start
// day — the "surface mode" ignition-selection override spec.md §4.6
// describes, used to produce a baseline burnability surface instead of
// sampling random ignition locations.
func BuildSurfaceJobs(g *grid.Grid, wx *weather.Stream, startDay, numHours int) []Job {
	var jobs []Job
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			if !g.Combustible(row, col) {
				continue
			}
			x, y := g.CellCenterXY(row, col)
			jobs = append(jobs, Job{
				ID:       fmt.Sprintf("surface-%d-%d", row, col),
				Wx:       wx,
				Seeds:    []ignition.Seed{{Row: row, Col: col}},
				StartDay: startDay,
				Lat:      y, Lon: x,
				NumHours: numHours,
			})
		}
	}
	return jobs
}
