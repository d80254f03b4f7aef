// Package probmap accumulates per-cell fire-intensity snapshots from
// many scenarios into a probability surface: for each cell, how many
// scenarios burned it, and at what intensity category.
package probmap

import (
	"fmt"
	"sync"

	"github.com/ctessum/sparse"
)

// Category is an intensity class a burned cell falls into.
type Category int

const (
	Low Category = iota
	Moderate
	High
)

// Thresholds are the upper bounds (kW/m) of the low and moderate
// categories; anything above ModerateMax is High.
type Thresholds struct {
	LowMax      float64
	ModerateMax float64
}

// Categorize returns the Category an intensity falls into under t.
func (t Thresholds) Categorize(intensity float64) Category {
	switch {
	case intensity <= t.LowMax:
		return Low
	case intensity <= t.ModerateMax:
		return Moderate
	default:
		return High
	}
}

// ProbabilityMap is the four cell->count grids (total, low, moderate,
// high) for one snapshot time. Every update goes through one mutex,
// matching spec.md §5's single-mutex-per-shared-aggregator policy.
type ProbabilityMap struct {
	mu sync.Mutex

	rows, cols int
	thresholds Thresholds
	numSizes   int

	total    *sparse.DenseArray
	low      *sparse.DenseArray
	moderate *sparse.DenseArray
	high     *sparse.DenseArray
}

// New builds an empty ProbabilityMap over a rows x cols grid.
func New(rows, cols int, thresholds Thresholds) *ProbabilityMap {
	return &ProbabilityMap{
		rows: rows, cols: cols, thresholds: thresholds,
		total:    sparse.ZerosDense(rows, cols),
		low:      sparse.ZerosDense(rows, cols),
		moderate: sparse.ZerosDense(rows, cols),
		high:     sparse.ZerosDense(rows, cols),
	}
}

// Snapshot is the per-cell intensity reading a scenario publishes at one
// save time.
type Snapshot interface {
	// Cells returns the hashes of cells with a recorded intensity.
	Cells() []int
	// Get returns the recorded intensity for a cell hash.
	Get(cellHash int) float64
}

// Publish folds one scenario's intensity snapshot into the aggregator.
// Cells with zero intensity are skipped; every other cell increments
// `total` and exactly one of {low, moderate, high}, preserving the
// invariant total = low + moderate + high.
func (m *ProbabilityMap) Publish(snap Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, hash := range snap.Cells() {
		intensity := snap.Get(hash)
		if intensity <= 0 {
			continue
		}
		row, col := hash/m.cols, hash%m.cols
		m.total.Set(m.total.Get(row, col)+1, row, col)
		switch m.thresholds.Categorize(intensity) {
		case Low:
			m.low.Set(m.low.Get(row, col)+1, row, col)
		case Moderate:
			m.moderate.Set(m.moderate.Get(row, col)+1, row, col)
		case High:
			m.high.Set(m.high.Get(row, col)+1, row, col)
		}
	}
}

// RecordSize increments the denominator used to render total counts as
// probabilities. Called once per scenario whose final size was counted
// into this map.
func (m *ProbabilityMap) RecordSize() {
	m.mu.Lock()
	m.numSizes++
	m.mu.Unlock()
}

// NumSizes returns the current denominator.
func (m *ProbabilityMap) NumSizes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.numSizes
}

// Probability returns total/numSizes for the given cell, or 0 if no
// sizes have been recorded yet.
func (m *ProbabilityMap) Probability(row, col int) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.numSizes == 0 {
		return 0
	}
	return m.total.Get(row, col) / float64(m.numSizes)
}

// Rows and Cols return the map's extent, for callers that need to
// iterate every cell (e.g. raster export).
func (m *ProbabilityMap) Rows() int { return m.rows }
func (m *ProbabilityMap) Cols() int { return m.cols }

// CategoryCount returns the raw burn count in the given category for one
// cell, for callers building per-category output rasters.
func (m *ProbabilityMap) CategoryCount(cat Category, row, col int) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch cat {
	case Low:
		return m.low.Get(row, col)
	case Moderate:
		return m.moderate.Get(row, col)
	case High:
		return m.high.Get(row, col)
	default:
		return 0
	}
}

// CheckInvariant verifies total = low + moderate + high for every cell;
// returns an error describing the first violation found, if any.
func (m *ProbabilityMap) CheckInvariant() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			sum := m.low.Get(r, c) + m.moderate.Get(r, c) + m.high.Get(r, c)
			if sum != m.total.Get(r, c) {
				return fmt.Errorf("probmap: cell (%d,%d): total=%v but low+moderate+high=%v", r, c, m.total.Get(r, c), sum)
			}
		}
	}
	return nil
}
