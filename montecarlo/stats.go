package montecarlo

import (
	"math"
	"sort"

	"github.com/GaryBoone/GoStats/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// runningStat accumulates one of the controller's three stopping-rule
// statistics (individual sizes, per-iteration means, per-iteration 95th
// percentiles). It wraps stats.Stats, the teacher's own running-statistics
// accumulator (exercised in eval/singlesource_test.go and friends), rather
// than re-deriving mean/variance update formulas by hand.
type runningStat struct {
	acc stats.Stats
}

func (r *runningStat) update(v float64) {
	r.acc.Update(v)
}

func (r *runningStat) count() int64 { return r.acc.Count() }

func (r *runningStat) mean() float64 { return r.acc.Mean() }

func (r *runningStat) sampleStdDev() float64 {
	if r.acc.Count() < 2 {
		return 0
	}
	v := r.acc.SampleVariance()
	if v < 0 {
		v = 0
	}
	return math.Sqrt(v)
}

// zScore returns the two-sided standard-normal critical value for the
// given confidence level (e.g. 0.95 -> ~1.96), via gonum's distuv.Normal
// quantile function rather than a hand-rolled lookup table.
func zScore(confidenceLevel float64) float64 {
	n := distuv.Normal{Mu: 0, Sigma: 1}
	return n.Quantile(0.5 + confidenceLevel/2)
}

// halfWidth returns the confidence-interval half-width of the mean for a
// runningStat with n samples, sample stddev s, at the given confidence
// level: the classical z*s/sqrt(n) margin of error.
func halfWidth(s float64, n int64, confidenceLevel float64) float64 {
	if n < 2 {
		return math.Inf(1)
	}
	return zScore(confidenceLevel) * stat.StdErr(s, float64(n))
}

// confident reports whether r's relative confidence-interval half-width
// (half-width / |mean|) is within tolerance. An undefined mean of zero
// with no spread (e.g. every scenario burned nothing) is trivially
// confident.
func (r *runningStat) confident(confidenceLevel, tolerance float64) bool {
	n := r.count()
	if n < 2 {
		return false
	}
	m := r.mean()
	hw := halfWidth(r.sampleStdDev(), n, confidenceLevel)
	if m == 0 {
		return hw == 0
	}
	return hw/math.Abs(m) <= tolerance
}

// runsRequired estimates the total sample count needed to bring r's
// relative half-width within tolerance, via the standard sample-size
// formula n = (z*s/(tolerance*m))^2. When the mean is zero it returns the
// number of samples already collected; otherwise it never returns fewer
// than that number plus one.
func (r *runningStat) runsRequired(confidenceLevel, tolerance float64) int {
	n := r.count()
	if n < 2 {
		return int(n) + 1
	}
	m := r.mean()
	if m == 0 {
		return int(n)
	}
	z := zScore(confidenceLevel)
	s := r.sampleStdDev()
	need := math.Ceil(math.Pow(z*s/(tolerance*math.Abs(m)), 2))
	if need < float64(n+1) {
		need = float64(n + 1)
	}
	return int(need)
}

// percentile95 returns the 95th percentile of a slice of final scenario
// sizes, via gonum's stat.Quantile (empirical CDF), which requires its
// input sorted ascending.
func percentile95(sizes []float64) float64 {
	if len(sizes) == 0 {
		return 0
	}
	sorted := append([]float64(nil), sizes...)
	sort.Float64s(sorted)
	return stat.Quantile(0.95, stat.Empirical, sorted, nil)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
