package scenario

import (
	"math"

	"github.com/wildfiresim/firesim/fbp"
)

// spreadCacheKey is the tuple spec.md §3 names as the SpreadInfo cache's
// key: fuel code, slope, aspect, wind speed/direction buckets, FFMC, and
// BUI. Bucketing wind speed and direction lets many slightly different
// hourly readings collapse onto the same cached result.
type spreadCacheKey struct {
	FuelCode      int
	SlopePct      int
	AspectBucket  int
	WindSpeedBkt  int
	WindDirBucket int
	FFMCBucket    int
	BUIBucket     int
}

const (
	windSpeedBucketWidth = 2.0  // km/h
	windDirBucketWidth   = 10.0 // degrees
	ffmcBucketWidth      = 1.0
	buiBucketWidth       = 2.0
)

func bucket(v, width float64) int {
	return int(math.Round(v / width))
}

func makeSpreadCacheKey(fuelCode int, slopePct, aspectDeg float64, w fbp.WeatherInput) spreadCacheKey {
	return spreadCacheKey{
		FuelCode:      fuelCode,
		SlopePct:      int(math.Round(slopePct)),
		AspectBucket:  bucket(aspectDeg, windDirBucketWidth),
		WindSpeedBkt:  bucket(w.WindSpeedKmh, windSpeedBucketWidth),
		WindDirBucket: bucket(w.WindDirDeg, windDirBucketWidth),
		FFMCBucket:    bucket(w.FFMC, ffmcBucketWidth),
		BUIBucket:     bucket(w.BUI, buiBucketWidth),
	}
}

// SpreadCache memoizes fbp.Evaluate results within one scenario. Unlike
// the pack's github.com/ctessum/requestcache, which buys safe concurrent
// dedup across goroutines, each scenario owns its cache exclusively and
// runs on a single goroutine, so a plain map guarded by nothing is
// sufficient here — the memoization *strategy* (collapse identical
// requests onto one computed result) is what's borrowed, not the
// concurrent machinery.
type SpreadCache struct {
	entries map[spreadCacheKey]fbp.SpreadInfo
}

func newSpreadCache() *SpreadCache {
	return &SpreadCache{entries: make(map[spreadCacheKey]fbp.SpreadInfo)}
}

// Evaluate returns the cached SpreadInfo for the given inputs, computing
// and storing it via fbp.Evaluate on a cache miss.
func (c *SpreadCache) Evaluate(class fbp.Class, slopePct, aspectDeg float64, w fbp.WeatherInput) fbp.SpreadInfo {
	key := makeSpreadCacheKey(int(class), slopePct, aspectDeg, w)
	if si, ok := c.entries[key]; ok {
		return si
	}
	si := fbp.Evaluate(class, slopePct, aspectDeg, w)
	c.entries[key] = si
	return si
}
