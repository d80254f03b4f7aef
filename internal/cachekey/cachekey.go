// Package cachekey turns an arbitrary comparable bucket struct into a
// stable string key for use as a map key or cache index.
package cachekey

import (
	"encoding/gob"
	"fmt"
	"hash/fnv"
)

// Of returns a hash key for the given object. The scenario package uses
// it to hash the bundle of values that a scenario's RNG seed is derived
// from.
func Of(object interface{}) string {
	if s, ok := object.(fmt.Stringer); ok {
		return s.String()
	}
	h := fnv.New128a()
	e := gob.NewEncoder(h)
	if err := e.Encode(object); err != nil {
		// Inputs here are plain numeric buckets, so gob encoding should
		// never fail; fall back to a formatted representation rather
		// than panicking if it ever does.
		fmt.Fprintf(h, "%#v", object)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
