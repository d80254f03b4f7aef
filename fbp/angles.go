package fbp

import "math"

// ToRadians converts compass degrees to radians.
func ToRadians(deg float64) float64 { return deg * math.Pi / 180 }

// ToDegrees converts radians to compass degrees, normalized to [0, 360).
func ToDegrees(rad float64) float64 {
	d := math.Mod(rad*180/math.Pi, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// CriticalRos returns the rate of spread (m/min) above which crowning
// begins, given surface fuel consumption sfc (kg/m^2) and critical surface
// intensity csi (kW/m). A cell with no surface fuel to carry a crown fire
// (sfc == 0) never reaches the crowning threshold, so CriticalRos is 0 in
// that case regardless of csi.
func CriticalRos(sfc, csi float64) float64 {
	if sfc <= 0 {
		return 0
	}
	return csi / (300 * sfc)
}

// CriticalSurfaceIntensity returns the fireline intensity (kW/m) required
// to initiate crowning, given the crown base height (m) above the surface
// fuel bed.
func CriticalSurfaceIntensity(cbh float64) float64 {
	if cbh <= 0 {
		return 0
	}
	return 0.001 * math.Pow(cbh, 1.5) * math.Pow(460+25.9*cbh, 1.5)
}
