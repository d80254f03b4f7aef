// Package fbp implements the pure-function collaborator described in the
// simulator's external interfaces: given a cell's fuel/slope/aspect and an
// hour of weather, it returns the Canadian Forest Fire Behavior Prediction
// (FBP) spread geometry and intensity for that cell. The full FBP equation
// set (real fuel-consumption curves, crown-fire transition tables, and the
// dozens of fuel-specific calibration constants) is the "hardest
// engineering" the wider InMAP-style literature on this system treats as
// an external, independently-maintained collaborator; this package
// implements the standard structure of those equations (ISI from FFMC and
// wind, rate of spread from a three-parameter curve, BUI effect, slope and
// wind vector combination, length-to-breadth ratio, crown fraction burned,
// fireline intensity) with the well-known public FBP constants, without
// trying to reproduce every fuel-specific consumption curve in the
// reference system.
package fbp

// Class is a Canadian FBP fuel type. The zero value, ClassNone, represents
// a non-burnable cell.
type Class int

// FBP fuel classes.
const (
	ClassNone Class = iota
	C1
	C2
	C3
	C4
	C5
	C6
	C7
	D1
	M1
	M2
	M3
	M4
	O1a
	O1b
	S1
	S2
	S3
)

// params holds the rate-of-spread curve coefficients (ROS0 = a(1-e^(-bISI))^c),
// the buildup effect parameter q, the maximum BUI used to scale it, and the
// crown/surface fuel load constants used for intensity and crown-fraction-
// burned. Values are the standard constants published for the FBP system
// (Forestry Canada Fire Danger Group 1992).
type params struct {
	a, b, c    float64
	q          float64
	buiMax     float64
	cbh        float64 // crown base height, m
	cfl        float64 // crown fuel load, kg/m^2
	sfcPerBui  float64 // approximate surface fuel consumption per unit BUI, kg/m^2 per BUI unit
	sfcBase    float64 // base surface fuel consumption, kg/m^2
}

var fuelParams = map[Class]params{
	C1: {a: 90, b: 0.0649, c: 4.5, q: 0.90, buiMax: 72, cbh: 2, cfl: 0.75, sfcBase: 0.75, sfcPerBui: 0.01},
	C2: {a: 110, b: 0.0282, c: 1.5, q: 0.70, buiMax: 64, cbh: 3, cfl: 0.8, sfcBase: 0.8, sfcPerBui: 0.0115},
	C3: {a: 110, b: 0.0444, c: 3.0, q: 0.75, buiMax: 62, cbh: 8, cfl: 1.15, sfcBase: 1.15, sfcPerBui: 0.0116},
	C4: {a: 110, b: 0.0293, c: 1.5, q: 0.80, buiMax: 66, cbh: 4, cfl: 1.2, sfcBase: 1.2, sfcPerBui: 0.0116},
	C5: {a: 30, b: 0.0697, c: 4.0, q: 0.80, buiMax: 56, cbh: 18, cfl: 1.2, sfcBase: 1.2, sfcPerBui: 0.0116},
	C6: {a: 30, b: 0.0800, c: 3.0, q: 0.80, buiMax: 62, cbh: 7, cfl: 1.8, sfcBase: 1.8, sfcPerBui: 0.0116},
	C7: {a: 45, b: 0.0305, c: 2.0, q: 0.85, buiMax: 106, cbh: 10, cfl: 0.5, sfcBase: 0.5, sfcPerBui: 0.0116},
	D1: {a: 30, b: 0.0232, c: 1.6, q: 0.90, buiMax: 32, cbh: 0, cfl: 0, sfcBase: 1.0, sfcPerBui: 0.015},
	M1: {a: 110, b: 0.0282, c: 1.5, q: 0.80, buiMax: 50, cbh: 6, cfl: 0.8, sfcBase: 0.8, sfcPerBui: 0.012},
	M2: {a: 110, b: 0.0282, c: 1.5, q: 0.80, buiMax: 50, cbh: 6, cfl: 0.8, sfcBase: 0.8, sfcPerBui: 0.012},
	M3: {a: 120, b: 0.0572, c: 1.4, q: 0.80, buiMax: 50, cbh: 6, cfl: 0.8, sfcBase: 0.8, sfcPerBui: 0.012},
	M4: {a: 100, b: 0.0404, c: 1.48, q: 0.80, buiMax: 50, cbh: 6, cfl: 0.8, sfcBase: 0.8, sfcPerBui: 0.012},
	O1a: {a: 190, b: 0.0310, c: 1.4, q: 1.00, buiMax: 01, cbh: 0, cfl: 0, sfcBase: 0.3, sfcPerBui: 0.0},
	O1b: {a: 250, b: 0.0350, c: 1.7, q: 1.00, buiMax: 01, cbh: 0, cfl: 0, sfcBase: 0.3, sfcPerBui: 0.0},
	S1:  {a: 75, b: 0.0297, c: 1.3, q: 0.75, buiMax: 38, cbh: 0, cfl: 0, sfcBase: 4.0, sfcPerBui: 0.02},
	S2:  {a: 40, b: 0.0438, c: 1.7, q: 0.75, buiMax: 63, cbh: 0, cfl: 0, sfcBase: 6.0, sfcPerBui: 0.02},
	S3:  {a: 55, b: 0.0829, c: 3.2, q: 0.75, buiMax: 31, cbh: 0, cfl: 0, sfcBase: 8.0, sfcPerBui: 0.02},
}

// ClassFromName maps an FBP fuel-type name (as used in the fuel lookup
// table's fuel_type column) to a Class. percentConifer and percentDeadFir
// (both multiples of 5, in [0,100]) select between the conifer/deciduous
// (M-1/M-2) or live/dead fir (M-3/M-4) variants of a mixedwood stand;
// they are ignored for non-mixedwood names.
func ClassFromName(name string, percentConifer, percentDeadFir int) (Class, bool) {
	switch name {
	case "C-1":
		return C1, true
	case "C-2":
		return C2, true
	case "C-3":
		return C3, true
	case "C-4":
		return C4, true
	case "C-5":
		return C5, true
	case "C-6":
		return C6, true
	case "C-7":
		return C7, true
	case "D-1":
		return D1, true
	case "M-1/M-2":
		if percentConifer >= 50 {
			return M1, true
		}
		return M2, true
	case "M-3/M-4":
		if percentDeadFir >= 50 {
			return M3, true
		}
		return M4, true
	case "O-1a":
		return O1a, true
	case "O-1b":
		return O1b, true
	case "S-1":
		return S1, true
	case "S-2":
		return S2, true
	case "S-3":
		return S3, true
	case "Non-fuel", "Water", "Urban", "":
		return ClassNone, true
	default:
		return ClassNone, false
	}
}
