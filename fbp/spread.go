package fbp

import "math"

// WeatherInput is the subset of an hourly weather record the spread
// calculator needs.
type WeatherInput struct {
	WindSpeedKmh float64 // 10 m open wind speed
	WindDirDeg   float64 // compass degrees the wind is blowing FROM
	FFMC         float64
	BUI          float64
}

// SpreadInfo is the result of evaluating FBP for one (cell, weather) pair.
type SpreadInfo struct {
	HeadROS       float64 // m/min
	BackROS       float64 // m/min
	FlankROS      float64 // m/min
	HeadDirection float64 // radians, direction of maximum spread
	LengthBreadth float64
	CFB           float64 // crown fraction burned, [0,1]
	FuelConsumption float64 // kg/m^2, total (surface + crown)
	MaxIntensity  float64 // kW/m, at the head of the fire
}

// isi returns the FBP Initial Spread Index for the given FFMC and wind
// speed (km/h), following the standard fine-fuel-moisture-function /
// wind-function formulation.
func isi(ffmc, windKmh float64) float64 {
	if ffmc >= 100 {
		ffmc = 99.99
	}
	m := 147.2 * (101 - ffmc) / (59.5 + ffmc)
	ff := 91.9 * math.Exp(-0.1386*m) * (1 + math.Pow(m, 5.31)/4.93e7)
	return 0.208 * ff * math.Exp(0.05039*windKmh)
}

// buildupEffect returns the multiplicative correction applied to the
// no-BUI-effect rate of spread.
func buildupEffect(bui float64, p params) float64 {
	if p.buiMax <= 1 {
		return 1 // grass fuels (O-1a/O-1b) have no meaningful buildup effect.
	}
	if bui <= 0 {
		bui = 0.01
	}
	return math.Exp(50 * math.Log(p.q) * (1/bui - 1/p.buiMax))
}

// rosAtISI evaluates the three-parameter FBP rate-of-spread curve.
func rosAtISI(i float64, p params) float64 {
	return p.a * math.Pow(1-math.Exp(-p.b*i), p.c)
}

// lengthToBreadth returns the FBP length-to-breadth ratio as a function of
// net effective wind speed (km/h).
func lengthToBreadth(windKmh float64) float64 {
	return 1 + 8.729*math.Pow(1-math.Exp(-0.03*windKmh), 2.155)
}

// slopeFactor returns the FBP slope spread-rate multiplier for a percent
// slope (clamped to the 0-70% range the standard tables are defined over).
func slopeFactor(slopePct float64) float64 {
	ps := slopePct
	if ps > 70 {
		ps = 70
	}
	if ps < 0 {
		ps = 0
	}
	return math.Exp(3.533 * math.Pow(ps/100, 1.2))
}

// netWindVector combines the wind vector and the upslope-push vector
// (slope pushes the fire upslope, i.e. toward the aspect direction) into a
// single effective wind speed and direction, following the FBP vector
// addition used to combine WSV (wind) and slope equivalent wind speed.
func netWindVector(windKmh, windFromDeg, slopePct, aspectDeg float64) (speedKmh, dirDeg float64) {
	// Wind "from" direction -> the direction the fire is pushed (down-wind).
	windPushDeg := math.Mod(windFromDeg+180, 360)
	wx := windKmh * math.Sin(ToRadians(windPushDeg))
	wy := windKmh * math.Cos(ToRadians(windPushDeg))

	sf := slopeFactor(slopePct)
	// Equivalent wind speed that would produce the same ROS multiplier as
	// the slope, inverted from the wind-effect curve used for ISI.
	slopeEquivKmh := 0.0
	if sf > 1 {
		slopeEquivKmh = math.Log(sf) / 0.05039
	}
	sx := slopeEquivKmh * math.Sin(ToRadians(aspectDeg))
	sy := slopeEquivKmh * math.Cos(ToRadians(aspectDeg))

	vx, vy := wx+sx, wy+sy
	speedKmh = math.Hypot(vx, vy)
	dirDeg = ToDegrees(math.Atan2(vx, vy))
	return speedKmh, dirDeg
}

// Evaluate computes the FBP spread geometry and intensity for a fuel
// class subjected to the given slope, aspect, and weather. ClassNone
// always yields a zero SpreadInfo (non-burnable cells never propagate).
func Evaluate(fuel Class, slopePct, aspectDeg float64, w WeatherInput) SpreadInfo {
	if fuel == ClassNone {
		return SpreadInfo{}
	}
	p := fuelParams[fuel]

	netSpeed, netDir := netWindVector(w.WindSpeedKmh, w.WindDirDeg, slopePct, aspectDeg)

	headISI := isi(w.FFMC, netSpeed)
	backISI := isi(w.FFMC, 0)

	be := buildupEffect(w.BUI, p)
	headROS := rosAtISI(headISI, p) * be
	backROS := rosAtISI(backISI, p) * be

	lb := lengthToBreadth(netSpeed)
	flankROS := (headROS + backROS) / (2 * lb)

	sfc := p.sfcBase + p.sfcPerBui*w.BUI
	csi := CriticalSurfaceIntensity(p.cbh)
	rso := CriticalRos(sfc, csi)
	cfb := 0.0
	if headROS > rso && rso > 0 {
		cfb = 1 - math.Exp(-0.23*(headROS-rso))
		if cfb > 1 {
			cfb = 1
		}
	} else if rso == 0 && p.cfl > 0 {
		// No surface fuel load recorded for this class (e.g. a grass
		// understory default); treat as a pure surface fire.
		cfb = 0
	}

	fuelConsumption := sfc + cfb*p.cfl
	intensity := 300 * fuelConsumption * headROS

	return SpreadInfo{
		HeadROS:         headROS,
		BackROS:         backROS,
		FlankROS:        flankROS,
		HeadDirection:   ToRadians(netDir),
		LengthBreadth:   lb,
		CFB:             cfb,
		FuelConsumption: fuelConsumption,
		MaxIntensity:    intensity,
	}
}
