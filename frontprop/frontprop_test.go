package frontprop

import (
	"math"
	"testing"
)

func TestEightDirectionSeedCovers360Degrees(t *testing.T) {
	pts := EightDirectionSeed()
	if len(pts) != 8 {
		t.Fatalf("len = %d, want 8", len(pts))
	}
	seen := map[float64]bool{}
	for _, p := range pts {
		if p.X != 0.5 || p.Y != 0.5 {
			t.Errorf("seed point not centered: %+v", p)
		}
		seen[p.AngleRad] = true
	}
	if len(seen) != 8 {
		t.Errorf("expected 8 distinct angles, got %d", len(seen))
	}
}

func TestAdvanceAlongHeadDirectionMaximizesDistance(t *testing.T) {
	e := Ellipse{HeadRosMPerMin: 10, LengthBreadth: 2, HeadDirRad: 0}
	head := Point{X: 0.5, Y: 0.5, AngleRad: 0}
	tail := Point{X: 0.5, Y: 0.5, AngleRad: math.Pi}

	hNext, _, hColOff := Advance(head, e, 1, 100)
	tNext, _, tColOff := Advance(tail, e, 1, 100)

	headDist := float64(hColOff) + (hNext.X - 0.5)
	tailDist := math.Abs(float64(tColOff) + (tNext.X - 0.5))
	if headDist <= tailDist {
		t.Errorf("head-direction point should travel farther than the backing point: head=%v tail=%v", headDist, tailDist)
	}
}

func TestAdvanceCrossesCellBoundary(t *testing.T) {
	e := Ellipse{HeadRosMPerMin: 1000, LengthBreadth: 1, HeadDirRad: 0}
	p := Point{X: 0.9, Y: 0.5, AngleRad: 0}
	_, rowOff, colOff := Advance(p, e, 10, 30)
	if colOff == 0 && rowOff == 0 {
		t.Error("expected a fast-moving point to cross at least one cell boundary")
	}
}

func TestAdvanceResultStaysInUnitCell(t *testing.T) {
	e := Ellipse{HeadRosMPerMin: 500, LengthBreadth: 3, HeadDirRad: math.Pi / 3}
	p := Point{X: 0.5, Y: 0.5, AngleRad: math.Pi / 5}
	next, _, _ := Advance(p, e, 5, 50)
	if next.X < 0 || next.X >= 1 || next.Y < 0 || next.Y >= 1 {
		t.Errorf("next position %+v should stay within [0,1)", next)
	}
}

func TestStepMinutesZeroRosReturnsZero(t *testing.T) {
	if got := StepMinutes(0, 100, 2); got != 0 {
		t.Errorf("StepMinutes with zero ROS = %v, want 0", got)
	}
}

func TestStepMinutesBoundsDistance(t *testing.T) {
	ros, cellSize, maxDist := 50.0, 100.0, 2.0
	step := StepMinutes(ros, cellSize, maxDist)
	distCells := ros * step / cellSize
	if math.Abs(distCells-maxDist) > 1e-9 {
		t.Errorf("distance traveled in one step = %v cells, want %v", distCells, maxDist)
	}
}
