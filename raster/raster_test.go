package raster

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wildfiresim/firesim/probmap"
)

func TestGobRoundTrip(t *testing.T) {
	g := New(3, 4, 30, 100, 200, -9999)
	g.Set(1, 2, 42.5)

	var buf bytes.Buffer
	var codec GobCodec
	if err := codec.WriteRaster(&buf, g); err != nil {
		t.Fatalf("WriteRaster: %v", err)
	}
	got, err := codec.ReadRaster(&buf)
	if err != nil {
		t.Fatalf("ReadRaster: %v", err)
	}
	if got.Rows != g.Rows || got.Cols != g.Cols {
		t.Fatalf("extent mismatch: got %dx%d, want %dx%d", got.Rows, got.Cols, g.Rows, g.Cols)
	}
	if got.At(1, 2) != 42.5 {
		t.Errorf("At(1,2) = %v, want 42.5", got.At(1, 2))
	}
}

func TestReadRasterRejectsCorruptedStream(t *testing.T) {
	var codec GobCodec
	var buf bytes.Buffer
	if err := codec.WriteRaster(&buf, New(1, 1, 30, 0, 0, -9999)); err != nil {
		t.Fatalf("WriteRaster: %v", err)
	}
	// Corrupt the stream's leading bytes enough to break gob decoding of
	// the version string without relying on its exact wire offset.
	corrupted := append([]byte(nil), buf.Bytes()...)
	if len(corrupted) > 5 {
		corrupted[5] ^= 0xFF
	}
	if _, err := codec.ReadRaster(bytes.NewReader(corrupted)); err == nil {
		t.Error("expected an error decoding a corrupted raster stream")
	}
}

func TestFromProbabilityAndCategoryCount(t *testing.T) {
	pm := probmap.New(2, 2, probmap.Thresholds{LowMax: 10, ModerateMax: 20})
	pm.Publish(fakeSnapshot{1: 5, 3: 25})
	pm.RecordSize()
	pm.RecordSize()

	total := FromProbability(pm, 30, 0, 0, -9999)
	if got := total.At(0, 1); got != 0.5 {
		t.Errorf("total probability at (0,1) = %v, want 0.5", got)
	}

	high := FromCategoryCount(pm, probmap.High, 30, 0, 0, -9999)
	if got := high.At(1, 1); got != 1 {
		t.Errorf("high count at (1,1) = %v, want 1", got)
	}
}

type fakeSnapshot map[int]float64

func (f fakeSnapshot) Cells() []int {
	out := make([]int, 0, len(f))
	for h := range f {
		out = append(out, h)
	}
	return out
}
func (f fakeSnapshot) Get(hash int) float64 { return f[hash] }

func TestWriteSizesCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSizesCSV(&buf, []float64{1.5, 2, 3.25}); err != nil {
		t.Fatalf("WriteSizesCSV: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "size_hectares\n") {
		t.Errorf("missing header, got %q", out)
	}
	if !strings.Contains(out, "3.25") {
		t.Errorf("missing expected row, got %q", out)
	}
}
