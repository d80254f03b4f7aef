// Package fuel reads the fuel lookup table that maps a landscape raster's
// grid values onto FBP fuel classes.
package fuel

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/wildfiresim/firesim/fbp"
)

var wantHeader = []string{"grid_value", "export_value", "descriptive_name", "fuel_type"}

// Entry is one row of the fuel lookup table.
type Entry struct {
	GridValue       int
	ExportValue     int
	DescriptiveName string
	FuelType        string
	Class           fbp.Class
}

// Table maps a raster's fuel grid_value to the resolved FBP class.
type Table struct {
	byGridValue map[int]Entry
}

// ClassForGridValue returns the FBP class for a raster grid value. Unknown
// grid values resolve to fbp.ClassNone (non-burnable), matching the
// "unknown fuel-table entry: warn, not fatal; cell treated as non-fuel"
// error-handling policy.
func (t *Table) ClassForGridValue(gridValue int) fbp.Class {
	e, ok := t.byGridValue[gridValue]
	if !ok {
		return fbp.ClassNone
	}
	return e.Class
}

// Load parses a fuel lookup table CSV with header
// "grid_value,export_value,descriptive_name,fuel_type". Rows naming an
// unrecognized fuel_type are logged as warnings and mapped to
// fbp.ClassNone rather than failing the load. percentConifer and
// percentDeadFir select the mixedwood variant used for M-1/M-2 and
// M-3/M-4 entries (see fbp.ClassFromName).
func Load(r io.Reader, percentConifer, percentDeadFir int, log logrus.FieldLogger) (*Table, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("fuel: reading header: %w", err)
	}
	if !headerMatches(header, wantHeader) {
		return nil, fmt.Errorf("fuel: expected header %v, got %v", wantHeader, header)
	}

	t := &Table{byGridValue: make(map[int]Entry)}
	row := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fuel: row %d: %w", row, err)
		}
		row++
		if len(record) != 4 {
			return nil, fmt.Errorf("fuel: row %d: expected 4 columns, got %d", row, len(record))
		}
		gv, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("fuel: row %d: bad grid_value %q: %w", row, record[0], err)
		}
		ev, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("fuel: row %d: bad export_value %q: %w", row, record[1], err)
		}
		class, ok := fbp.ClassFromName(record[3], percentConifer, percentDeadFir)
		if !ok {
			log.WithFields(logrus.Fields{
				"row":       row,
				"fuel_type": record[3],
			}).Warn("fuel: unrecognized fuel_type, treating cell as non-fuel")
			class = fbp.ClassNone
		}
		t.byGridValue[gv] = Entry{
			GridValue:       gv,
			ExportValue:     ev,
			DescriptiveName: record[2],
			FuelType:        record[3],
			Class:           class,
		}
	}
	return t, nil
}

func headerMatches(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
