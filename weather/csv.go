package weather

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

var wantHeader = []string{
	"Scenario", "Date", "PREC", "TEMP", "RH", "WS", "WD",
	"FFMC", "DMC", "DC", "ISI", "BUI", "FWI",
}

const dateLayout = "2006-01-02"

// ReadDaily parses a weather CSV with header
// "Scenario,Date,PREC,TEMP,RH,WS,WD,FFMC,DMC,DC,ISI,BUI,FWI" and groups
// rows by scenario. Within a scenario, rows must already be sorted
// chronologically; Build (called separately per scenario) is what
// enforces the consecutive-day and year-boundary constraints.
func ReadDaily(r io.Reader) (map[string][]DailyObservation, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("weather: reading header: %w", err)
	}
	if !headerMatches(header, wantHeader) {
		return nil, fmt.Errorf("weather: expected header %v, got %v", wantHeader, header)
	}

	byScenario := make(map[string][]DailyObservation)
	row := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("weather: row %d: %w", row, err)
		}
		row++
		obs, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("weather: row %d: %w", row, err)
		}
		byScenario[obs.Scenario] = append(byScenario[obs.Scenario], obs)
	}
	return byScenario, nil
}

func parseRow(record []string) (DailyObservation, error) {
	if len(record) != len(wantHeader) {
		return DailyObservation{}, fmt.Errorf("expected %d columns, got %d", len(wantHeader), len(record))
	}
	date, err := time.Parse(dateLayout, record[1])
	if err != nil {
		return DailyObservation{}, fmt.Errorf("bad Date %q: %w", record[1], err)
	}
	fields := make([]float64, 11)
	for i, col := range record[2:] {
		v, err := strconv.ParseFloat(col, 64)
		if err != nil {
			return DailyObservation{}, fmt.Errorf("bad %s %q: %w", wantHeader[i+2], col, err)
		}
		fields[i] = v
	}
	return DailyObservation{
		Scenario: record[0],
		Date:     date,
		PREC:     fields[0],
		TEMP:     fields[1],
		RH:       fields[2],
		WS:       fields[3],
		WD:       fields[4],
		FFMC:     fields[5],
		DMC:      fields[6],
		DC:       fields[7],
		ISI:      fields[8],
		BUI:      fields[9],
		FWI:      fields[10],
	}, nil
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
