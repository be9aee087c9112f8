package codec

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type legacyCSVRecord struct {
	DateTimeNumber int64  `json:"dateTimeNumber"`
	Systolic       int    `json:"systolic"`
	Diastolic      int    `json:"diastolic"`
	HeartRate      int    `json:"heartRate"`
	Notes          string `json:"notes,omitempty"`
}

// ConvertCSV turns the historical spreadsheet export into a legacy-schema
// JSON document, which Decode then migrates like any other old import.
//
// Rows look like "2022-12-08 morning,124,88,85,notes"; there is no header.
// Vitals recorded as "--" or left blank mean the reading was skipped that
// day, and the row is dropped.
func ConvertCSV(input string) (string, error) {
	reader := csv.NewReader(strings.NewReader(input))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}

	records := make([]legacyCSVRecord, 0, len(rows))
	for _, row := range rows {
		if len(row) < 4 {
			continue
		}
		datetime := strings.TrimSpace(row[0])
		systolic, okSys := csvNumber(row[1])
		diastolic, okDia := csvNumber(row[2])
		heartRate, okHR := csvNumber(row[3])
		if datetime == "" || !okSys || !okDia || !okHR {
			continue
		}
		ms, err := legacyTimestamp(datetime)
		if err != nil {
			continue
		}
		notes := ""
		if len(row) > 4 {
			notes = strings.TrimSpace(row[4])
		}
		records = append(records, legacyCSVRecord{
			DateTimeNumber: ms,
			Systolic:       systolic,
			Diastolic:      diastolic,
			HeartRate:      heartRate,
			Notes:          notes,
		})
	}

	b, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode converted csv: %w", err)
	}
	return string(b), nil
}

// legacyTimestamp maps "YYYY-MM-DD morning|evening" to epoch milliseconds,
// pinning morning readings to 07:00 and evening readings to 23:00.
func legacyTimestamp(s string) (int64, error) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return 0, fmt.Errorf("malformed date cell %q", s)
	}
	day, err := time.Parse("2006-01-02", fields[0])
	if err != nil {
		return 0, err
	}
	hour := 23
	if fields[1] == "morning" {
		hour = 7
	}
	return day.Add(time.Duration(hour) * time.Hour).UnixMilli(), nil
}

// csvNumber parses one vitals cell; dashed-out placeholders and empty cells
// report not-ok.
func csvNumber(cell string) (int, bool) {
	cleaned := strings.Trim(strings.TrimSpace(cell), "-")
	if cleaned == "" {
		return 0, false
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, false
	}
	return n, true
}
