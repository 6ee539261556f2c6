package ingestion

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// isoMillis matches the timestamp format the list store already holds:
// UTC with millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z"

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"02/01/2006",
}

// DateOnlyUTC converts a date-like cell into the canonical UTC-midnight
// timestamp string. The calendar date is read in the value's own location and
// rebuilt at midnight UTC, so the wall-clock date survives while time-of-day
// and offset are discarded. Existing stored rows were written this way;
// changing it would break round-trips.
func DateOnlyUTC(value any) (string, error) {
	ts, err := coerceTime(value)
	if err != nil {
		return "", err
	}
	year, month, day := ts.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(isoMillis), nil
}

func coerceTime(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case float64:
		// Excel serial date.
		return excelize.ExcelDateToTime(v, false)
	case int:
		return excelize.ExcelDateToTime(float64(v), false)
	case string:
		trimmed := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, trimmed); err == nil {
				return ts, nil
			}
		}
		if serial, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return excelize.ExcelDateToTime(serial, false)
		}
		return time.Time{}, fmt.Errorf("unrecognized date %q", v)
	default:
		return time.Time{}, fmt.Errorf("value %v is not date-like", value)
	}
}
