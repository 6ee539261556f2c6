package domain

import "strconv"

// Row is a single parsed spreadsheet row, keyed by column header. Cell values
// are typed by the decoder: string, float64, bool, or time.Time. Columns whose
// cell was empty are absent from the map entirely.
type Row map[string]any

// Lookup returns the raw cell value and whether the column was present,
// so callers can distinguish a missing column from a zero value.
func (r Row) Lookup(key string) (any, bool) {
	value, ok := r[key]
	return value, ok
}

// Truthy reports whether the column holds a non-empty value. Empty strings,
// zero numbers, false booleans, and zero times all count as empty. The list
// store treats those the same as an absent cell, so the validator does too.
func (r Row) Truthy(key string) bool {
	value, ok := r[key]
	if !ok {
		return false
	}
	switch v := value.(type) {
	case string:
		return v != ""
	case float64:
		return v != 0
	case bool:
		return v
	case interface{ IsZero() bool }:
		return !v.IsZero()
	case nil:
		return false
	default:
		return true
	}
}

// Text returns the cell rendered as a string; numbers and booleans are
// formatted the way the spreadsheet displayed them.
func (r Row) Text(key string) string {
	value, ok := r[key]
	if !ok {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Number returns the cell as a float64, parsing numeric strings on the way.
// Non-numeric cells yield zero.
func (r Row) Number(key string) float64 {
	value, ok := r[key]
	if !ok {
		return 0
	}
	switch v := value.(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
