package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const dateLayout = "2006-01-02"

// Serial day counts outside this window are not treated as spreadsheet dates.
const (
	minSerialDay = 1
	maxSerialDay = 2958465 // 9999-12-31
)

// ParseDate normalizes a date cell to YYYY-MM-DD. Textual dates use any of
// "-", "/" or "." as separators; a bare number is read as a spreadsheet serial
// day count in the 1900 (or, with use1904, the 1904) date system.
func ParseDate(raw string, use1904 bool) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if t, ok := parseTextualDate(raw); ok {
		return t.Format(dateLayout), true
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil || serial < minSerialDay || serial > maxSerialDay {
		return "", false
	}
	t, err := excelize.ExcelDateToTime(serial, use1904)
	if err != nil {
		return "", false
	}
	return t.Format(dateLayout), true
}

func parseTextualDate(raw string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	// Drop a trailing time of day: "2024-03-02 09:00:00".
	if i := strings.Index(raw, ":"); i > 0 {
		if sp := strings.LastIndex(raw[:i], " "); sp > 0 {
			raw = raw[:sp]
		}
	}
	s := strings.ReplaceAll(raw, " ", "")
	s = strings.TrimSuffix(s, ".")
	s = strings.NewReplacer("/", "-", ".", "-").Replace(s)
	if len(s) == 8 && !strings.Contains(s, "-") {
		if t, err := time.Parse("20060102", s); err == nil {
			return t, true
		}
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-1-2", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// BirthDateFromNationalID returns the first six digits of a national-id-like
// value (YYMMDD), or false if fewer than six digits are present.
func BirthDateFromNationalID(raw string) (string, bool) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
			if digits.Len() == 6 {
				return digits.String(), true
			}
		}
	}
	return "", false
}
