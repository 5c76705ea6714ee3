// Package valueparse converts raw statement cells into dates and amounts.
// Inputs come from exports with no declared locale, so every parser tries a
// fixed candidate order and the first success wins.
package valueparse

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate means no supported date format matched.
var ErrInvalidDate = errors.New("invalid date format")

// genericLayouts are tried before positional slash formats. Slashed numeric
// dates are excluded here; they need explicit MM/DD vs DD/MM ordering below.
var genericLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006.01.02",
	"02.01.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02-Jan-2006",
}

// Excel date serials count days from this anchor, so serial 1 lands on
// 1900-01-01 and the phantom 1900-02-29 is absorbed for modern dates.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

const (
	minExcelSerial = 1
	maxExcelSerial = 100000
)

// ParseDate parses a date cell. Candidate order: generic layouts, Excel
// serial number, MM/DD/YYYY, DD/MM/YYYY, strict YYYY-MM-DD.
func ParseDate(text string) (time.Time, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}

	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	if serial, err := strconv.Atoi(s); err == nil {
		if serial >= minExcelSerial && serial <= maxExcelSerial {
			return excelEpoch.AddDate(0, 0, serial), nil
		}
		return time.Time{}, ErrInvalidDate
	}

	if t, ok := parseSlashed(s, true); ok {
		return t, nil
	}
	if t, ok := parseSlashed(s, false); ok {
		return t, nil
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}

	return time.Time{}, ErrInvalidDate
}

// parseSlashed handles numeric dates separated by "/", "-", or ".", either
// month-first (US) or day-first (European). Two-digit years expand with the
// statement convention: below 50 means 2000s, otherwise 1900s.
func parseSlashed(s string, monthFirst bool) (time.Time, bool) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '-' || r == '.' })
	if len(parts) != 3 {
		return time.Time{}, false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}

	month, day := nums[0], nums[1]
	if !monthFirst {
		month, day = nums[1], nums[0]
	}
	year := expandYear(nums[2], len(parts[2]))

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Reject overflow like Feb 30 that time.Date silently normalizes.
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return t, true
}

func expandYear(y, digits int) int {
	if digits > 2 {
		return y
	}
	if y < 50 {
		return 2000 + y
	}
	return 1900 + y
}
