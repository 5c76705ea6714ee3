package valueparse

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount means the cell is not a recognizable monetary amount.
var ErrInvalidAmount = errors.New("invalid amount format")

var (
	// 1.234,56 style: dot thousands, comma decimal.
	europeanThousandsRe = regexp.MustCompile(`^[+-]?\d{1,3}(\.\d{3})+,\d{1,2}$`)
	// 50,00 style: plain comma decimal.
	europeanCommaRe = regexp.MustCompile(`^[+-]?\d+,\d{1,2}$`)
	// Canonical decimal after cleaning.
	canonicalRe = regexp.MustCompile(`^[+-]?\d*\.?\d+$`)
)

var currencySymbols = []string{"R$", "US$", "USD", "EUR", "GBP", "BRL", "$", "€", "£"}

// ParseAmount parses a monetary cell into a decimal. European formats are
// detected before comma stripping; removing commas first would misread
// "1.234,56" by way of "1.23456".
func ParseAmount(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	// Accounting negatives: (50.00) means -50.00.
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + strings.Trim(s, "()")
	}

	// Symbols and spacing never carry locale information; drop them before
	// looking at separators.
	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.Join(strings.Fields(s), "")

	switch {
	case europeanThousandsRe.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case europeanCommaRe.MatchString(s):
		s = strings.ReplaceAll(s, ",", ".")
	default:
		s = strings.ReplaceAll(s, ",", "")
	}

	if !canonicalRe.MatchString(s) {
		return decimal.Zero, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// LooksLikeAmount reports whether a cell would parse as an amount. Used by
// header validation and pattern-based column detection.
func LooksLikeAmount(text string) bool {
	_, err := ParseAmount(text)
	return err == nil
}
