// Package mapping infers which statement columns hold the date, description,
// amount, and type. It searches for a header row by synonym matching, checks
// the match against the data rows that follow, and falls back to pure
// pattern detection for headerless files.
package mapping

import (
	"errors"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/ledgerscan-dev/ledgerscan/internal/model"
	"github.com/ledgerscan-dev/ledgerscan/internal/tokenize"
	"github.com/ledgerscan-dev/ledgerscan/internal/valueparse"
)

var (
	// ErrInsufficientData means the file has no meaningful rows at all.
	ErrInsufficientData = errors.New("insufficient data: no meaningful rows")
	// ErrNoHeaderFound means neither header search nor pattern detection
	// could resolve date and amount columns.
	ErrNoHeaderFound = errors.New("no header row or recognizable columns found")
)

// Options tunes one mapping attempt. Tiers of the recovery chain pass
// different values rather than swapping behavior at runtime.
type Options struct {
	// FuzzyThreshold is the maximum Levenshtein distance for a header cell
	// to match a synonym.
	FuzzyThreshold int
	// BroadSubstring also accepts substring hits that are not on a word
	// boundary (relaxed tiers only).
	BroadSubstring bool
	// PatternOnly skips header search and goes straight to pattern
	// detection.
	PatternOnly bool
	// MinPatternScore overrides the pattern detector's acceptance bar.
	// Zero means the standard 0.5 majority vote.
	MinPatternScore float64
}

// DefaultOptions is the strict-tier configuration.
func DefaultOptions() Options {
	return Options{FuzzyThreshold: 1}
}

const (
	headerSearchLimit = 40 // non-blank lines scanned for a header
	headerMinCells    = 2  // sparser rows cannot be headers
	validationSample  = 5  // data rows sampled to confirm a header
)

// Result carries the resolved mapping plus the detector's confidence in it.
type Result struct {
	Mapping    model.ColumnMapping
	Confidence float64
}

// MapColumns resolves column roles for the given raw lines.
func MapColumns(lines []string, opts Options) (Result, error) {
	rows := make([][]string, 0, len(lines))
	meaningful := 0
	for _, line := range lines {
		row := tokenize.Line(line)
		if tokenize.NonEmptyCells(row) > 0 {
			meaningful++
		}
		rows = append(rows, row)
	}
	if meaningful < 1 {
		return Result{}, ErrInsufficientData
	}

	if !opts.PatternOnly {
		if res, ok := searchHeader(rows, opts); ok {
			return res, nil
		}
	}

	dataRows := contentRows(rows)
	minScore := opts.MinPatternScore
	if minScore == 0 {
		minScore = defaultPatternScore
	}
	m, confidence, err := DetectByPattern(dataRows, minScore)
	if err != nil {
		return Result{}, err
	}
	return Result{Mapping: m, Confidence: confidence}, nil
}

// searchHeader scans the first headerSearchLimit non-blank rows for a row
// whose cells match role synonyms, then validates the hit against the data
// rows that follow.
func searchHeader(rows [][]string, opts Options) (Result, bool) {
	scanned := 0
	for i, row := range rows {
		nonEmpty := tokenize.NonEmptyCells(row)
		if nonEmpty == 0 {
			continue
		}
		scanned++
		if scanned > headerSearchLimit {
			break
		}
		if nonEmpty < headerMinCells {
			continue
		}

		m, ok := matchHeaderRow(row, opts)
		if !ok {
			continue
		}
		m.HeaderRowIndex = i

		confidence, ok := validateHeader(rows, m)
		if !ok {
			continue
		}
		return Result{Mapping: m, Confidence: confidence}, true
	}
	return Result{}, false
}

// matchHeaderRow tries to resolve every role against one candidate row.
// Date and amount are mandatory. Each column serves at most one role.
func matchHeaderRow(row []string, opts Options) (model.ColumnMapping, bool) {
	m := model.ColumnMapping{
		DateIndex:        model.NoColumn,
		DescriptionIndex: model.NoColumn,
		AmountIndex:      model.NoColumn,
		TypeIndex:        model.NoColumn,
		CheckNumberIndex: model.NoColumn,
	}

	taken := make(map[int]bool, len(roles))
	for _, role := range roles {
		idx := findRoleColumn(row, role, opts, taken)
		if idx == model.NoColumn {
			continue
		}
		taken[idx] = true
		switch role {
		case RoleDate:
			m.DateIndex = idx
		case RoleDescription:
			m.DescriptionIndex = idx
		case RoleAmount:
			m.AmountIndex = idx
		case RoleType:
			m.TypeIndex = idx
		case RoleCheckNumber:
			m.CheckNumberIndex = idx
		}
	}

	return m, m.DateIndex != model.NoColumn && m.AmountIndex != model.NoColumn
}

// findRoleColumn finds the best column for a role: exact match first, then
// word-boundary substring, then edit distance within the tier's threshold.
func findRoleColumn(row []string, role Role, opts Options, taken map[int]bool) int {
	words := synonyms[role]

	type pass func(cell, synonym string) bool
	passes := []pass{
		func(cell, syn string) bool { return cell == syn },
		func(cell, syn string) bool { return wordBoundaryContains(cell, syn, opts.BroadSubstring) },
		func(cell, syn string) bool {
			return levenshtein.ComputeDistance(cell, syn) <= opts.FuzzyThreshold
		},
	}

	for _, match := range passes {
		for i, raw := range row {
			if taken[i] {
				continue
			}
			cell := strings.ToLower(strings.TrimSpace(raw))
			if cell == "" || IsGibberish(cell) {
				continue
			}
			for _, syn := range words {
				if match(cell, syn) {
					return i
				}
			}
		}
	}
	return model.NoColumn
}

// wordBoundaryContains reports whether cell contains synonym as a whole
// word. With broad set, any substring hit counts.
func wordBoundaryContains(cell, synonym string, broad bool) bool {
	if !strings.Contains(cell, synonym) {
		return false
	}
	if broad {
		return true
	}
	idx := strings.Index(cell, synonym)
	before := idx - 1
	after := idx + len(synonym)
	if before >= 0 && isWordChar(cell[before]) {
		return false
	}
	if after < len(cell) && isWordChar(cell[after]) {
		return false
	}
	return true
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

// validateHeader samples rows after the header and accepts the mapping only
// if at least half of them (rounded up) have a date-shaped date cell and an
// amount-shaped amount cell. This rejects data-only files that happen to
// contain a synonym word.
func validateHeader(rows [][]string, m model.ColumnMapping) (float64, bool) {
	var sampled, valid int
	for _, row := range rows[m.HeaderRowIndex+1:] {
		if tokenize.NonEmptyCells(row) == 0 {
			continue
		}
		sampled++
		if rowValidates(row, m) {
			valid++
		}
		if sampled == validationSample {
			break
		}
	}
	if sampled == 0 {
		return 0, false
	}
	need := (sampled + 1) / 2
	return float64(valid) / float64(sampled), valid >= need
}

func rowValidates(row []string, m model.ColumnMapping) bool {
	if m.DateIndex >= len(row) || m.AmountIndex >= len(row) {
		return false
	}
	dateOK := LooksLikeDateCell(row[m.DateIndex]) || isExcelSerialCell(row[m.DateIndex])
	return dateOK && valueparse.LooksLikeAmount(row[m.AmountIndex])
}

// isExcelSerialCell accepts bare integers in the plausible serial range so
// spreadsheet-derived files with raw date serials still validate.
func isExcelSerialCell(cell string) bool {
	s := strings.TrimSpace(cell)
	if len(s) == 0 || len(s) > 6 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != "0"
}

// contentRows drops fully blank rows, preserving order.
func contentRows(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		if tokenize.NonEmptyCells(row) > 0 {
			out = append(out, row)
		}
	}
	return out
}
