package mapping

import (
	"regexp"
	"strings"

	"github.com/ledgerscan-dev/ledgerscan/internal/model"
	"github.com/ledgerscan-dev/ledgerscan/internal/valueparse"
)

var (
	// Numeric calendar dates: 01/02/2024, 2024-01-02, 1.2.24 and friends.
	dateCellRe = regexp.MustCompile(`^\d{1,4}[-/.]\d{1,2}[-/.]\d{2,4}$`)
	// Textual month dates: Jan 2, 2024 / 2 Jan 2024.
	textualDateRe = regexp.MustCompile(`(?i)^\d{1,2}\s+[a-z]{3,9}\s+\d{2,4}$|^[a-z]{3,9}\s+\d{1,2},?\s+\d{2,4}$`)
	// Short classification words found in type columns.
	typeWordRe = regexp.MustCompile(`(?i)^(debit|credit|check|cheque|payment|purchase|charge|fee|refund|withdrawal|deposit|transfer|ach|pos|atm)[a-z_ ]*$`)
)

// LooksLikeDateCell reports whether a cell matches a date pattern family.
// Unlike valueparse.ParseDate it does not accept bare Excel serials, which
// are indistinguishable from integer amounts at the pattern level.
func LooksLikeDateCell(cell string) bool {
	s := strings.TrimSpace(cell)
	return dateCellRe.MatchString(s) || textualDateRe.MatchString(s)
}

func looksLikeTypeCell(cell string) bool {
	return typeWordRe.MatchString(strings.TrimSpace(cell))
}

func looksLikeDescriptionCell(cell string) bool {
	s := strings.TrimSpace(cell)
	if len(s) < 3 || LooksLikeDateCell(s) || valueparse.LooksLikeAmount(s) {
		return false
	}
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			return true
		}
	}
	return false
}

// patternSampleRows caps how many rows the detector inspects.
const patternSampleRows = 20

// defaultPatternScore is the majority-vote bar for a column to win a role.
const defaultPatternScore = 0.5

// columnScore is the fraction of sampled non-empty cells in one column that
// match a role's pattern family.
type columnScore struct {
	col   int
	score float64
}

// DetectByPattern classifies columns by majority vote over pattern families,
// for files with no usable header row. It requires date and amount to
// resolve to distinct columns, each scoring at least minScore. The returned
// confidence is the mean of the winning date and amount column scores.
func DetectByPattern(rows [][]string, minScore float64) (model.ColumnMapping, float64, error) {
	sample := rows
	if len(sample) > patternSampleRows {
		sample = sample[:patternSampleRows]
	}

	cols := 0
	for _, row := range sample {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return model.ColumnMapping{}, 0, ErrNoHeaderFound
	}

	matchers := map[Role]func(string) bool{
		RoleDate:        LooksLikeDateCell,
		RoleAmount:      valueparse.LooksLikeAmount,
		RoleDescription: looksLikeDescriptionCell,
		RoleType:        looksLikeTypeCell,
	}

	best := map[Role]columnScore{}
	for role, match := range matchers {
		top := columnScore{col: model.NoColumn}
		for c := 0; c < cols; c++ {
			matched, seen := 0, 0
			for _, row := range sample {
				if c >= len(row) || strings.TrimSpace(row[c]) == "" {
					continue
				}
				seen++
				if match(row[c]) {
					matched++
				}
			}
			if seen == 0 {
				continue
			}
			score := float64(matched) / float64(seen)
			if score > top.score || (score == top.score && top.col == model.NoColumn) {
				top = columnScore{col: c, score: score}
			}
		}
		best[role] = top
	}

	pick := func(role Role, taken map[int]bool) columnScore {
		cs := best[role]
		if cs.col == model.NoColumn || cs.score < minScore || taken[cs.col] {
			return columnScore{col: model.NoColumn}
		}
		taken[cs.col] = true
		return cs
	}

	taken := map[int]bool{}
	date := pick(RoleDate, taken)
	amount := pick(RoleAmount, taken)
	if date.col == model.NoColumn || amount.col == model.NoColumn {
		return model.ColumnMapping{}, 0, ErrNoHeaderFound
	}
	desc := pick(RoleDescription, taken)
	typ := pick(RoleType, taken)

	// Check-number columns are bare integers, indistinguishable from serial
	// dates at the pattern level, so that role resolves from headers only.
	mapping := model.ColumnMapping{
		HeaderRowIndex:   model.NoHeaderRow,
		DateIndex:        date.col,
		AmountIndex:      amount.col,
		DescriptionIndex: desc.col,
		TypeIndex:        typ.col,
		CheckNumberIndex: model.NoColumn,
	}
	return mapping, (date.score + amount.score) / 2, nil
}
