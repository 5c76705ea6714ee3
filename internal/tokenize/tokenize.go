// Package tokenize splits raw statement lines into fields. The delimiter is
// re-detected per line, which tolerates exports that mix delimiters between
// rows.
package tokenize

import "strings"

// delimiters are the candidate field separators, in tie-break priority order.
var delimiters = []rune{',', ';', '\t', '|'}

// DetectDelimiter returns the candidate delimiter with the highest raw count
// in the line, quote state ignored. Ties go to the earlier candidate.
func DetectDelimiter(line string) rune {
	best := delimiters[0]
	bestCount := strings.Count(line, string(delimiters[0]))
	for _, d := range delimiters[1:] {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// Line splits one line on its detected delimiter, honoring double-quoted
// regions. A delimiter inside quotes does not split, a doubled quote inside
// a quoted region decodes to a literal quote, and an unterminated quote
// degrades to literal inclusion of the remaining characters. Fields are
// trimmed of surrounding whitespace.
func Line(line string) []string {
	return SplitOn(line, DetectDelimiter(line))
}

// SplitOn splits a line on a fixed delimiter with the same quote handling
// as Line.
func SplitOn(line string, delim rune) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			fields = append(fields, cleanField(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, cleanField(cur.String()))
	return fields
}

func cleanField(s string) string {
	return strings.TrimSpace(s)
}

// Meaningful reports whether the line has at least one non-empty cell.
func Meaningful(line string) bool {
	for _, cell := range Line(line) {
		if cell != "" {
			return true
		}
	}
	return false
}

// NonEmptyCells counts cells with content after tokenizing.
func NonEmptyCells(cells []string) int {
	n := 0
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			n++
		}
	}
	return n
}
