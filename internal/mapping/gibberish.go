package mapping

import "unicode"

// IsGibberish reports whether a cell cannot plausibly be a header label:
// too short, no letters, purely numeric, long runs of the same character,
// or runs of special characters.
func IsGibberish(cell string) bool {
	runes := []rune(cell)
	if len(runes) < 2 {
		return true
	}

	letters := 0
	specialRun, maxSpecialRun := 0, 0
	repeatRun, maxRepeatRun := 1, 1
	var prev rune

	for i, r := range runes {
		if unicode.IsLetter(r) {
			letters++
		}

		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			specialRun = 0
		} else {
			specialRun++
			if specialRun > maxSpecialRun {
				maxSpecialRun = specialRun
			}
		}

		if i > 0 && r == prev {
			repeatRun++
			if repeatRun > maxRepeatRun {
				maxRepeatRun = repeatRun
			}
		} else {
			repeatRun = 1
		}
		prev = r
	}

	// Covers both letterless and purely numeric cells.
	if letters == 0 {
		return true
	}
	if maxSpecialRun >= 3 {
		return true
	}
	if maxRepeatRun >= 4 {
		return true
	}
	return false
}
