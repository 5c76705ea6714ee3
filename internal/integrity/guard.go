// Package integrity verifies that row structure survives pipeline stages.
// Any stage that rewrites rows (unmerging wrapped lines, dropping blanks)
// should snapshot fingerprints before and after and assert stability.
package integrity

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// cellSentinel joins cells inside a fingerprint hash. The unit-separator
// control character does not occur in legitimate statement data.
const cellSentinel = "\x1f"

// RowFingerprint is a compact structural identity for one tokenized row.
// It is compared and discarded, never persisted.
type RowFingerprint struct {
	Index       int
	ColumnCount int
	ContentHash uint64
}

// DriftError reports a structural mismatch between two snapshots of the
// same rows.
type DriftError struct {
	Stage      string
	BeforeRows int
	AfterRows  int
	RowIndex   int // -1 for a row-count mismatch
	BeforeCols int
	AfterCols  int
}

func (e *DriftError) Error() string {
	if e.RowIndex < 0 {
		return fmt.Sprintf("row drift at stage %q: row count changed from %d to %d",
			e.Stage, e.BeforeRows, e.AfterRows)
	}
	return fmt.Sprintf("row drift at stage %q: row %d column count changed from %d to %d",
		e.Stage, e.RowIndex, e.BeforeCols, e.AfterCols)
}

// Fingerprint snapshots the structure of tokenized rows.
func Fingerprint(rows [][]string) []RowFingerprint {
	fps := make([]RowFingerprint, len(rows))
	for i, row := range rows {
		fps[i] = RowFingerprint{
			Index:       i,
			ColumnCount: len(row),
			ContentHash: hashRow(row),
		}
	}
	return fps
}

// hashRow hashes the cell count plus a whitespace-normalized, sentinel-joined
// concatenation of the cells.
func hashRow(row []string) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d%s", len(row), cellSentinel)
	for _, cell := range row {
		h.Write([]byte(strings.Join(strings.Fields(cell), " ")))
		h.Write([]byte(cellSentinel))
	}
	return h.Sum64()
}

// AssertStable compares two snapshots and returns a *DriftError if the row
// count or any per-row column count differs. Content hashes are carried for
// diagnostics but do not participate in the stability check; stages are
// allowed to normalize cell text, not to add or drop rows or columns.
func AssertStable(before, after []RowFingerprint, stage string) error {
	if len(before) != len(after) {
		return &DriftError{
			Stage:      stage,
			BeforeRows: len(before),
			AfterRows:  len(after),
			RowIndex:   -1,
		}
	}
	for i := range before {
		if before[i].ColumnCount != after[i].ColumnCount {
			return &DriftError{
				Stage:      stage,
				BeforeRows: len(before),
				AfterRows:  len(after),
				RowIndex:   i,
				BeforeCols: before[i].ColumnCount,
				AfterCols:  after[i].ColumnCount,
			}
		}
	}
	return nil
}
