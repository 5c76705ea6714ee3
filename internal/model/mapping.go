package model

// NoHeaderRow is the HeaderRowIndex sentinel meaning the mapping was
// pattern-detected and data starts at line 0.
const NoHeaderRow = -1

// NoColumn marks a role with no resolved column.
const NoColumn = -1

// ColumnMapping resolves raw column positions to semantic roles.
// DateIndex and AmountIndex are always resolved in a valid mapping;
// DescriptionIndex, TypeIndex, and CheckNumberIndex may be NoColumn.
type ColumnMapping struct {
	HeaderRowIndex   int
	DateIndex        int
	DescriptionIndex int
	AmountIndex      int
	TypeIndex        int
	CheckNumberIndex int
}

// DataStart returns the line index of the first data row.
func (m ColumnMapping) DataStart() int {
	if m.HeaderRowIndex == NoHeaderRow {
		return 0
	}
	return m.HeaderRowIndex + 1
}

// HasHeader reports whether a header row was located.
func (m ColumnMapping) HasHeader() bool { return m.HeaderRowIndex != NoHeaderRow }
