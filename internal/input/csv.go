package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// CSVReader returns a text file's lines verbatim. Splitting into fields is
// left to the tokenizer, which re-detects the delimiter per line.
type CSVReader struct{}

// Format returns the reader name.
func (c *CSVReader) Format() string { return "csv" }

// maxLineBytes caps a single statement line. Exports with longer lines are
// not tabular data.
const maxLineBytes = 1 << 20

// Rows reads all lines, trimming trailing carriage returns.
func (c *CSVReader) Rows(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading lines: %w", err)
	}
	return lines, nil
}
