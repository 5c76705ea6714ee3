// Package runlog keeps an append-only CSV record of analysis runs under
// <root>/logs/ledgerscan-runs.csv. It is the only state that outlives a run.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp        time.Time
	RunID            string
	FileName         string
	RowsParsed       int
	Transactions     int
	Policy           string
	PolicyConfidence float64
	TableConfidence  float64
	Fallbacks        string // semicolon-separated tier names
}

// Header is the CSV header for ledgerscan-runs.csv.
const Header = "timestamp,run_id,file,rows_parsed,transactions,policy,policy_confidence,table_confidence,fallbacks"

const (
	numFields     = 9
	logDir        = "logs"
	logFile       = "logs/ledgerscan-runs.csv"
	colTimestamp  = 0
	colRunID      = 1
	colFile       = 2
	colRows       = 3
	colTxns       = 4
	colPolicy     = 5
	colPolicyConf = 6
	colTableConf  = 7
	colFallbacks  = 8
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colFile] = e.FileName
	row[colRows] = strconv.Itoa(e.RowsParsed)
	row[colTxns] = strconv.Itoa(e.Transactions)
	row[colPolicy] = e.Policy
	row[colPolicyConf] = strconv.FormatFloat(e.PolicyConfidence, 'f', 2, 64)
	row[colTableConf] = strconv.FormatFloat(e.TableConfidence, 'f', 2, 64)
	row[colFallbacks] = e.Fallbacks
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	rows, err := strconv.Atoi(record[colRows])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing rows_parsed %q: %w", record[colRows], err)
	}
	txns, err := strconv.Atoi(record[colTxns])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing transactions %q: %w", record[colTxns], err)
	}
	policyConf, err := strconv.ParseFloat(record[colPolicyConf], 64)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing policy_confidence %q: %w", record[colPolicyConf], err)
	}
	tableConf, err := strconv.ParseFloat(record[colTableConf], 64)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing table_confidence %q: %w", record[colTableConf], err)
	}

	return Entry{
		Timestamp:        ts,
		RunID:            record[colRunID],
		FileName:         record[colFile],
		RowsParsed:       rows,
		Transactions:     txns,
		Policy:           record[colPolicy],
		PolicyConfidence: policyConf,
		TableConfidence:  tableConf,
		Fallbacks:        record[colFallbacks],
	}, nil
}

// Append writes entries to <root>/logs/ledgerscan-runs.csv, creating the
// file and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	return cw.Error()
}

// Read returns all entries from <root>/logs/ledgerscan-runs.csv, or an
// empty slice if the file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
