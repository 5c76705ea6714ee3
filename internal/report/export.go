package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ledgerscan-dev/ledgerscan/internal/model"
)

// ExportHeader is the CSV header for normalized transaction exports.
const ExportHeader = "date,description,amount,type,raw_date,raw_amount"

const (
	exportNumFields = 6
	exportDateFmt   = "2006-01-02"
	colDate         = 0
	colDesc         = 1
	colAmount       = 2
	colType         = 3
	colRawDate      = 4
	colRawAmount    = 5
)

// MarshalTransaction converts a Transaction to an export CSV row.
func MarshalTransaction(t model.Transaction) []string {
	row := make([]string, exportNumFields)
	row[colDate] = t.Date.Format(exportDateFmt)
	row[colDesc] = t.Description
	row[colAmount] = t.Amount.String()
	row[colType] = string(t.Type)
	row[colRawDate] = t.RawDate
	row[colRawAmount] = t.RawAmount
	return row
}

// WriteTransactionsCSV writes normalized transactions (including header).
func WriteTransactionsCSV(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(ExportHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}
