// Package classify turns mapped statement rows into typed transactions.
// Two policies compete: cash (debits/credits/checks, sign-driven) and
// credit-card (charges/payments/refunds, keyword-driven). When the caller
// gives no account-type hint, both run and the higher-confidence vocabulary
// wins.
package classify

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ledgerscan-dev/ledgerscan/internal/model"
	"github.com/ledgerscan-dev/ledgerscan/internal/tokenize"
	"github.com/ledgerscan-dev/ledgerscan/internal/valueparse"
)

// rowValues is one data row after value parsing, before typing.
type rowValues struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	RawDate     string
	RawAmount   string
	TypeHint    string
	CheckNumber string
	Pending     bool
	Posted      bool
}

// Outcome is the classifier's result for one run.
type Outcome struct {
	Transactions      []model.Transaction
	Policy            model.Policy
	PolicyConfidence  float64
	RowsParsed        int // valid rows before dedup and pending filtering
	RowsDropped       int // rows lost to invalid dates or amounts
	DuplicatesRemoved int
	PendingDropped    int
}

// Classifier applies value parsing, filtering, and policy resolution.
type Classifier struct {
	hint model.Policy
	log  zerolog.Logger
}

// New creates a Classifier. hint skips dual-policy inference when it names
// a concrete policy; PolicyUnknown means infer.
func New(hint model.Policy, log zerolog.Logger) *Classifier {
	return &Classifier{hint: hint, log: log}
}

// Run classifies all data rows under the mapping. Per-row parse failures
// drop the row and never abort the batch.
func (c *Classifier) Run(rows [][]string, m model.ColumnMapping) Outcome {
	var parsed []rowValues
	out := Outcome{}

	start := m.DataStart()
	if start > len(rows) {
		start = len(rows)
	}
	for i, row := range rows[start:] {
		if tokenize.NonEmptyCells(row) == 0 {
			continue
		}
		rv, err := parseRow(row, m)
		if err != nil {
			out.RowsDropped++
			c.log.Debug().Err(err).Int("row", start+i).Msg("dropping unparseable row")
			continue
		}
		parsed = append(parsed, rv)
	}
	out.RowsParsed = len(parsed)

	parsed, out.PendingDropped = filterPending(parsed)

	switch c.hint {
	case model.PolicyCash, model.PolicyCredit:
		out.Policy = c.hint
		out.Transactions, out.DuplicatesRemoved = buildTransactions(parsed, c.hint)
		out.PolicyConfidence = policyConfidence(parsed, c.hint)
	default:
		out.Policy, out.PolicyConfidence = selectPolicy(parsed)
		out.Transactions, out.DuplicatesRemoved = buildTransactions(parsed, out.Policy)
	}
	return out
}

// parseRow extracts and parses the mapped cells from one tokenized row.
func parseRow(row []string, m model.ColumnMapping) (rowValues, error) {
	cell := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	rawDate := cell(m.DateIndex)
	date, err := valueparse.ParseDate(rawDate)
	if err != nil {
		return rowValues{}, err
	}

	rawAmount := cell(m.AmountIndex)
	amount, err := valueparse.ParseAmount(rawAmount)
	if err != nil {
		return rowValues{}, err
	}

	rv := rowValues{
		Date:        date,
		Description: cell(m.DescriptionIndex),
		Amount:      amount,
		RawDate:     rawDate,
		RawAmount:   rawAmount,
		TypeHint:    cell(m.TypeIndex),
		CheckNumber: cell(m.CheckNumberIndex),
	}

	status := strings.ToLower(rv.TypeHint + " " + rv.Description)
	rv.Pending = strings.Contains(status, "pending")
	rv.Posted = strings.Contains(status, "posted")
	return rv, nil
}

// filterPending drops rows explicitly marked pending, but only when the
// file also carries posted markers; posted data supersedes its pending
// duplicates. Files without posted markers keep everything.
func filterPending(rows []rowValues) ([]rowValues, int) {
	anyPosted := false
	for _, r := range rows {
		if r.Posted {
			anyPosted = true
			break
		}
	}
	if !anyPosted {
		return rows, 0
	}

	kept := rows[:0]
	dropped := 0
	for _, r := range rows {
		if r.Pending && !r.Posted {
			dropped++
			continue
		}
		kept = append(kept, r)
	}
	return kept, dropped
}

// buildTransactions types each row under the policy and removes duplicates,
// keeping the first occurrence per identity.
func buildTransactions(rows []rowValues, policy model.Policy) ([]model.Transaction, int) {
	seen := make(map[string]bool, len(rows))
	var txns []model.Transaction
	removed := 0

	for _, r := range rows {
		var typ model.TxType
		if policy == model.PolicyCredit {
			typ = creditType(r)
		} else {
			typ = cashType(r)
		}

		key := dedupeKey(r, typ)
		if seen[key] {
			removed++
			continue
		}
		seen[key] = true

		txns = append(txns, model.Transaction{
			Date:        r.Date,
			Description: r.Description,
			Amount:      r.Amount,
			Type:        typ,
			RawDate:     r.RawDate,
			RawAmount:   r.RawAmount,
		})
	}
	return txns, removed
}

// dedupeKey is a stable transaction identity: ISO date, normalized
// description, canonical amount, and type.
func dedupeKey(r rowValues, typ model.TxType) string {
	return strings.Join([]string{
		r.Date.Format("2006-01-02"),
		strings.ToLower(strings.TrimSpace(r.Description)),
		r.Amount.String(),
		strings.ToLower(string(typ)),
	}, "|")
}

// selectPolicy runs both policies' signal scans over the same rows and
// picks the higher confidence. Ties favor cash, the first evaluated.
func selectPolicy(rows []rowValues) (model.Policy, float64) {
	if len(rows) == 0 {
		return model.PolicyUnknown, 0
	}
	cash := signalFraction(rows, cashSignal)
	credit := signalFraction(rows, creditSignal)
	if credit > cash {
		return model.PolicyCredit, credit
	}
	return model.PolicyCash, cash
}

func policyConfidence(rows []rowValues, policy model.Policy) float64 {
	if policy == model.PolicyCredit {
		return signalFraction(rows, creditSignal)
	}
	return signalFraction(rows, cashSignal)
}
