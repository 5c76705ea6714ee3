// Package report assembles the user-facing output of an analysis run:
// monthly and overall aggregates, the diagnostic output contract, post-hoc
// quality checks, and the normalized CSV export.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerscan-dev/ledgerscan/internal/model"
)

// MonthGroup aggregates the transactions of one calendar month.
type MonthGroup struct {
	Label   string          `json:"label"` // e.g. "January 2024"
	Month   string          `json:"month"` // e.g. "2024-01", sortable
	Counts  model.Counts    `json:"counts"`
	Total   decimal.Decimal `json:"total"`
	Average decimal.Decimal `json:"average"`

	monthStart time.Time
}

// GroupByMonth buckets transactions by calendar month, sorted by actual
// year and month. Sorting uses the month's date, not the label; lexical
// label order would interleave years.
func GroupByMonth(txns []model.Transaction, policy model.Policy) []MonthGroup {
	buckets := make(map[string][]model.Transaction)
	starts := make(map[string]time.Time)

	for _, t := range txns {
		start := time.Date(t.Date.Year(), t.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		key := start.Format("2006-01")
		buckets[key] = append(buckets[key], t)
		starts[key] = start
	}

	groups := make([]MonthGroup, 0, len(buckets))
	for key, monthTxns := range buckets {
		total := decimal.Zero
		for _, t := range monthTxns {
			total = total.Add(t.Amount)
		}
		avg := total.Div(decimal.NewFromInt(int64(len(monthTxns)))).Round(2)

		groups = append(groups, MonthGroup{
			Label:      starts[key].Format("January 2006"),
			Month:      key,
			Counts:     model.CountTransactions(monthTxns, policy),
			Total:      total,
			Average:    avg,
			monthStart: starts[key],
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].monthStart.Before(groups[j].monthStart)
	})
	return groups
}

// OverallTotals tallies all transactions under the active policy.
func OverallTotals(txns []model.Transaction, policy model.Policy) model.Counts {
	return model.CountTransactions(txns, policy)
}
