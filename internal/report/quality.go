package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerscan-dev/ledgerscan/internal/model"
)

// Warning is one structured diagnostic finding.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Warning codes.
const (
	WarnRowDrift            = "row_drift"
	WarnLowPolicyConfidence = "low_policy_confidence"
	WarnLowTableConfidence  = "low_table_confidence"
	WarnFallbacksUsed       = "fallbacks_used"
	WarnAmountOutlier       = "amount_outlier"
	WarnImplausibleTotal    = "implausible_total"
	WarnFeeClassifiedCredit = "fee_classified_as_credit"
)

// madFactor flags amounts beyond this many median absolute deviations.
var madFactor = decimal.NewFromInt(3)

// implausibleTotal is the aggregate absolute amount beyond which a single
// statement is considered suspect.
var implausibleTotal = decimal.NewFromInt(1_000_000)

// QualityFindings runs post-hoc sanity checks over classified transactions:
// MAD outlier detection, an implausible-total check, and a semantic check
// for fee-like descriptions landing in credit types.
func QualityFindings(txns []model.Transaction) []Warning {
	var warnings []Warning

	warnings = append(warnings, outlierFindings(txns)...)

	aggregate := decimal.Zero
	for _, t := range txns {
		aggregate = aggregate.Add(t.Amount.Abs())
	}
	if aggregate.GreaterThan(implausibleTotal) {
		warnings = append(warnings, Warning{
			Code:    WarnImplausibleTotal,
			Message: fmt.Sprintf("aggregate amount %s exceeds 1,000,000; verify column mapping", aggregate.StringFixed(2)),
		})
	}

	for _, t := range txns {
		if (t.Type == model.TypeCredit || t.Type == model.TypeRefund || t.Type == model.TypePayment) &&
			strings.Contains(strings.ToLower(t.Description), "fee") {
			warnings = append(warnings, Warning{
				Code:    WarnFeeClassifiedCredit,
				Message: fmt.Sprintf("%q (%s) classified as %s; fees are usually money out", t.Description, t.Amount.StringFixed(2), t.Type),
			})
		}
	}

	return warnings
}

// outlierFindings flags transactions whose absolute amount sits more than
// 3×MAD from the median absolute amount.
func outlierFindings(txns []model.Transaction) []Warning {
	if len(txns) < 4 {
		return nil
	}

	abs := make([]decimal.Decimal, len(txns))
	for i, t := range txns {
		abs[i] = t.Amount.Abs()
	}
	med := median(abs)

	devs := make([]decimal.Decimal, len(abs))
	for i, a := range abs {
		devs[i] = a.Sub(med).Abs()
	}
	mad := median(devs)
	if mad.IsZero() {
		return nil
	}

	limit := mad.Mul(madFactor)
	var warnings []Warning
	for i, t := range txns {
		if devs[i].GreaterThan(limit) {
			warnings = append(warnings, Warning{
				Code:    WarnAmountOutlier,
				Message: fmt.Sprintf("%q amount %s deviates more than 3×MAD from the median", t.Description, t.Amount.StringFixed(2)),
			})
		}
	}
	return warnings
}

// median of a copy of values; the input order is preserved.
func median(values []decimal.Decimal) decimal.Decimal {
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return sorted[n/2-1].Add(sorted[n/2]).Div(decimal.NewFromInt(2))
}
