package classify

import (
	"regexp"
	"strings"

	"github.com/ledgerscan-dev/ledgerscan/internal/model"
)

// checkEvidenceRe matches explicit check references in descriptions,
// e.g. "CHECK #1042" or "check 33".
var checkEvidenceRe = regexp.MustCompile(`(?i)\bcheck\s*#?\s*\d+\b`)

// Keyword families. Matched by substring against lower-cased text.
var (
	cashCreditWords = []string{"credit", "deposit", "payment"}
	cashCheckWords  = []string{"check", "cheque"}
	cashDebitWords  = []string{"debit", "purchase", "withdrawal"}

	ccPaymentWords = []string{"payment", "autopay", "thank you", "bill pay"}
	ccRefundWords  = []string{"refund", "return", "reversal"}
	ccChargeWords  = []string{"purchase", "charge", "fee", "interest"}
)

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// cashType resolves a transaction type under the cash policy. Resolution
// order: explicit type column, check evidence (a non-empty check-number
// column or a check reference in the description), then sign of the amount
// (negative amounts are credits in cash-style exports that list withdrawals
// as positive debits).
func cashType(r rowValues) model.TxType {
	hint := strings.ToLower(r.TypeHint)
	if hint != "" {
		switch {
		case containsAny(hint, cashCheckWords):
			return model.TypeCheck
		case containsAny(hint, cashCreditWords):
			return model.TypeCredit
		case containsAny(hint, cashDebitWords):
			return model.TypeDebit
		}
	}
	if hasCheckEvidence(r) {
		return model.TypeCheck
	}
	if r.Amount.IsNegative() {
		return model.TypeCredit
	}
	return model.TypeDebit
}

// creditType resolves a transaction type under the credit-card policy,
// which classifies by keyword family instead of sign.
func creditType(r rowValues) model.TxType {
	text := strings.ToLower(r.Description + " " + r.TypeHint)
	switch {
	case containsAny(text, ccPaymentWords):
		return model.TypePayment
	case containsAny(text, ccRefundWords):
		return model.TypeRefund
	case r.Amount.IsPositive() && strings.Contains(text, "credit"):
		return model.TypeRefund
	case r.Amount.IsNegative() || containsAny(text, ccChargeWords):
		return model.TypeCharge
	default:
		return model.TypeCharge
	}
}

// hasCheckEvidence reports whether the row names a specific check: either
// the dedicated check-number column is non-empty or the description carries
// a check reference.
func hasCheckEvidence(r rowValues) bool {
	return strings.TrimSpace(r.CheckNumber) != "" || checkEvidenceRe.MatchString(r.Description)
}

// cashSignal reports whether the row carries an unambiguous cash-policy
// signal: a recognized type keyword or check evidence agreeing with the
// signed amount.
func cashSignal(r rowValues) bool {
	hint := strings.ToLower(r.TypeHint)
	if containsAny(hint, cashCheckWords) || containsAny(hint, cashDebitWords) || containsAny(hint, cashCreditWords) {
		return true
	}
	return hasCheckEvidence(r)
}

// creditSignal reports whether the row carries an unambiguous credit-card
// keyword (payment, refund, or charge family).
func creditSignal(r rowValues) bool {
	text := strings.ToLower(r.Description + " " + r.TypeHint)
	return containsAny(text, ccPaymentWords) ||
		containsAny(text, ccRefundWords) ||
		containsAny(text, ccChargeWords)
}

// signalFraction is the share of rows exhibiting a policy's signals.
func signalFraction(rows []rowValues, signal func(rowValues) bool) float64 {
	if len(rows) == 0 {
		return 0
	}
	hits := 0
	for _, r := range rows {
		if signal(r) {
			hits++
		}
	}
	return float64(hits) / float64(len(rows))
}
