package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Policy is the classification vocabulary applied to a statement.
type Policy string

const (
	// PolicyCash classifies by amount sign: debits, credits, checks.
	PolicyCash Policy = "cash"
	// PolicyCredit classifies by keyword family: charges, payments, refunds.
	PolicyCredit Policy = "credit"
	// PolicyUnknown means no policy could be resolved.
	PolicyUnknown Policy = "unknown"
)

// TxType is a transaction type drawn from exactly one policy's vocabulary.
type TxType string

// Cash-policy types.
const (
	TypeDebit  TxType = "debits"
	TypeCredit TxType = "credits"
	TypeCheck  TxType = "checks"
)

// Credit-card-policy types.
const (
	TypeCharge  TxType = "charges"
	TypePayment TxType = "payments"
	TypeRefund  TxType = "refunds"
)

// Transaction is one classified statement row. Immutable once built.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // signed; negative = money out in most exports
	Type        TxType
	RawDate     string // original date cell text
	RawAmount   string // original amount cell text
}
