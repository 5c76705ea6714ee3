package model

// Counts is a per-policy aggregate over classified transactions. Only the
// fields belonging to the active policy are populated.
type Counts struct {
	ActivePolicy Policy `json:"active_policy"`
	Total        int    `json:"total"`

	// Cash policy.
	Debits  int `json:"debits,omitempty"`
	Credits int `json:"credits,omitempty"`
	Checks  int `json:"checks,omitempty"`

	// Credit-card policy.
	Charges  int `json:"charges,omitempty"`
	Payments int `json:"payments,omitempty"`
	Refunds  int `json:"refunds,omitempty"`
}

// CountTransactions tallies transactions under the given policy.
func CountTransactions(txns []Transaction, policy Policy) Counts {
	c := Counts{ActivePolicy: policy, Total: len(txns)}
	for _, t := range txns {
		switch t.Type {
		case TypeDebit:
			c.Debits++
		case TypeCredit:
			c.Credits++
		case TypeCheck:
			c.Checks++
		case TypeCharge:
			c.Charges++
		case TypePayment:
			c.Payments++
		case TypeRefund:
			c.Refunds++
		}
	}
	return c
}
