package classify

import (
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerscan-dev/ledgerscan/internal/model"
)

func testClassifier(hint model.Policy) *Classifier {
	return New(hint, zerolog.New(io.Discard))
}

func headerMapping() model.ColumnMapping {
	return model.ColumnMapping{
		HeaderRowIndex:   0,
		DateIndex:        0,
		DescriptionIndex: 1,
		AmountIndex:      2,
		TypeIndex:        3,
		CheckNumberIndex: model.NoColumn,
	}
}

func TestRunCashPolicy(t *testing.T) {
	rows := [][]string{
		{"Date", "Description", "Amount", "Type"},
		{"2024-01-01", "Store", "-50.00", "Debit"},
		{"2024-01-02", "Salary", "2500.00", "Credit"},
	}

	out := testClassifier(model.PolicyCash).Run(rows, headerMapping())

	require.Len(t, out.Transactions, 2)
	assert.Equal(t, model.PolicyCash, out.Policy)
	assert.Equal(t, model.TypeDebit, out.Transactions[0].Type)
	assert.Equal(t, model.TypeCredit, out.Transactions[1].Type)
	assert.Equal(t, 2, out.RowsParsed)
	assert.Equal(t, 0, out.RowsDropped)

	counts := model.CountTransactions(out.Transactions, out.Policy)
	assert.Equal(t, 1, counts.Debits)
	assert.Equal(t, 1, counts.Credits)
	assert.Equal(t, 2, counts.Total)
}

func TestCheckEvidenceOverridesSign(t *testing.T) {
	mapping := model.ColumnMapping{
		HeaderRowIndex:   0,
		DateIndex:        0,
		DescriptionIndex: 1,
		AmountIndex:      2,
		TypeIndex:        model.NoColumn,
		CheckNumberIndex: model.NoColumn,
	}
	rows := [][]string{
		{"Date", "Description", "Debit", "Credit", "Check#"},
		{"2024-01-01", "Check #1001", "-50.00", "0", "1001"},
	}

	out := testClassifier(model.PolicyCash).Run(rows, mapping)
	require.Len(t, out.Transactions, 1)
	assert.Equal(t, model.TypeCheck, out.Transactions[0].Type)
}

func TestCheckNumberColumnEvidence(t *testing.T) {
	// The description names no check; the dedicated column alone decides.
	mapping := model.ColumnMapping{
		HeaderRowIndex:   0,
		DateIndex:        0,
		DescriptionIndex: 1,
		AmountIndex:      2,
		TypeIndex:        model.NoColumn,
		CheckNumberIndex: 3,
	}
	rows := [][]string{
		{"Date", "Description", "Amount", "Check Number"},
		{"2024-01-01", "ACME Properties", "-850.00", "1042"},
		{"2024-01-02", "Grocery Store", "-45.00", ""},
	}

	out := testClassifier(model.PolicyCash).Run(rows, mapping)

	require.Len(t, out.Transactions, 2)
	assert.Equal(t, model.TypeCheck, out.Transactions[0].Type)
	// Empty check cell falls through to the sign default.
	assert.Equal(t, model.TypeCredit, out.Transactions[1].Type)
}

func TestTypeColumnBeatsDescription(t *testing.T) {
	rows := [][]string{
		{"Date", "Description", "Amount", "Type"},
		{"2024-01-01", "Check #22 reversal", "-10.00", "Deposit"},
	}

	out := testClassifier(model.PolicyCash).Run(rows, headerMapping())
	require.Len(t, out.Transactions, 1)
	assert.Equal(t, model.TypeCredit, out.Transactions[0].Type)
}

func TestRunCreditPolicy(t *testing.T) {
	rows := [][]string{
		{"Date", "Description", "Amount", "Type"},
		{"2024-01-05", "AUTOPAY PAYMENT - THANK YOU", "250.00", ""},
		{"2024-01-06", "Amazon purchase", "-42.10", ""},
		{"2024-01-07", "Refund: returned shoes", "19.99", ""},
		{"2024-01-08", "Interest charge", "-3.02", ""},
	}

	out := testClassifier(model.PolicyCredit).Run(rows, headerMapping())

	require.Len(t, out.Transactions, 4)
	assert.Equal(t, model.TypePayment, out.Transactions[0].Type)
	assert.Equal(t, model.TypeCharge, out.Transactions[1].Type)
	assert.Equal(t, model.TypeRefund, out.Transactions[2].Type)
	assert.Equal(t, model.TypeCharge, out.Transactions[3].Type)
}

func TestCreditPolicyPositiveCreditKeyword(t *testing.T) {
	rows := [][]string{
		{"Date", "Description", "Amount", "Type"},
		{"2024-01-09", "Statement credit", "25.00", ""},
	}

	out := testClassifier(model.PolicyCredit).Run(rows, headerMapping())
	require.Len(t, out.Transactions, 1)
	assert.Equal(t, model.TypeRefund, out.Transactions[0].Type)
}

func TestPolicySelectionPrefersCreditKeywords(t *testing.T) {
	rows := [][]string{
		{"Date", "Description", "Amount", "Type"},
		{"2024-01-05", "AUTOPAY PAYMENT - THANK YOU", "250.00", ""},
		{"2024-01-06", "Refund: returned shoes", "19.99", ""},
		{"2024-01-07", "Interest charge", "-3.02", ""},
	}

	out := testClassifier(model.PolicyUnknown).Run(rows, headerMapping())
	assert.Equal(t, model.PolicyCredit, out.Policy)
	assert.Equal(t, 1.0, out.PolicyConfidence)
}

func TestPolicySelectionTieFavorsCash(t *testing.T) {
	// No policy-specific signals at all: both score zero, cash wins.
	rows := [][]string{
		{"Date", "Description", "Amount", "Type"},
		{"2024-01-05", "Store", "-50.00", ""},
	}

	out := testClassifier(model.PolicyUnknown).Run(rows, headerMapping())
	assert.Equal(t, model.PolicyCash, out.Policy)
	assert.Equal(t, 0.0, out.PolicyConfidence)
}

func TestDeduplication(t *testing.T) {
	rows := [][]string{
		{"Date", "Description", "Amount", "Type"},
		{"2024-01-01", "Duplicate", "-50.00", "Debit"},
		{"2024-01-01", "Duplicate", "-50.00", "Debit"},
		{"2024-01-02", "Unique", "-10.00", "Debit"},
	}

	out := testClassifier(model.PolicyCash).Run(rows, headerMapping())

	assert.Equal(t, 3, out.RowsParsed)
	assert.Equal(t, 1, out.DuplicatesRemoved)
	require.Len(t, out.Transactions, 2)
}

func TestDeduplicationIdempotent(t *testing.T) {
	rows := [][]string{
		{"Date", "Description", "Amount", "Type"},
		{"2024-01-01", "A", "-50.00", "Debit"},
		{"2024-01-02", "B", "-10.00", "Debit"},
	}

	first := testClassifier(model.PolicyCash).Run(rows, headerMapping())
	second := testClassifier(model.PolicyCash).Run(rows, headerMapping())
	assert.Equal(t, first.Transactions, second.Transactions)
	assert.Equal(t, 0, first.DuplicatesRemoved)
}

func TestPendingDroppedWhenPostedPresent(t *testing.T) {
	rows := [][]string{
		{"Date", "Description", "Amount", "Type"},
		{"2024-01-01", "Coffee (pending)", "-4.50", "Debit"},
		{"2024-01-01", "Coffee posted", "-4.50", "Debit"},
		{"2024-01-02", "Books", "-22.00", "Debit"},
	}

	out := testClassifier(model.PolicyCash).Run(rows, headerMapping())
	assert.Equal(t, 1, out.PendingDropped)
	require.Len(t, out.Transactions, 2)
}

func TestPendingKeptWithoutPostedMarkers(t *testing.T) {
	rows := [][]string{
		{"Date", "Description", "Amount", "Type"},
		{"2024-01-01", "Coffee (pending)", "-4.50", "Debit"},
		{"2024-01-02", "Books", "-22.00", "Debit"},
	}

	out := testClassifier(model.PolicyCash).Run(rows, headerMapping())
	assert.Equal(t, 0, out.PendingDropped)
	require.Len(t, out.Transactions, 2)
}

func TestUnparseableRowsDroppedNotFatal(t *testing.T) {
	rows := [][]string{
		{"Date", "Description", "Amount", "Type"},
		{"not a date", "Store", "-50.00", "Debit"},
		{"2024-01-02", "Books", "garbage", "Debit"},
		{"2024-01-03", "Cafe", "-3.00", "Debit"},
	}

	out := testClassifier(model.PolicyCash).Run(rows, headerMapping())
	assert.Equal(t, 2, out.RowsDropped)
	require.Len(t, out.Transactions, 1)
	assert.Equal(t, "Cafe", out.Transactions[0].Description)
}

func TestRawValuesPreserved(t *testing.T) {
	rows := [][]string{
		{"Date", "Description", "Amount", "Type"},
		{"01/15/2024", "Store", "1.234,56", "Debit"},
	}

	out := testClassifier(model.PolicyCash).Run(rows, headerMapping())
	require.Len(t, out.Transactions, 1)
	tx := out.Transactions[0]
	assert.Equal(t, "01/15/2024", tx.RawDate)
	assert.Equal(t, "1.234,56", tx.RawAmount)
	assert.Equal(t, "1234.56", tx.Amount.String())
}
