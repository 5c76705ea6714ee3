package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerscan-dev/ledgerscan/internal/model"
)

func tx(date, desc, amount string, typ model.TxType) model.Transaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return model.Transaction{
		Date:        d,
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		Type:        typ,
		RawDate:     date,
		RawAmount:   amount,
	}
}

func TestGroupByMonthSortsAcrossYears(t *testing.T) {
	txns := []model.Transaction{
		tx("2023-12-05", "Gifts", "-120.00", model.TypeDebit),
		tx("2024-01-10", "Groceries", "-50.00", model.TypeDebit),
		tx("2023-02-14", "Dinner", "-80.00", model.TypeDebit),
		tx("2024-01-25", "Salary", "2500.00", model.TypeCredit),
	}

	groups := GroupByMonth(txns, model.PolicyCash)

	require.Len(t, groups, 3)
	// Chronological, not alphabetical: "December" < "February" lexically.
	assert.Equal(t, "2023-02", groups[0].Month)
	assert.Equal(t, "2023-12", groups[1].Month)
	assert.Equal(t, "2024-01", groups[2].Month)
	assert.Equal(t, "February 2023", groups[0].Label)
	assert.Equal(t, "January 2024", groups[2].Label)
}

func TestGroupByMonthTotalsAndAverages(t *testing.T) {
	txns := []model.Transaction{
		tx("2024-03-01", "A", "-10.00", model.TypeDebit),
		tx("2024-03-15", "B", "-20.00", model.TypeDebit),
		tx("2024-03-20", "C", "45.00", model.TypeCredit),
	}

	groups := GroupByMonth(txns, model.PolicyCash)

	require.Len(t, groups, 1)
	g := groups[0]
	assert.Equal(t, "15", g.Total.String())
	assert.Equal(t, "5", g.Average.String())
	assert.Equal(t, 2, g.Counts.Debits)
	assert.Equal(t, 1, g.Counts.Credits)
	assert.Equal(t, 3, g.Counts.Total)
	assert.Equal(t, model.PolicyCash, g.Counts.ActivePolicy)
}

func TestGroupByMonthEmpty(t *testing.T) {
	assert.Empty(t, GroupByMonth(nil, model.PolicyCash))
}

func TestQualityFindingsOutlier(t *testing.T) {
	txns := []model.Transaction{
		tx("2024-01-01", "A", "-10.00", model.TypeDebit),
		tx("2024-01-02", "B", "-12.00", model.TypeDebit),
		tx("2024-01-03", "C", "-11.00", model.TypeDebit),
		tx("2024-01-04", "D", "-13.00", model.TypeDebit),
		tx("2024-01-05", "Wire transfer", "-500.00", model.TypeDebit),
	}

	warnings := QualityFindings(txns)

	require.Len(t, warnings, 1)
	assert.Equal(t, WarnAmountOutlier, warnings[0].Code)
	assert.Contains(t, warnings[0].Message, "Wire transfer")
}

func TestQualityFindingsNoOutliersBelowFour(t *testing.T) {
	txns := []model.Transaction{
		tx("2024-01-01", "A", "-1.00", model.TypeDebit),
		tx("2024-01-02", "B", "-9999.00", model.TypeDebit),
	}
	assert.Empty(t, QualityFindings(txns))
}

func TestQualityFindingsZeroMAD(t *testing.T) {
	// Uniform amounts give MAD 0; the outlier check stands down rather than
	// flagging everything.
	txns := []model.Transaction{
		tx("2024-01-01", "A", "-5.00", model.TypeDebit),
		tx("2024-01-02", "B", "-5.00", model.TypeDebit),
		tx("2024-01-03", "C", "-5.00", model.TypeDebit),
		tx("2024-01-04", "D", "-5.00", model.TypeDebit),
		tx("2024-01-05", "E", "-100.00", model.TypeDebit),
	}
	assert.Empty(t, QualityFindings(txns))
}

func TestQualityFindingsImplausibleTotal(t *testing.T) {
	txns := []model.Transaction{
		tx("2024-01-01", "A", "-600000.00", model.TypeDebit),
		tx("2024-01-02", "B", "500001.00", model.TypeCredit),
	}

	warnings := QualityFindings(txns)

	require.Len(t, warnings, 1)
	assert.Equal(t, WarnImplausibleTotal, warnings[0].Code)
}

func TestQualityFindingsFeeAsCredit(t *testing.T) {
	txns := []model.Transaction{
		tx("2024-01-01", "Monthly service fee", "12.00", model.TypeCredit),
		tx("2024-01-02", "Grocery", "-40.00", model.TypeDebit),
	}

	warnings := QualityFindings(txns)

	require.Len(t, warnings, 1)
	assert.Equal(t, WarnFeeClassifiedCredit, warnings[0].Code)
	assert.Contains(t, warnings[0].Message, "Monthly service fee")
}

func warningCodes(ws []Warning) []string {
	codes := make([]string, len(ws))
	for i, w := range ws {
		codes[i] = w.Code
	}
	return codes
}

func TestBuildCleanRunHasNoWarnings(t *testing.T) {
	flags := model.ParsingFlags{
		RunID:            "run-1",
		TableConfidence:  1.0,
		PolicyConfidence: 1.0,
	}
	txns := []model.Transaction{
		tx("2024-01-01", "Grocery", "-40.00", model.TypeDebit),
		tx("2024-01-02", "Salary", "2500.00", model.TypeCredit),
	}

	c := Build(FileMeta{Name: "in.csv", TotalLines: 3, MeaningfulLines: 3}, flags, txns, model.PolicyCash, DefaultThresholds())

	assert.Empty(t, c.Warnings)
	assert.Equal(t, 2, c.Counts.Total)
	assert.Len(t, c.Monthly, 1)
	assert.Len(t, c.Sample, 2)
	assert.False(t, c.GeneratedAt.IsZero())
	assert.Equal(t, "in.csv", c.File.Name)
}

func TestBuildDegradedRunWarnings(t *testing.T) {
	flags := model.ParsingFlags{
		RunID:            "run-2",
		UsedFallbacks:    []string{"strict", "relaxed"},
		TableConfidence:  0.25,
		PolicyConfidence: 0.1,
		RowDriftBlocked:  true,
	}
	txns := []model.Transaction{
		tx("2024-01-01", "Grocery", "-40.00", model.TypeDebit),
	}

	c := Build(FileMeta{Name: "in.csv"}, flags, txns, model.PolicyCash, DefaultThresholds())

	codes := warningCodes(c.Warnings)
	assert.Contains(t, codes, WarnRowDrift)
	assert.Contains(t, codes, WarnLowPolicyConfidence)
	assert.Contains(t, codes, WarnLowTableConfidence)
	assert.Contains(t, codes, WarnFallbacksUsed)
}

func TestBuildEmptyResultSkipsPolicyWarning(t *testing.T) {
	flags := model.ParsingFlags{RunID: "run-3"}

	c := Build(FileMeta{Name: "in.csv"}, flags, nil, model.PolicyUnknown, DefaultThresholds())

	codes := warningCodes(c.Warnings)
	// No transactions means no types to distrust.
	assert.NotContains(t, codes, WarnLowPolicyConfidence)
	assert.Contains(t, codes, WarnLowTableConfidence)
	assert.Equal(t, 0, c.Counts.Total)
	assert.Empty(t, c.Monthly)
}

func TestBuildCapsSample(t *testing.T) {
	flags := model.ParsingFlags{TableConfidence: 1.0, PolicyConfidence: 1.0}
	var txns []model.Transaction
	for i := 0; i < 8; i++ {
		txns = append(txns, tx("2024-01-01", "A", "-5.00", model.TypeDebit))
	}

	c := Build(FileMeta{}, flags, txns, model.PolicyCash, DefaultThresholds())

	assert.Len(t, c.Sample, 5)
	assert.Equal(t, 8, c.Counts.Total)
}

func TestWriteTransactionsCSV(t *testing.T) {
	txns := []model.Transaction{
		{
			Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Description: "Coffee, twice",
			Amount:      decimal.RequireFromString("-4.50"),
			Type:        model.TypeDebit,
			RawDate:     "01/15/2024",
			RawAmount:   "-4.50",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTransactionsCSV(&buf, txns))

	want := "date,description,amount,type,raw_date,raw_amount\n" +
		"2024-01-15,\"Coffee, twice\",-4.5,debits,01/15/2024,-4.50\n"
	assert.Equal(t, want, buf.String())
}
