package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerscan-dev/ledgerscan/internal/config"
	"github.com/ledgerscan-dev/ledgerscan/internal/model"
	"github.com/ledgerscan-dev/ledgerscan/internal/report"
	"github.com/ledgerscan-dev/ledgerscan/internal/runlog"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(orig); err != nil {
			t.Fatal(err)
		}
	})
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInitCreatesConfigAndLogsDir(t *testing.T) {
	dir := t.TempDir()

	out, err := runCommand(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized")

	assert.FileExists(t, filepath.Join(dir, "ledgerscan.yaml"))
	assert.DirExists(t, filepath.Join(dir, "logs"))

	cfg, err := config.Load(filepath.Join(dir, "ledgerscan.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestInitRefusesExistingConfig(t *testing.T) {
	dir := t.TempDir()

	_, err := runCommand(t, "init", dir)
	require.NoError(t, err)

	_, err = runCommand(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestAnalyzeJSONOutput(t *testing.T) {
	chdir(t, t.TempDir())

	statement := "Date,Description,Amount\n" +
		"2024-01-15,Grocery Store,-50.00\n" +
		"2024-01-20,Salary,2500.00\n"
	path := filepath.Join(".", "statement.csv")
	require.NoError(t, os.WriteFile(path, []byte(statement), 0o644))

	out, err := runCommand(t, "analyze", path, "--account-type", "cash", "--json")
	require.NoError(t, err)

	var contract report.Contract
	require.NoError(t, json.Unmarshal([]byte(out), &contract))
	assert.Equal(t, "statement.csv", contract.File.Name)
	assert.Equal(t, 3, contract.File.TotalLines)
	assert.Equal(t, 2, contract.Counts.Total)
	assert.Equal(t, model.PolicyCash, contract.Counts.ActivePolicy)

	entries, err := runlog.Read(".")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "statement.csv", entries[0].FileName)
	assert.Equal(t, 2, entries[0].Transactions)
}

func TestAnalyzeSummaryAndExport(t *testing.T) {
	chdir(t, t.TempDir())

	statement := "Date,Description,Amount\n2024-01-15,Grocery Store,-50.00\n"
	require.NoError(t, os.WriteFile("statement.csv", []byte(statement), 0o644))

	out, err := runCommand(t, "analyze", "statement.csv",
		"--account-type", "cash", "--export", "normalized.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "policy: cash")
	assert.Contains(t, out, "January 2024")

	data, err := os.ReadFile("normalized.csv")
	require.NoError(t, err)
	assert.Contains(t, string(data), report.ExportHeader)
	assert.Contains(t, string(data), "Grocery Store")
}

func TestAnalyzeMissingFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := runCommand(t, "analyze", "missing.csv")
	require.Error(t, err)
}

func TestAnalyzeInvalidAccountType(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile("statement.csv", []byte("Date,Amount\n2024-01-01,-1.00\n"), 0o644))

	_, err := runCommand(t, "analyze", "statement.csv", "--account-type", "savings")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid account type")
}

func TestResolveHint(t *testing.T) {
	cfg := config.Default()

	hint, err := resolveHint("", cfg)
	require.NoError(t, err)
	assert.Equal(t, model.PolicyUnknown, hint)

	cfg.Account.Type = "credit"
	hint, err = resolveHint("", cfg)
	require.NoError(t, err)
	assert.Equal(t, model.PolicyCredit, hint)

	// Flag overrides config.
	hint, err = resolveHint("cash", cfg)
	require.NoError(t, err)
	assert.Equal(t, model.PolicyCash, hint)
}

func TestAnalyzerOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Tiers.RelaxedFuzzyDistance = 6
	cfg.Locale = "pt"

	opts := analyzerOptions(cfg)
	assert.Equal(t, 6, opts.RelaxedFuzzyDistance)
	assert.Equal(t, "pt", opts.Locale)
	assert.Equal(t, 1, opts.StrictFuzzyDistance)
}
