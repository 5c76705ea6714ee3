package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerscan-dev/ledgerscan/internal/analyze"
	"github.com/ledgerscan-dev/ledgerscan/internal/config"
	"github.com/ledgerscan-dev/ledgerscan/internal/input"
	"github.com/ledgerscan-dev/ledgerscan/internal/logging"
	"github.com/ledgerscan-dev/ledgerscan/internal/model"
	"github.com/ledgerscan-dev/ledgerscan/internal/report"
	"github.com/ledgerscan-dev/ledgerscan/internal/runlog"
	"github.com/ledgerscan-dev/ledgerscan/internal/tokenize"
)

func newAnalyzeCommand() *cobra.Command {
	var accountType string
	var configPath string
	var exportPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Infer columns and classify transactions in a statement export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], accountType, configPath, exportPath, asJSON)
		},
	}

	cmd.Flags().StringVar(&accountType, "account-type", "", "cash, credit, or unknown (default: from config)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to ledgerscan.yaml")
	cmd.Flags().StringVar(&exportPath, "export", "", "write normalized transactions CSV to this path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full output contract as JSON")

	return cmd
}

func runAnalyze(cmd *cobra.Command, file, accountType, configPath, exportPath string, asJSON bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	hint, err := resolveHint(accountType, cfg)
	if err != nil {
		return err
	}

	lines, err := readLines(file)
	if err != nil {
		return err
	}

	log := logging.New(cfg.Log.Level)
	analyzer := analyze.New(hint, analyzerOptions(cfg), log)
	result := analyzer.Analyze(lines)

	meaningful := 0
	for _, line := range lines {
		if tokenize.Meaningful(line) {
			meaningful++
		}
	}
	meta := report.FileMeta{
		Name:            filepath.Base(file),
		TotalLines:      len(lines),
		MeaningfulLines: meaningful,
	}
	contract := report.Build(meta, result.Flags, result.Transactions, result.Policy, report.Thresholds{
		LowPolicyConfidence: cfg.Confidence.LowPolicyWarn,
		LowTableConfidence:  cfg.Confidence.LowTableWarn,
	})

	if exportPath != "" {
		if err := exportTransactions(exportPath, result); err != nil {
			return err
		}
	}

	if err := appendRunLog(meta, result); err != nil {
		log.Warn().Err(err).Msg("could not append run log")
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(contract)
	}
	printSummary(cmd, meta, result, contract)
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg, err := config.Load("ledgerscan.yaml")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func resolveHint(flag string, cfg *config.Config) (model.Policy, error) {
	raw := flag
	if raw == "" {
		raw = cfg.Account.Type
	}
	switch raw {
	case "", "unknown":
		return model.PolicyUnknown, nil
	case "cash":
		return model.PolicyCash, nil
	case "credit":
		return model.PolicyCredit, nil
	default:
		return "", fmt.Errorf("invalid account type %q: want cash, credit, or unknown", raw)
	}
}

func analyzerOptions(cfg *config.Config) analyze.Options {
	opts := analyze.DefaultOptions()
	if cfg.Tiers.StrictFuzzyDistance > 0 {
		opts.StrictFuzzyDistance = cfg.Tiers.StrictFuzzyDistance
	}
	if cfg.Tiers.RelaxedFuzzyDistance > 0 {
		opts.RelaxedFuzzyDistance = cfg.Tiers.RelaxedFuzzyDistance
	}
	if cfg.Tiers.MinimalPatternScore > 0 {
		opts.MinimalPatternScore = cfg.Tiers.MinimalPatternScore
	}
	if cfg.Confidence.DegradedTable > 0 {
		opts.DegradedTableConfidence = cfg.Confidence.DegradedTable
	}
	if cfg.Locale != "" {
		opts.Locale = cfg.Locale
	}
	return opts
}

func readLines(file string) ([]string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", file, err)
	}
	defer f.Close()

	reader := input.DefaultRegistry().ForPath(file)
	lines, err := reader.Rows(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}
	return lines, nil
}

func exportTransactions(path string, result *analyze.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := report.WriteTransactionsCSV(f, result.Transactions); err != nil {
		return fmt.Errorf("exporting transactions: %w", err)
	}
	return nil
}

func appendRunLog(meta report.FileMeta, result *analyze.Result) error {
	fallbacks := ""
	for i, name := range result.Flags.UsedFallbacks {
		if i > 0 {
			fallbacks += ";"
		}
		fallbacks += name
	}
	return runlog.Append(".", []runlog.Entry{{
		Timestamp:        time.Now().UTC(),
		RunID:            result.Flags.RunID,
		FileName:         meta.Name,
		RowsParsed:       result.RowsParsed,
		Transactions:     len(result.Transactions),
		Policy:           string(result.Policy),
		PolicyConfidence: result.Flags.PolicyConfidence,
		TableConfidence:  result.Flags.TableConfidence,
		Fallbacks:        fallbacks,
	}})
}

func printSummary(cmd *cobra.Command, meta report.FileMeta, result *analyze.Result, contract report.Contract) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s: %d lines, %d meaningful\n", meta.Name, meta.TotalLines, meta.MeaningfulLines)
	fmt.Fprintf(out, "policy: %s (confidence %.2f, table %.2f)\n",
		result.Policy, result.Flags.PolicyConfidence, result.Flags.TableConfidence)

	c := contract.Counts
	switch result.Policy {
	case model.PolicyCredit:
		fmt.Fprintf(out, "transactions: %d (%d charges, %d payments, %d refunds)\n",
			c.Total, c.Charges, c.Payments, c.Refunds)
	default:
		fmt.Fprintf(out, "transactions: %d (%d debits, %d credits, %d checks)\n",
			c.Total, c.Debits, c.Credits, c.Checks)
	}
	if result.RowsDropped > 0 || result.DuplicatesRemoved > 0 || result.PendingDropped > 0 {
		fmt.Fprintf(out, "dropped: %d unparseable, %d duplicates, %d pending\n",
			result.RowsDropped, result.DuplicatesRemoved, result.PendingDropped)
	}

	for _, m := range contract.Monthly {
		fmt.Fprintf(out, "  %-14s %3d txns  total %s  avg %s\n",
			m.Label, m.Counts.Total, m.Total.StringFixed(2), m.Average.StringFixed(2))
	}
	for _, w := range contract.Warnings {
		fmt.Fprintf(out, "warning [%s]: %s\n", w.Code, w.Message)
	}
}
