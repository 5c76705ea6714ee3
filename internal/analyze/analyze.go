// Package analyze assembles the full statement pipeline and wraps it in the
// tiered recovery chain. The Analyzer never returns an error to the caller:
// when every tier fails it hands back an explicit empty result and leaves
// quality assessment to whoever reads the contract.
package analyze

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ledgerscan-dev/ledgerscan/internal/classify"
	"github.com/ledgerscan-dev/ledgerscan/internal/integrity"
	"github.com/ledgerscan-dev/ledgerscan/internal/mapping"
	"github.com/ledgerscan-dev/ledgerscan/internal/model"
	"github.com/ledgerscan-dev/ledgerscan/internal/tokenize"
)

// errNoParseableRows marks a mapping whose data rows all failed value
// parsing; the orchestrator escalates past it.
var errNoParseableRows = errors.New("column mapping yielded no parseable rows")

// Options carries the tunable knobs of the recovery chain.
type Options struct {
	StrictFuzzyDistance     int
	RelaxedFuzzyDistance    int
	MinimalPatternScore     float64
	DegradedTableConfidence float64
	Locale                  string
}

// DefaultOptions returns the standard tier configuration.
func DefaultOptions() Options {
	return Options{
		StrictFuzzyDistance:     1,
		RelaxedFuzzyDistance:    4,
		MinimalPatternScore:     0.05,
		DegradedTableConfidence: 0.25,
		Locale:                  "auto",
	}
}

// Result is the complete outcome of analyzing one file. Failure records the
// terminal error category when all tiers were exhausted; the rest of the
// fields are valid (and empty) regardless.
type Result struct {
	Transactions      []model.Transaction
	Counts            model.Counts
	Policy            model.Policy
	Flags             model.ParsingFlags
	Mapping           model.ColumnMapping
	RowsParsed        int
	RowsDropped       int
	DuplicatesRemoved int
	PendingDropped    int
	Failure           error
}

// Analyzer runs the pipeline. One Analyzer may be reused across files, but a
// single run owns all of its state; concurrent files need separate calls,
// not separate Analyzers.
type Analyzer struct {
	hint model.Policy
	opts Options
	log  zerolog.Logger
}

// New creates an Analyzer. hint short-circuits dual-policy inference when it
// names a concrete policy.
func New(hint model.Policy, opts Options, log zerolog.Logger) *Analyzer {
	return &Analyzer{hint: hint, opts: opts, log: log}
}

// tierSpec is one level of the recovery chain: a named, total strategy.
// Tiers differ only by data, never by swapped-in behavior.
type tierSpec struct {
	name    string
	mapOpts mapping.Options
	minimal bool
}

func (a *Analyzer) tiers() []tierSpec {
	return []tierSpec{
		{
			name:    "strict",
			mapOpts: mapping.Options{FuzzyThreshold: a.opts.StrictFuzzyDistance},
		},
		{
			name: "relaxed",
			mapOpts: mapping.Options{
				FuzzyThreshold: a.opts.RelaxedFuzzyDistance,
				BroadSubstring: true,
			},
		},
		{
			name:    "pattern",
			mapOpts: mapping.Options{PatternOnly: true},
		},
		{
			name: "minimal",
			mapOpts: mapping.Options{
				PatternOnly:     true,
				MinPatternScore: a.opts.MinimalPatternScore,
			},
			minimal: true,
		},
	}
}

// Analyze runs the tiers in order until one produces a result. All state is
// scoped to this call.
func (a *Analyzer) Analyze(lines []string) *Result {
	flags := model.ParsingFlags{
		RunID:  uuid.NewString(),
		Locale: a.opts.Locale,
	}

	var lastErr error
	for _, tier := range a.tiers() {
		res, err := a.runTier(lines, tier, &flags)
		if err == nil {
			res.Flags = flags
			return res
		}
		lastErr = err

		if errors.Is(err, mapping.ErrInsufficientData) {
			// Fatal at every tier; escalating cannot conjure rows.
			break
		}
		flags.MarkFallback(tier.name)
		a.log.Warn().Err(err).Str("tier", tier.name).Msg("tier failed, escalating")
	}

	// Exhausted: explicit empty result instead of an error.
	flags.TableConfidence = 0
	return &Result{
		Policy:  model.PolicyUnknown,
		Counts:  model.Counts{ActivePolicy: model.PolicyUnknown},
		Flags:   flags,
		Failure: lastErr,
	}
}

// runTier executes one full pass: map columns, guard row structure, parse
// and classify. Structural failures return an error for the orchestrator to
// escalate; per-row failures are absorbed by the classifier.
func (a *Analyzer) runTier(lines []string, tier tierSpec, flags *model.ParsingFlags) (*Result, error) {
	mapped, err := mapping.MapColumns(lines, tier.mapOpts)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, len(lines))
	for i, line := range lines {
		rows[i] = tokenize.Line(line)
	}

	// The guard brackets the classification stage. Today nothing between
	// the snapshots rewrites rows, so drift here means a real regression.
	before := integrity.Fingerprint(rows)

	hint := a.hint
	if tier.minimal {
		hint = model.PolicyUnknown
	}
	outcome := classify.New(hint, a.log).Run(rows, mapped.Mapping)

	after := integrity.Fingerprint(rows)
	if err := integrity.AssertStable(before, after, "classify"); err != nil {
		flags.RowDriftBlocked = true
		return nil, err
	}

	// Tier-level quality gate: a mapping that parses nothing is treated as
	// a wrong mapping, not an empty statement. The minimal tier accepts it.
	if !tier.minimal && outcome.RowsParsed == 0 {
		return nil, errNoParseableRows
	}

	policy := outcome.Policy
	tableConfidence := mapped.Confidence
	if tier.minimal {
		policy = model.PolicyUnknown
		tableConfidence = a.opts.DegradedTableConfidence
	}

	flags.TableConfidence = tableConfidence
	flags.PolicyConfidence = outcome.PolicyConfidence

	txns := outcome.Transactions
	counts := model.CountTransactions(txns, policy)

	return &Result{
		Transactions:      txns,
		Counts:            counts,
		Policy:            policy,
		Mapping:           mapped.Mapping,
		RowsParsed:        outcome.RowsParsed,
		RowsDropped:       outcome.RowsDropped,
		DuplicatesRemoved: outcome.DuplicatesRemoved,
		PendingDropped:    outcome.PendingDropped,
	}, nil
}
