package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/ledgerscan-dev/ledgerscan/internal/model"
)

// sampleSize caps the transactions embedded in a contract.
const sampleSize = 5

// Thresholds below which confidence warnings fire. Tunable via config.
type Thresholds struct {
	LowPolicyConfidence float64
	LowTableConfidence  float64
}

// DefaultThresholds mirrors config.Default.
func DefaultThresholds() Thresholds {
	return Thresholds{LowPolicyConfidence: 0.5, LowTableConfidence: 0.6}
}

// FileMeta describes the analyzed input.
type FileMeta struct {
	Name            string `json:"name"`
	TotalLines      int    `json:"total_lines"`
	MeaningfulLines int    `json:"meaningful_lines"`
}

// Contract is the diagnostic record describing what one run inferred and
// with what confidence. It is safe to log or hand to a UI as-is.
type Contract struct {
	File        FileMeta            `json:"file"`
	GeneratedAt time.Time           `json:"generated_at"`
	Flags       model.ParsingFlags  `json:"flags"`
	Counts      model.Counts        `json:"counts"`
	Monthly     []MonthGroup        `json:"monthly"`
	Sample      []model.Transaction `json:"sample"`
	Warnings    []Warning           `json:"warnings,omitempty"`
}

// Build assembles the output contract for a finished run, combining file
// metadata, the flags snapshot, aggregates, a capped transaction sample,
// and all structural plus quality warnings.
func Build(meta FileMeta, flags model.ParsingFlags, txns []model.Transaction, policy model.Policy, th Thresholds) Contract {
	sample := txns
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}

	c := Contract{
		File:        meta,
		GeneratedAt: time.Now().UTC(),
		Flags:       flags,
		Counts:      OverallTotals(txns, policy),
		Monthly:     GroupByMonth(txns, policy),
		Sample:      sample,
	}

	if flags.RowDriftBlocked {
		c.Warnings = append(c.Warnings, Warning{
			Code:    WarnRowDrift,
			Message: "row structure changed mid-parse; results come from a fallback tier",
		})
	}
	if len(txns) > 0 && flags.PolicyConfidence < th.LowPolicyConfidence {
		c.Warnings = append(c.Warnings, Warning{
			Code:    WarnLowPolicyConfidence,
			Message: fmt.Sprintf("policy confidence %.2f below %.2f; transaction types may be unreliable", flags.PolicyConfidence, th.LowPolicyConfidence),
		})
	}
	if flags.TableConfidence < th.LowTableConfidence {
		c.Warnings = append(c.Warnings, Warning{
			Code:    WarnLowTableConfidence,
			Message: fmt.Sprintf("table confidence %.2f below %.2f; column mapping may be wrong", flags.TableConfidence, th.LowTableConfidence),
		})
	}
	if len(flags.UsedFallbacks) > 0 {
		c.Warnings = append(c.Warnings, Warning{
			Code:    WarnFallbacksUsed,
			Message: "parsing degraded through fallback tiers: " + strings.Join(flags.UsedFallbacks, ", "),
		})
	}

	c.Warnings = append(c.Warnings, QualityFindings(txns)...)
	return c
}
