package model

// ParsingFlags accumulates diagnostics for one analysis run. A fresh value
// is created per run and threaded through the pipeline stages; nothing here
// is shared across runs.
type ParsingFlags struct {
	RunID            string   `json:"run_id"`
	Locale           string   `json:"locale"`
	UsedFallbacks    []string `json:"used_fallbacks,omitempty"`
	TableConfidence  float64  `json:"table_confidence"`
	PolicyConfidence float64  `json:"policy_confidence"`
	RowDriftBlocked  bool     `json:"row_drift_blocked"`
}

// MarkFallback appends a tier name to the fallback trail.
func (f *ParsingFlags) MarkFallback(tier string) {
	f.UsedFallbacks = append(f.UsedFallbacks, tier)
}
