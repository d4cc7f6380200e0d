package qc

import (
	"strconv"
)

// Severity levels in ascending order of importance. The ordering function
// used by FailingMetrics is pluggable, but this is the default scale.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
	SeverityFatal   = "fatal"
)

var defaultSeverityRank = map[string]int{
	SeverityInfo:    0,
	SeverityWarning: 1,
	SeverityError:   2,
	SeverityFatal:   3,
}

// DefaultSeverityRank orders severities on the info < warning < error <
// fatal scale. Unknown severities rank below info.
func DefaultSeverityRank(severity string) int {
	if rank, ok := defaultSeverityRank[severity]; ok {
		return rank
	}
	return -1
}

// Metric is one named quality measurement over a batch. Producers create
// it; the registry mutates it exactly once by merging the resolved policy
// and re-evaluating Passed against the numeric bounds.
type Metric struct {
	Name         string         `json:"name"`
	Value        any            `json:"value"`
	Passed       bool           `json:"passed"`
	Severity     string         `json:"severity"`
	FailSeverity string         `json:"fail_severity,omitempty"`
	Threshold    *float64       `json:"threshold,omitempty"`
	Min          *float64       `json:"threshold_min,omitempty"`
	Max          *float64       `json:"threshold_max,omitempty"`
	Count        int            `json:"count,omitempty"`
	Details      []string       `json:"details,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// EffectiveSeverity is the severity used by the batch gate: FailSeverity
// when set, otherwise Severity.
func (m *Metric) EffectiveSeverity() string {
	if m.FailSeverity != "" {
		return m.FailSeverity
	}
	return m.Severity
}

// numericValue extracts the metric's value as a float64, accepting numeric
// types and numeric-parseable strings.
func (m *Metric) numericValue() (float64, bool) {
	switch v := m.Value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// reevaluate forces Passed to false when the numeric value violates the
// merged bounds. Non-numeric values keep the producer's verdict.
func (m *Metric) reevaluate() {
	v, ok := m.numericValue()
	if !ok {
		return
	}
	if m.Max != nil && v > *m.Max {
		m.Passed = false
	}
	if m.Min != nil && v < *m.Min {
		m.Passed = false
	}
	if m.Threshold != nil && v > *m.Threshold {
		m.Passed = false
	}
}
