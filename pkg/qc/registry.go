package qc

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/crestline-bio/chemtab/pkg/apperrors"
)

// MetricSummary is the read-only per-metric view exposed after sealing,
// consumed by reporters.
type MetricSummary struct {
	Value        any            `json:"value"`
	Passed       bool           `json:"passed"`
	Severity     string         `json:"severity"`
	FailSeverity string         `json:"fail_severity,omitempty"`
	Threshold    *float64       `json:"threshold,omitempty"`
	ThresholdMin *float64       `json:"threshold_min,omitempty"`
	ThresholdMax *float64       `json:"threshold_max,omitempty"`
	Count        int            `json:"count,omitempty"`
	Details      []string       `json:"details,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// Registry collects metrics for one batch evaluation. Each metric is merged
// with its resolved policy and re-evaluated as it is added. Sealing makes
// the summary views available and rejects further additions. A registry is
// owned by the single batch evaluation that created it and is not safe for
// concurrent use.
type Registry struct {
	policies map[string]*Policy
	metrics  []*Metric
	byName   map[string]*Metric
	sealed   bool
	logger   *zap.Logger
}

// NewRegistry creates a collecting registry with the given per-metric
// policies. A nil policies map means every metric keeps its producer
// verdict.
func NewRegistry(policies map[string]*Policy, logger *zap.Logger) *Registry {
	return &Registry{
		policies: policies,
		byName:   make(map[string]*Metric),
		logger:   logger,
	}
}

// Add registers a metric, merging its configured policy and re-evaluating
// the pass verdict against the merged numeric bounds. Adding to a sealed
// registry is an error.
func (r *Registry) Add(m *Metric) error {
	if r.sealed {
		return fmt.Errorf("%w: cannot add metric %q", apperrors.ErrRegistrySealed, m.Name)
	}
	if m.Name == "" {
		return fmt.Errorf("metric has no name")
	}
	if _, exists := r.byName[m.Name]; exists {
		return fmt.Errorf("metric %q already registered", m.Name)
	}

	if policy := r.policies[m.Name]; policy != nil {
		policy.merge(m)
	}
	m.reevaluate()

	if !m.Passed {
		r.logger.Warn("QC metric failed",
			zap.String("metric", m.Name),
			zap.Any("value", m.Value),
			zap.String("severity", m.EffectiveSeverity()))
	}

	r.metrics = append(r.metrics, m)
	r.byName[m.Name] = m
	return nil
}

// Seal transitions the registry to its read-only state.
func (r *Registry) Seal() {
	r.sealed = true
}

// Sealed reports whether the registry accepts further metrics.
func (r *Registry) Sealed() bool {
	return r.sealed
}

// Get returns the registered metric with the given name, if any.
func (r *Registry) Get(name string) (*Metric, bool) {
	m, ok := r.byName[name]
	return m, ok
}

// Summary returns the per-metric view keyed by metric name.
func (r *Registry) Summary() map[string]MetricSummary {
	out := make(map[string]MetricSummary, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name] = MetricSummary{
			Value:        m.Value,
			Passed:       m.Passed,
			Severity:     m.Severity,
			FailSeverity: m.FailSeverity,
			Threshold:    m.Threshold,
			ThresholdMin: m.Min,
			ThresholdMax: m.Max,
			Count:        m.Count,
			Details:      m.Details,
			Metadata:     m.Metadata,
		}
	}
	return out
}

// FailingMetrics returns every metric that failed with an effective
// severity at or above the threshold under the given ordering. A non-empty
// result fails the batch. Results are sorted by name for stable reports.
func (r *Registry) FailingMetrics(severityThreshold string, rank func(string) int) []*Metric {
	if rank == nil {
		rank = DefaultSeverityRank
	}
	minRank := rank(severityThreshold)

	var failing []*Metric
	for _, m := range r.metrics {
		if !m.Passed && rank(m.EffectiveSeverity()) >= minRank {
			failing = append(failing, m)
		}
	}
	sort.Slice(failing, func(i, j int) bool { return failing[i].Name < failing[j].Name })
	return failing
}

// Passed reports the batch-level gate: true when no metric fails at or
// above the severity threshold.
func (r *Registry) Passed(severityThreshold string, rank func(string) int) bool {
	return len(r.FailingMetrics(severityThreshold, rank)) == 0
}
