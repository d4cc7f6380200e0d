package qc

import (
	"fmt"

	"github.com/crestline-bio/chemtab/pkg/encode"
	"github.com/crestline-bio/chemtab/pkg/hashing"
)

// Standard metric names produced over a batch of hashed rows.
const (
	MetricRowCount             = "row_count"
	MetricDuplicateKeyRate     = "duplicate_business_key_rate"
	MetricUnknownRelationCount = "unknown_relation_count"
	MetricUnknownUnitCount     = "unknown_unit_count"
)

// NullRateMetricName names the per-column null-rate metric.
func NullRateMetricName(column string) string {
	return fmt.Sprintf("null_rate.%s", column)
}

// RowCountMetric reports the number of rows in the batch. It passes by
// default; a configured min bound turns it into an emptiness gate.
func RowCountMetric(rows []hashing.HashedRow) *Metric {
	return &Metric{
		Name:     MetricRowCount,
		Value:    len(rows),
		Passed:   true,
		Severity: SeverityInfo,
		Count:    len(rows),
	}
}

// NullRateMetric reports the fraction of rows where column is null. The
// producer verdict is pass; policies set the acceptable bound.
func NullRateMetric(rows []hashing.HashedRow, column string) *Metric {
	nulls := 0
	for _, r := range rows {
		v, ok := r.Row[column]
		if !ok || v.Null {
			nulls++
		}
	}
	rate := 0.0
	if len(rows) > 0 {
		rate = float64(nulls) / float64(len(rows))
	}
	return &Metric{
		Name:     NullRateMetricName(column),
		Value:    rate,
		Passed:   true,
		Severity: SeverityWarning,
		Count:    nulls,
	}
}

// DuplicateKeyRateMetric reports the fraction of rows sharing a business
// key hash with an earlier row. Rows without a business key hash are
// ignored. Duplicate hashes are listed in Details.
func DuplicateKeyRateMetric(rows []hashing.HashedRow) *Metric {
	seen := make(map[string]bool)
	var dupes []string
	keyed := 0
	for _, r := range rows {
		if r.BusinessKeyHash == "" {
			continue
		}
		keyed++
		if seen[r.BusinessKeyHash] {
			dupes = append(dupes, r.BusinessKeyHash)
			continue
		}
		seen[r.BusinessKeyHash] = true
	}
	rate := 0.0
	if keyed > 0 {
		rate = float64(len(dupes)) / float64(keyed)
	}
	return &Metric{
		Name:     MetricDuplicateKeyRate,
		Value:    rate,
		Passed:   true,
		Severity: SeverityError,
		Count:    len(dupes),
		Details:  dupes,
	}
}

// UnknownRelationMetric surfaces the encoder's collected relation anomalies
// as a batch metric so the complete distinct set appears in one report.
func UnknownRelationMetric(diags *encode.Diagnostics) *Metric {
	return &Metric{
		Name:     MetricUnknownRelationCount,
		Value:    diags.UnknownRelationCount(),
		Passed:   true,
		Severity: SeverityWarning,
		Count:    diags.UnknownRelationCount(),
		Details:  diags.UnknownRelations(),
	}
}

// UnknownUnitMetric surfaces the encoder's collected unit anomalies the same
// way.
func UnknownUnitMetric(diags *encode.Diagnostics) *Metric {
	return &Metric{
		Name:     MetricUnknownUnitCount,
		Value:    diags.UnknownUnitCount(),
		Passed:   true,
		Severity: SeverityWarning,
		Count:    diags.UnknownUnitCount(),
		Details:  diags.UnknownUnits(),
	}
}
