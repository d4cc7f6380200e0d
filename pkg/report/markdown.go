package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/crestline-bio/chemtab/pkg/encode"
	"github.com/crestline-bio/chemtab/pkg/qc"
)

// Markdown renders a sealed QC summary as a Markdown report: one table row
// per metric plus a diagnostics section for batch anomalies.
func Markdown(title string, summary map[string]qc.MetricSummary, diags *encode.Diagnostics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# QC Report: %s\n\n", title)
	b.WriteString("| Metric | Value | Passed | Severity | Bounds |\n")
	b.WriteString("|---|---|---|---|---|\n")

	names := make([]string, 0, len(summary))
	for name := range summary {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m := summary[name]
		status := "pass"
		if !m.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "| %s | %v | %s | %s | %s |\n",
			name, m.Value, status, m.Severity, bounds(m))
	}

	if diags != nil {
		if unknown := diags.UnknownRelations(); len(unknown) > 0 {
			b.WriteString("\n## Unknown relation operators\n\n")
			for _, v := range unknown {
				fmt.Fprintf(&b, "- `%s`\n", v)
			}
		}
		if unknown := diags.UnknownUnits(); len(unknown) > 0 {
			b.WriteString("\n## Unknown units\n\n")
			for _, v := range unknown {
				fmt.Fprintf(&b, "- `%s`\n", v)
			}
		}
	}

	return b.String()
}

func bounds(m qc.MetricSummary) string {
	var parts []string
	if m.ThresholdMin != nil {
		parts = append(parts, fmt.Sprintf("min=%g", *m.ThresholdMin))
	}
	if m.ThresholdMax != nil {
		parts = append(parts, fmt.Sprintf("max=%g", *m.ThresholdMax))
	}
	if m.Threshold != nil {
		parts = append(parts, fmt.Sprintf("threshold=%g", *m.Threshold))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}
