package encode

import "sort"

// Diagnostics accumulates recoverable anomalies seen during one batch so a
// single pass surfaces the complete set instead of failing on the first.
// Owned by one encoding run; not safe for concurrent use.
type Diagnostics struct {
	unknownRelations map[string]int
	unknownUnits     map[string]int
}

// NewDiagnostics returns an empty collector.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{
		unknownRelations: make(map[string]int),
		unknownUnits:     make(map[string]int),
	}
}

// UnknownRelation records a relation operator that failed the whitelist.
func (d *Diagnostics) UnknownRelation(value string) {
	d.unknownRelations[value]++
}

// UnknownUnit records an unrecognized unit value.
func (d *Diagnostics) UnknownUnit(value string) {
	d.unknownUnits[value]++
}

// UnknownRelations returns the distinct unknown relation values, sorted.
func (d *Diagnostics) UnknownRelations() []string {
	return sortedKeys(d.unknownRelations)
}

// UnknownUnits returns the distinct unknown unit values, sorted.
func (d *Diagnostics) UnknownUnits() []string {
	return sortedKeys(d.unknownUnits)
}

// UnknownRelationCount returns the total number of unknown relation
// occurrences across the batch.
func (d *Diagnostics) UnknownRelationCount() int {
	total := 0
	for _, n := range d.unknownRelations {
		total += n
	}
	return total
}

// UnknownUnitCount returns the total number of unknown unit occurrences
// across the batch.
func (d *Diagnostics) UnknownUnitCount() int {
	total := 0
	for _, n := range d.unknownUnits {
		total += n
	}
	return total
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
