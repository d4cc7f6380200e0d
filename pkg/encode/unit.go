package encode

import "strings"

// knownUnits is the whitelist of canonical unit spellings, kept verbatim.
var knownUnits = map[string]bool{
	"M":             true,
	"mM":            true,
	"uM":            true,
	"nM":            true,
	"pM":            true,
	"%":             true,
	"ug.mL-1":       true,
	"ng.mL-1":       true,
	"mg.mL-1":       true,
	"mg.kg-1":       true,
	"umol.kg-1":     true,
	"hr":            true,
	"L.kg-1":        true,
	"mL.min-1.kg-1": true,
}

// unitAliases maps common upstream spellings, keyed lower-case, to their
// canonical form.
var unitAliases = map[string]string{
	"nmol/l":     "nM",
	"nanomolar":  "nM",
	"µm":         "uM",
	"μm":         "uM",
	"umol/l":     "uM",
	"micromolar": "uM",
	"millimolar": "mM",
	"percent":    "%",
	"ug/ml":      "ug.mL-1",
	"µg/ml":      "ug.mL-1",
	"μg/ml":      "ug.mL-1",
	"ug ml-1":    "ug.mL-1",
	"ng/ml":      "ng.mL-1",
	"mg/ml":      "mg.mL-1",
	"mg/kg":      "mg.kg-1",
	"h":          "hr",
	"hrs":        "hr",
	"hours":      "hr",
	"l/kg":       "L.kg-1",
	"ml/min/kg":  "mL.min-1.kg-1",
}

// unitIndex resolves lower-cased spellings to canonical form: every
// whitelisted unit under its own lower-casing plus the alias table.
var unitIndex = func() map[string]string {
	idx := make(map[string]string, len(knownUnits)+len(unitAliases))
	for u := range knownUnits {
		idx[strings.ToLower(u)] = u
	}
	for a, c := range unitAliases {
		idx[a] = c
	}
	return idx
}()

// NormalizeUnit maps a unit value through the alias table and validates it
// against the whitelist. Unrecognized values fall back to fallback and are
// reported via ok=false so callers can aggregate the distinct unknown values
// instead of failing the row.
func NormalizeUnit(raw, fallback string) (value string, ok bool) {
	u := strings.TrimSpace(raw)
	if knownUnits[u] {
		return u, true
	}
	if canonical, found := unitIndex[strings.ToLower(u)]; found {
		return canonical, true
	}
	return fallback, false
}
