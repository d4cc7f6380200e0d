package entity

import (
	"fmt"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/crestline-bio/chemtab/pkg/apperrors"
)

// MaxChunkSize is the hard upper bound on identifiers per request.
const MaxChunkSize = 25

// EncodingKind selects which canonical encoding applies to a column.
// It is resolved once at configuration-load time, never per row.
type EncodingKind int

const (
	EncodingScalar EncodingKind = iota
	EncodingSimpleList
	EncodingObjectArray
)

// String returns the configuration-file spelling of the kind.
func (k EncodingKind) String() string {
	switch k {
	case EncodingScalar:
		return "scalar"
	case EncodingSimpleList:
		return "simple_list"
	case EncodingObjectArray:
		return "object_array"
	default:
		return fmt.Sprintf("EncodingKind(%d)", int(k))
	}
}

// ParseEncodingKind resolves a configuration string to an EncodingKind.
func ParseEncodingKind(s string) (EncodingKind, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "", "scalar":
		return EncodingScalar, nil
	case "simple_list", "list":
		return EncodingSimpleList, nil
	case "object_array", "header_rows":
		return EncodingObjectArray, nil
	default:
		return EncodingScalar, fmt.Errorf("%w: unknown encoding kind %q", apperrors.ErrInvalidDescriptor, s)
	}
}

// CaseMode controls scalar case folding for a column.
type CaseMode int

const (
	// CaseNone leaves free text as-is.
	CaseNone CaseMode = iota
	// CaseUpper upper-cases identifiers.
	CaseUpper
	// CaseTitle title-cases display names.
	CaseTitle
)

// ParseCaseMode resolves a configuration string to a CaseMode.
func ParseCaseMode(s string) (CaseMode, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "", "none":
		return CaseNone, nil
	case "upper":
		return CaseUpper, nil
	case "title":
		return CaseTitle, nil
	default:
		return CaseNone, fmt.Errorf("%w: unknown case mode %q", apperrors.ErrInvalidDescriptor, s)
	}
}

// ColumnRule describes how one output column is derived from a raw record.
type ColumnRule struct {
	// SourceField is the upstream JSON key. Defaults to the column name.
	SourceField string
	Kind        EncodingKind
	Case        CaseMode
	// IsRelation marks columns holding numeric relation operators that get
	// normalized through the relation whitelist.
	IsRelation bool
	// DefaultRelation replaces unrecognized relation values. Only
	// meaningful when IsRelation is set.
	DefaultRelation string
	// IsUnit marks columns holding measurement units that get normalized
	// through the unit whitelist.
	IsUnit bool
	// DefaultUnit replaces unrecognized unit values. Empty means an
	// unrecognized unit maps to explicit null.
	DefaultUnit string
	// Numeric marks columns rendered with fixed 6-decimal precision.
	Numeric bool
}

// Descriptor is the immutable per-entity retrieval and encoding
// configuration. Instances are validated once at registration and shared
// read-only by all clients.
type Descriptor struct {
	Name           string
	Endpoint       string
	IDField        string
	FilterParam    string
	EnvelopeKey    string
	DefaultFields  []string
	ChunkSize      int
	MaxURLLength   int // 0 means unbounded
	DefaultOrder   string
	DefaultFilters map[string]string

	// Columns maps output column name to its encoding rule, resolved at
	// load time.
	Columns map[string]ColumnRule

	// BusinessKey is the ordered column list hashed for change detection.
	BusinessKey []string

	// CheckParamInvariants enables the value/text_value exclusivity checks
	// performed before encoding.
	CheckParamInvariants bool
}

// Validate checks the descriptor invariants. A failed validation is fatal
// at registration time.
func (d *Descriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: entity name is empty", apperrors.ErrInvalidDescriptor)
	}
	for field, v := range map[string]string{
		"endpoint":     d.Endpoint,
		"id_field":     d.IDField,
		"filter_param": d.FilterParam,
		"envelope_key": d.EnvelopeKey,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: %s: %s is empty", apperrors.ErrInvalidDescriptor, d.Name, field)
		}
	}
	if d.ChunkSize <= 0 {
		return fmt.Errorf("%w: %s: chunk_size must be positive, got %d", apperrors.ErrInvalidDescriptor, d.Name, d.ChunkSize)
	}
	if d.ChunkSize > MaxChunkSize {
		return fmt.Errorf("%w: %s: chunk_size %d exceeds maximum %d", apperrors.ErrInvalidDescriptor, d.Name, d.ChunkSize, MaxChunkSize)
	}
	if d.MaxURLLength < 0 {
		return fmt.Errorf("%w: %s: max_url_length must not be negative (0 means unbounded), got %d", apperrors.ErrInvalidDescriptor, d.Name, d.MaxURLLength)
	}
	for _, col := range d.BusinessKey {
		if _, ok := d.Columns[col]; !ok {
			return fmt.Errorf("%w: %s: business key column %q has no column rule", apperrors.ErrInvalidDescriptor, d.Name, col)
		}
	}
	return nil
}

// normalize fills defaults and puts DefaultFilters into a deterministic
// (sorted, deduplicated) form.
func (d *Descriptor) normalize() {
	d.Name = strings.TrimSpace(d.Name)
	if strings.TrimSpace(d.Endpoint) == "" && d.Name != "" {
		d.Endpoint = "/" + inflection.Plural(d.Name)
	}
	if strings.TrimSpace(d.EnvelopeKey) == "" && d.Name != "" {
		d.EnvelopeKey = inflection.Plural(d.Name)
	}
	if d.DefaultFilters != nil {
		clean := make(map[string]string, len(d.DefaultFilters))
		for k, v := range d.DefaultFilters {
			clean[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
		d.DefaultFilters = clean
	}
}
