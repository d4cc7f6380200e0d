package entity

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/crestline-bio/chemtab/pkg/apperrors"
)

// Registry is an immutable lookup of entity descriptors, built once at
// startup and passed by reference into every component that needs lookup.
type Registry struct {
	byName map[string]*Descriptor
}

// NewRegistry validates and indexes the given descriptors. Duplicate names
// and invalid descriptors are fatal.
func NewRegistry(descriptors ...*Descriptor) (*Registry, error) {
	byName := make(map[string]*Descriptor, len(descriptors))
	for _, d := range descriptors {
		d.normalize()
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, exists := byName[d.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate entity %q", apperrors.ErrInvalidDescriptor, d.Name)
		}
		byName[d.Name] = d
	}
	return &Registry{byName: byName}, nil
}

// Get returns the descriptor registered under name.
func (r *Registry) Get(name string) (*Descriptor, error) {
	d, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownEntity, name)
	}
	return d, nil
}

// Names lists all registered entity names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// descriptorFile is the YAML form of a descriptor.
type descriptorFile struct {
	Entities []struct {
		Name           string            `yaml:"name"`
		Endpoint       string            `yaml:"endpoint"`
		IDField        string            `yaml:"id_field"`
		FilterParam    string            `yaml:"filter_param"`
		EnvelopeKey    string            `yaml:"envelope_key"`
		DefaultFields  []string          `yaml:"default_fields"`
		ChunkSize      int               `yaml:"chunk_size"`
		MaxURLLength   int               `yaml:"max_url_length"`
		DefaultOrder   string            `yaml:"default_order"`
		DefaultFilters map[string]string `yaml:"default_filters"`
		BusinessKey    []string          `yaml:"business_key"`
		CheckParams    bool              `yaml:"check_param_invariants"`
		Columns        map[string]struct {
			Source          string `yaml:"source"`
			Kind            string `yaml:"kind"`
			Case            string `yaml:"case"`
			Relation        bool   `yaml:"relation"`
			DefaultRelation string `yaml:"default_relation"`
			Unit            bool   `yaml:"unit"`
			DefaultUnit     string `yaml:"default_unit"`
			Numeric         bool   `yaml:"numeric"`
		} `yaml:"columns"`
	} `yaml:"entities"`
}

// LoadDescriptors reads entity descriptors from a YAML file and resolves
// column encoding kinds and case modes up front.
func LoadDescriptors(path string) ([]*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read entity descriptors: %w", err)
	}

	var file descriptorFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse entity descriptors: %w", err)
	}

	descriptors := make([]*Descriptor, 0, len(file.Entities))
	for _, e := range file.Entities {
		columns := make(map[string]ColumnRule, len(e.Columns))
		for name, c := range e.Columns {
			kind, err := ParseEncodingKind(c.Kind)
			if err != nil {
				return nil, fmt.Errorf("entity %s, column %s: %w", e.Name, name, err)
			}
			caseMode, err := ParseCaseMode(c.Case)
			if err != nil {
				return nil, fmt.Errorf("entity %s, column %s: %w", e.Name, name, err)
			}
			source := c.Source
			if source == "" {
				source = name
			}
			columns[name] = ColumnRule{
				SourceField:     source,
				Kind:            kind,
				Case:            caseMode,
				IsRelation:      c.Relation,
				DefaultRelation: c.DefaultRelation,
				IsUnit:          c.Unit,
				DefaultUnit:     c.DefaultUnit,
				Numeric:         c.Numeric,
			}
		}
		descriptors = append(descriptors, &Descriptor{
			Name:                 e.Name,
			Endpoint:             e.Endpoint,
			IDField:              e.IDField,
			FilterParam:          e.FilterParam,
			EnvelopeKey:          e.EnvelopeKey,
			DefaultFields:        e.DefaultFields,
			ChunkSize:            e.ChunkSize,
			MaxURLLength:         e.MaxURLLength,
			DefaultOrder:         e.DefaultOrder,
			DefaultFilters:       e.DefaultFilters,
			Columns:              columns,
			BusinessKey:          e.BusinessKey,
			CheckParamInvariants: e.CheckParams,
		})
	}
	return descriptors, nil
}
