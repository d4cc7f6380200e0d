package qc

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Policy is the declarative pass/fail configuration merged into a metric
// when it is registered.
type Policy struct {
	Min          *float64
	Max          *float64
	Threshold    *float64
	Severity     string
	FailSeverity string
	Metadata     map[string]any
}

// merge applies the policy onto a metric. Configured values win over
// producer-supplied ones; nil fields leave the metric untouched.
func (p *Policy) merge(m *Metric) {
	if p == nil {
		return
	}
	if p.Min != nil {
		m.Min = p.Min
	}
	if p.Max != nil {
		m.Max = p.Max
	}
	if p.Threshold != nil {
		m.Threshold = p.Threshold
	}
	if p.Severity != "" {
		m.Severity = p.Severity
	}
	if p.FailSeverity != "" {
		m.FailSeverity = p.FailSeverity
	}
	if len(p.Metadata) > 0 {
		if m.Metadata == nil {
			m.Metadata = make(map[string]any, len(p.Metadata))
		}
		for k, v := range p.Metadata {
			m.Metadata[k] = v
		}
	}
}

// ResolvePolicy builds a Policy from a raw configuration value. Precedence:
// an explicit *Policy passes through; a numeric literal or numeric-parseable
// string becomes a max bound; any other string becomes a severity; a map
// carries explicit min/max/threshold/severity/fail_severity plus free-form
// metadata; nil resolves to no policy.
func ResolvePolicy(raw any) (*Policy, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case *Policy:
		return v, nil
	case Policy:
		return &v, nil
	case float64:
		return &Policy{Max: &v}, nil
	case float32:
		f := float64(v)
		return &Policy{Max: &f}, nil
	case int:
		f := float64(v)
		return &Policy{Max: &f}, nil
	case int64:
		f := float64(v)
		return &Policy{Max: &f}, nil
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return &Policy{Max: &f}, nil
		}
		return &Policy{Severity: v}, nil
	case map[string]any:
		return policyFromMap(v)
	default:
		return nil, fmt.Errorf("unsupported policy value of type %T", raw)
	}
}

func policyFromMap(m map[string]any) (*Policy, error) {
	p := &Policy{}
	for key, raw := range m {
		switch key {
		case "min":
			f, err := floatField(key, raw)
			if err != nil {
				return nil, err
			}
			p.Min = &f
		case "max":
			f, err := floatField(key, raw)
			if err != nil {
				return nil, err
			}
			p.Max = &f
		case "threshold":
			f, err := floatField(key, raw)
			if err != nil {
				return nil, err
			}
			p.Threshold = &f
		case "severity":
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("policy severity must be a string, got %T", raw)
			}
			p.Severity = s
		case "fail_severity":
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("policy fail_severity must be a string, got %T", raw)
			}
			p.FailSeverity = s
		default:
			if p.Metadata == nil {
				p.Metadata = make(map[string]any)
			}
			p.Metadata[key] = raw
		}
	}
	return p, nil
}

func floatField(key string, raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("policy %s is not numeric: %q", key, v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("policy %s is not numeric: %T", key, raw)
	}
}

// LoadPolicies reads a metric-name → policy map from a YAML file. Values
// follow the ResolvePolicy precedence rules.
func LoadPolicies(path string) (map[string]*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read QC policies: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse QC policies: %w", err)
	}

	policies := make(map[string]*Policy, len(raw))
	for name, value := range raw {
		p, err := ResolvePolicy(value)
		if err != nil {
			return nil, fmt.Errorf("metric %s: %w", name, err)
		}
		policies[name] = p
	}
	return policies, nil
}
