package encode

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/crestline-bio/chemtab/pkg/entity"
	"github.com/crestline-bio/chemtab/pkg/jsonutil"
)

// Encoder turns raw upstream records into canonical rows according to one
// entity's column rules. Encoding is a pure function of a record's logical
// content; the encoder itself only accumulates batch diagnostics, so one
// instance is owned by one batch run.
type Encoder struct {
	desc     *entity.Descriptor
	failFast bool
	logger   *zap.Logger
	diags    *Diagnostics
}

// NewEncoder creates an encoder for the given entity. With failFast set,
// the first record with any invariant violation aborts the encode with an
// error listing every violation found in that record; otherwise violations
// are logged and the record proceeds.
func NewEncoder(desc *entity.Descriptor, failFast bool, logger *zap.Logger) *Encoder {
	return &Encoder{
		desc:     desc,
		failFast: failFast,
		logger:   logger,
		diags:    NewDiagnostics(),
	}
}

// Diagnostics returns the batch anomaly collector.
func (e *Encoder) Diagnostics() *Diagnostics {
	return e.diags
}

// EncodeRecord builds the canonical row for one raw record. Invariant
// violations follow the fail-fast mode; malformed payloads are always
// fatal.
func (e *Encoder) EncodeRecord(rec RawRecord) (CanonicalRow, error) {
	if e.desc.CheckParamInvariants {
		if err := e.checkInvariants(rec); err != nil {
			return nil, err
		}
	}

	row := make(CanonicalRow, len(e.desc.Columns))
	for col, rule := range e.desc.Columns {
		v, err := e.encodeColumn(rec, rule)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		row[col] = v
	}
	return row, nil
}

// EncodeBatch encodes records in order, preserving input order in the
// output. In fail-fast mode the first invalid record aborts the batch.
func (e *Encoder) EncodeBatch(records []RawRecord) ([]CanonicalRow, error) {
	rows := make([]CanonicalRow, 0, len(records))
	for i, rec := range records {
		row, err := e.EncodeRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (e *Encoder) encodeColumn(rec RawRecord, rule entity.ColumnRule) (Value, error) {
	raw, present := rec[rule.SourceField]

	switch rule.Kind {
	case entity.EncodingSimpleList:
		if !present {
			return NullValue, nil
		}
		items, ok, err := coerceList(raw)
		if err != nil {
			return NullValue, err
		}
		if !ok {
			return StringValue(""), nil
		}
		return StringValue(SimpleListEncode(items)), nil

	case entity.EncodingObjectArray:
		if !present {
			return NullValue, nil
		}
		items, ok, err := coerceList(raw)
		if err != nil {
			return NullValue, err
		}
		if !ok {
			return StringValue(""), nil
		}
		encoded, err := ObjectArrayEncode(items)
		if err != nil {
			return NullValue, err
		}
		return StringValue(encoded), nil

	default:
		if !present {
			return NullValue, nil
		}
		return normalizeScalar(raw, rule, e.diags), nil
	}
}

// checkInvariants gathers violations from the record itself and from every
// object element of its object-array columns.
func (e *Encoder) checkInvariants(rec RawRecord) error {
	violations := CheckParamInvariants(rec)

	for _, rule := range e.desc.Columns {
		if rule.Kind != entity.EncodingObjectArray {
			continue
		}
		items, ok, err := coerceList(rec[rule.SourceField])
		if err != nil || !ok {
			continue // malformed payloads are reported by encodeColumn
		}
		for i, item := range items {
			obj, isObj := item.(map[string]any)
			if !isObj {
				continue
			}
			for _, v := range CheckParamInvariants(obj) {
				violations = append(violations,
					fmt.Sprintf("%s[%d]: %s", rule.SourceField, i, v))
			}
		}
	}

	if len(violations) == 0 {
		return nil
	}

	recordID := e.recordID(rec)
	if e.failFast {
		return &InvariantError{RecordID: recordID, Violations: violations}
	}
	for _, v := range violations {
		e.logger.Warn("invariant violation, record kept",
			zap.String("entity", e.desc.Name),
			zap.String("record_id", recordID),
			zap.String("violation", v))
	}
	return nil
}

func (e *Encoder) recordID(rec RawRecord) string {
	if id, ok := jsonutil.FlexibleString(rec[e.desc.IDField]); ok {
		return id
	}
	return ""
}
