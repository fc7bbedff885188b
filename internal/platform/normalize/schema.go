package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// Kind is the target type a raw column value is coerced into.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	// KindIntList handles single-quoted pseudo-JSON arrays such as the
	// per-quarter line scores the upstream feed emits.
	KindIntList
)

type Column struct {
	Name string
	Kind Kind
}

// Schema is the explicit, ordered column list for one record shape. Columns
// never infer their type from the data.
type Schema []Column

func NewSchema(columns ...Column) Schema {
	return Schema(columns)
}

func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// nullTokens are the raw values that mean "no value" regardless of column
// kind. Matching is exact after surrounding-whitespace trim.
func isNullToken(raw string) bool {
	switch strings.TrimSpace(raw) {
	case "", "NA", "NaN":
		return true
	}
	return false
}

// Record maps column names to coerced values. Null is a nil entry, present
// in the map so writers can tell "null" from "column absent".
type Record map[string]any

// Apply coerces one raw field slice against the schema. A field that fails
// coercion becomes null; the row itself is never rejected for a bad value.
// Only a field-count mismatch is an error.
func (s Schema) Apply(fields []string) (Record, error) {
	if len(fields) != len(s) {
		return nil, fmt.Errorf("record has %d fields, schema expects %d", len(fields), len(s))
	}

	record := make(Record, len(s))
	for i, column := range s {
		record[column.Name] = coerce(column.Kind, fields[i])
	}
	return record, nil
}

func coerce(kind Kind, raw string) any {
	if isNullToken(raw) {
		return nil
	}
	trimmed := strings.TrimSpace(raw)

	switch kind {
	case KindInt:
		if v, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return v
		}
		// Upstream occasionally serializes integral columns as floats.
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil && f == float64(int64(f)) {
			return int64(f)
		}
		return nil
	case KindFloat:
		if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return v
		}
		return nil
	case KindBool:
		switch strings.ToLower(trimmed) {
		case "true", "t", "1":
			return true
		case "false", "f", "0":
			return false
		}
		return nil
	case KindIntList:
		if v, ok := parseIntList(trimmed); ok {
			return v
		}
		return nil
	default:
		return trimmed
	}
}

// parseIntList decodes a pseudo-JSON integer array. The feed writes these
// with single quotes ('[7, 14, 3, 10]'), so quotes are substituted before
// the JSON decode.
func parseIntList(raw string) ([]int64, bool) {
	candidate := strings.TrimSpace(strings.ReplaceAll(raw, "'", `"`))
	candidate = strings.Trim(candidate, `"`)
	if !strings.HasPrefix(candidate, "[") {
		return nil, false
	}

	var values []int64
	if err := sonic.UnmarshalString(candidate, &values); err != nil {
		return nil, false
	}
	return values, true
}
