package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds a single-row insert from a struct's db tags. Fields
// tagged `db:"-"` or untagged fields are skipped. The optional suffix is
// appended verbatim, which is how repositories attach ON CONFLICT clauses.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	columns, values, err := modelColumns(model)
	if err != nil {
		return "", nil, err
	}

	builder := InsertInto(table).Columns(columns...).Values(values...)
	if suffix != "" {
		builder = builder.Suffix(suffix)
	}
	return builder.ToSQL()
}

// InsertModels builds a multi-row insert for a homogeneous slice of structs.
func InsertModels[T any](table string, models []T, suffix string) (string, []any, error) {
	if len(models) == 0 {
		return "", nil, fmt.Errorf("insert models are required")
	}

	columns, values, err := modelColumns(models[0])
	if err != nil {
		return "", nil, err
	}

	builder := InsertInto(table).Columns(columns...).Values(values...)
	for _, model := range models[1:] {
		cols, vals, err := modelColumns(model)
		if err != nil {
			return "", nil, err
		}
		if len(cols) != len(columns) {
			return "", nil, fmt.Errorf("insert models have mismatched columns")
		}
		builder = builder.Values(vals...)
	}

	if suffix != "" {
		builder = builder.Suffix(suffix)
	}
	return builder.ToSQL()
}

func modelColumns(model any) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, fmt.Errorf("insert model is nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("insert model must be a struct, got %s", value.Kind())
	}

	modelType := value.Type()
	columns := make([]string, 0, modelType.NumField())
	values := make([]any, 0, modelType.NumField())
	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		column := strings.Split(tag, ",")[0]
		if column == "" {
			continue
		}

		columns = append(columns, column)
		values = append(values, value.Field(i).Interface())
	}

	if len(columns) == 0 {
		return nil, nil, fmt.Errorf("insert model has no db-tagged fields")
	}
	return columns, values, nil
}
