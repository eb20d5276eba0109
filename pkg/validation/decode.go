package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrNotObject is returned when a payload is not a JSON object.
var ErrNotObject = errors.New("payload is not a JSON object")

var errNotWhole = errors.New("not a whole number")

// Check decodes a JSON object into dst (a pointer to a struct) one field at a
// time, trims string values, and validates the result with v.
//
// Every problem is collected: a field whose JSON type does not match yields an
// "Expected <type>" violation and is then skipped by the struct rules, other
// fields get at most one violation each from their validate tags. Violations are
// returned in struct field order. The error is non-nil only for ErrNotObject.
func Check(v *validator.Validate, body []byte, dst any) ([]FieldViolation, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrNotObject
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, ErrNotObject
	}

	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return nil, errors.New("validation: dst must be a pointer to a struct")
	}
	sv := rv.Elem()
	st := sv.Type()

	var violations []FieldViolation
	typeFailed := make(map[string]bool)

	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if !f.IsExported() {
			continue
		}
		name := jsonFieldName(f)
		raw, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		target := reflect.New(f.Type)
		if err := decodeInto(raw, target); err != nil {
			violations = append(violations, FieldViolation{Field: name, Message: typeMessage(f.Type)})
			typeFailed[name] = true
			continue
		}
		sv.Field(i).Set(target.Elem())
		trimField(sv.Field(i))
	}

	for _, violation := range FormatValidationErrors(v.Struct(dst)) {
		if !typeFailed[violation.Field] {
			violations = append(violations, violation)
		}
	}

	SortViolations(dst, violations)
	return violations, nil
}

// SortViolations orders violations by the declaration order of the matching
// fields in dst's struct type. Unknown fields sort last.
func SortViolations(dst any, violations []FieldViolation) {
	t := reflect.TypeOf(dst)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	order := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		order[jsonFieldName(t.Field(i))] = i
	}
	rank := func(field string) int {
		if idx, ok := order[field]; ok {
			return idx
		}
		return len(order)
	}
	sort.SliceStable(violations, func(i, j int) bool {
		return rank(violations[i].Field) < rank(violations[j].Field)
	})
}

// decodeInto unmarshals raw into ptr. Integer fields also accept whole
// numbers written with a fraction or exponent, such as 100.0 or 1e2.
func decodeInto(raw json.RawMessage, ptr reflect.Value) error {
	err := json.Unmarshal(raw, ptr.Interface())
	if err == nil || !isInteger(ptr.Type().Elem()) {
		return err
	}

	n, werr := wholeNumber(raw)
	if werr != nil {
		return err
	}
	elem := ptr.Elem()
	for elem.Kind() == reflect.Ptr {
		elem.Set(reflect.New(elem.Type().Elem()))
		elem = elem.Elem()
	}
	if elem.OverflowInt(n) {
		return err
	}
	elem.SetInt(n)
	return nil
}

func wholeNumber(raw json.RawMessage) (int64, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, err
	}
	num, ok := v.(json.Number)
	if !ok {
		return 0, errNotWhole
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errNotWhole
	}
	return int64(f), nil
}

func isInteger(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func trimField(v reflect.Value) {
	switch v.Kind() {
	case reflect.String:
		v.SetString(strings.TrimSpace(v.String()))
	case reflect.Ptr:
		if !v.IsNil() {
			trimField(v.Elem())
		}
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.String {
			for i := 0; i < v.Len(); i++ {
				v.Index(i).SetString(strings.TrimSpace(v.Index(i).String()))
			}
		}
	}
}

func typeMessage(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "Expected string"
	case reflect.Bool:
		return "Expected boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "Expected integer"
	case reflect.Slice:
		if t.Elem().Kind() == reflect.String {
			return "Expected array of strings"
		}
		return "Expected array"
	default:
		return "Invalid type"
	}
}
