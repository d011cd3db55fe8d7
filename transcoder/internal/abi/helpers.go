package abi

import (
	"encoding/json"
	"math/big"
	"reflect"
)

// TypeName returns the document-level kind of a loose value: null, boolean,
// number, string, array or object. Other Go values report their Go type.
func TypeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float32, float64, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number, *big.Int:
		return "number"
	case []any, []byte:
		return "array"
	case map[string]any:
		return "object"
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map:
		return "object"
	}
	return reflect.TypeOf(value).String()
}

// Sequence exposes a slice or array value by index. []any is served without
// reflection.
func Sequence(value any) (int, func(i int) any, bool) {
	switch v := value.(type) {
	case []any:
		return len(v), func(i int) any { return v[i] }, true
	case []byte:
		return len(v), func(i int) any { return v[i] }, true
	case string, nil:
		return 0, nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return 0, nil, false
	}
	return rv.Len(), func(i int) any { return rv.Index(i).Interface() }, true
}

// Object returns a keyed value as map[string]any. Maps with other string-
// kinded key types are copied.
func Object(value any) (map[string]any, bool) {
	if m, ok := value.(map[string]any); ok {
		return m, true
	}
	if value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}
