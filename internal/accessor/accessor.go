// Package accessor resolves dotted property paths against template data.
//
// Every lookup is safe: a missing segment, a nil intermediate or a "blank"
// value resolves to Empty instead of failing. Blank values are nil, false,
// empty collections and field-less structs. Numeric zero is not blank and
// renders as "0".
package accessor

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Empty is the value every absent or blank lookup resolves to.
const Empty = ""

// Lookup is implemented by data objects that resolve their own keys,
// such as reactive objects.
type Lookup interface {
	Lookup(key string) (any, bool)
}

// Sequence is implemented by ordered collections that are not Go slices,
// such as observable slices.
type Sequence interface {
	Len() int
	At(i int) any
}

// Get resolves path against data and normalizes the result.
func Get(data any, path string) any {
	cur := data
	for _, seg := range strings.Split(path, ".") {
		if !present(cur) {
			return Empty
		}
		next, ok := step(cur, seg)
		if !ok {
			return Empty
		}
		cur = next
	}
	return Normalize(cur)
}

// Normalize maps blank values to Empty and returns every other value unchanged.
func Normalize(v any) any {
	if v == nil {
		return Empty
	}
	switch t := v.(type) {
	case bool:
		if !t {
			return Empty
		}
		return t
	case string:
		return t
	case Sequence:
		if t.Len() == 0 {
			return Empty
		}
		return t
	case Lookup:
		return t
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Empty
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		if rv.Len() == 0 {
			return Empty
		}
	case reflect.Struct:
		if _, ok := v.(fmt.Stringer); !ok && rv.NumField() == 0 {
			return Empty
		}
	case reflect.Bool:
		if !rv.Bool() {
			return Empty
		}
	}
	return v
}

// IsEmpty reports whether v is the Empty sentinel.
func IsEmpty(v any) bool {
	s, ok := v.(string)
	return ok && s == Empty
}

// Truthy reports whether v selects the first branch of a conditional.
// Empty and numeric zero are false.
func Truthy(v any) bool {
	v = Normalize(v)
	if IsEmpty(v) {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && f == f
	}
	return true
}

// Format renders a resolved value as template output.
func Format(v any) string {
	switch t := v.(type) {
	case nil:
		return Empty
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case fmt.Stringer:
		return t.String()
	case Sequence:
		parts := make([]string, t.Len())
		for i := range parts {
			parts[i] = Format(t.At(i))
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v)
}

// Attr renders name="value" when key resolves to a non-empty value,
// and nothing otherwise.
func Attr(data any, key, name string) string {
	v := Get(data, key)
	if IsEmpty(v) {
		return ""
	}
	return name + `="` + Format(v) + `"`
}

// Iterate returns the items a loop over v visits. Strings iterate per
// character; values that are not collections yield no items.
func Iterate(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case Sequence:
		items := make([]any, t.Len())
		for i := range items {
			items[i] = t.At(i)
		}
		return items
	case string:
		items := make([]any, 0, utf8.RuneCountInString(t))
		for _, r := range t {
			items = append(items, string(r))
		}
		return items
	case []any:
		return t
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return items
	}
	return nil
}

// present reports whether a path walk may continue from v.
func present(v any) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return !rv.IsNil()
	}
	return true
}

func step(cur any, seg string) (any, bool) {
	switch t := cur.(type) {
	case Lookup:
		if v, ok := t.Lookup(seg); ok {
			return v, true
		}
		return nil, false
	case map[string]any:
		if seg == "length" {
			if v, ok := t[seg]; ok {
				return v, true
			}
			return len(t), true
		}
		v, ok := t[seg]
		return v, ok
	case Sequence:
		if seg == "length" {
			return t.Len(), true
		}
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= t.Len() {
			return nil, false
		}
		return t.At(i), true
	case string:
		if seg == "length" {
			return utf8.RuneCountInString(t), true
		}
		return nil, false
	}

	rv := reflect.ValueOf(cur)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(seg).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			if seg == "length" {
				return rv.Len(), true
			}
			return nil, false
		}
		return mv.Interface(), true
	case reflect.Slice, reflect.Array:
		if seg == "length" {
			return rv.Len(), true
		}
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	case reflect.Struct:
		return structField(rv, seg)
	}
	return nil, false
}

func structField(rv reflect.Value, name string) (any, bool) {
	typ := rv.Type()
	if f, ok := typ.FieldByName(name); ok && f.IsExported() {
		return rv.FieldByIndex(f.Index).Interface(), true
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		if comma := strings.Index(tag, ","); comma >= 0 {
			tag = tag[:comma]
		}
		if tag == name {
			return rv.Field(i).Interface(), true
		}
	}
	return nil, false
}
