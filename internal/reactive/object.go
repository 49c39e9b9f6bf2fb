// Package reactive wraps template data so that writes to observed keys
// trigger re-rendering.
//
// An Object is a registry of observable fields over a plain map. Writes to an
// observed field notify its subscribers synchronously, before Set returns.
// Slice values of observed fields are held as *Slice so that element
// mutations notify as well. Objects are not safe for concurrent use.
package reactive

import (
	"errors"
	"reflect"
	"sort"
)

// ErrIndexOutOfRange is returned by Slice mutations with a bad index.
var ErrIndexOutOfRange = errors.New("index out of range")

// Field is one observed key of an Object.
type Field struct {
	name        string
	subscribers []func()
}

// Name returns the key the field observes.
func (f *Field) Name() string { return f.name }

func (f *Field) notify() {
	for _, fn := range f.subscribers {
		fn()
	}
}

// Object is a data map with observable fields.
type Object struct {
	data   map[string]any
	fields map[string]*Field
}

// MakeReactive instruments data so that writes to every key in deps that is
// already present in data invoke onChange. Keys absent from data are skipped.
// data is used in place: observed slice values are replaced by *Slice.
func MakeReactive(data map[string]any, deps []string, onChange func()) *Object {
	if data == nil {
		data = make(map[string]any)
	}
	o := &Object{data: data, fields: make(map[string]*Field)}
	for _, key := range deps {
		if _, ok := data[key]; !ok {
			continue
		}
		f := o.observe(key)
		if onChange != nil {
			f.subscribers = append(f.subscribers, onChange)
		}
	}
	return o
}

func (o *Object) observe(key string) *Field {
	if f, ok := o.fields[key]; ok {
		return f
	}
	f := &Field{name: key}
	o.fields[key] = f
	o.data[key] = o.wrap(f, o.data[key])
	return f
}

// wrap turns slice values of an observed field into an observable Slice.
func (o *Object) wrap(f *Field, v any) any {
	switch t := v.(type) {
	case *Slice:
		t.field = f
		return t
	case nil:
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return v
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return &Slice{items: items, field: f}
}

// Get returns the current value of key.
func (o *Object) Get(key string) any {
	return o.data[key]
}

// Lookup implements accessor.Lookup.
func (o *Object) Lookup(key string) (any, bool) {
	v, ok := o.data[key]
	return v, ok
}

// Has reports whether key is present in the data.
func (o *Object) Has(key string) bool {
	_, ok := o.data[key]
	return ok
}

// Observed reports whether writes to key notify subscribers.
func (o *Object) Observed(key string) bool {
	_, ok := o.fields[key]
	return ok
}

// Set stores v under key. When key is observed, slice values are wrapped and
// every subscriber is notified once before Set returns.
func (o *Object) Set(key string, v any) {
	f, ok := o.fields[key]
	if !ok {
		o.data[key] = v
		return
	}
	o.data[key] = o.wrap(f, v)
	f.notify()
}

// Subscribe adds fn to the subscribers of an observed key. It reports false
// when key is not observed.
func (o *Object) Subscribe(key string, fn func()) bool {
	f, ok := o.fields[key]
	if !ok {
		return false
	}
	f.subscribers = append(f.subscribers, fn)
	return true
}

// Keys returns the data keys in sorted order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.data))
	for k := range o.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fields returns the observed keys in sorted order.
func (o *Object) Fields() []string {
	keys := make([]string, 0, len(o.fields))
	for k := range o.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns the underlying data map.
func (o *Object) Map() map[string]any {
	return o.data
}
