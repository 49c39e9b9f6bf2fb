package reactive

import (
	"errors"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livefir/neon/internal/accessor"
)

func TestMakeReactive_SetNotifiesOnce(t *testing.T) {
	faker := gofakeit.New(7)

	for i := 0; i < 50; i++ {
		key := fmt.Sprintf("%s_%d", faker.Word(), i)
		initial := faker.FirstName()
		next := faker.Number(1, 1000)

		calls := 0
		data := map[string]any{key: initial}
		obj := MakeReactive(data, []string{key}, func() { calls++ })

		obj.Set(key, next)

		assert.Equal(t, 1, calls, "key %q", key)
		assert.Equal(t, next, obj.Get(key))
		assert.Equal(t, next, data[key], "data map is instrumented in place")
	}
}

func TestMakeReactive_SkipsMissingKeys(t *testing.T) {
	calls := 0
	data := map[string]any{"present": 1}
	obj := MakeReactive(data, []string{"present", "absent", "user.name"}, func() { calls++ })

	assert.True(t, obj.Observed("present"))
	assert.False(t, obj.Observed("absent"))
	assert.False(t, obj.Has("absent"), "no property is created for missing keys")

	obj.Set("absent", "x")
	assert.Equal(t, 0, calls)
	assert.Equal(t, "x", obj.Get("absent"))

	obj.Set("present", 2)
	assert.Equal(t, 1, calls)
}

func TestMakeReactive_RepeatedWritesRenderEachTime(t *testing.T) {
	var seen []any
	data := map[string]any{"a": 0, "b": 0}
	var obj *Object
	obj = MakeReactive(data, []string{"a", "b"}, func() {
		seen = append(seen, fmt.Sprint(obj.Get("a"), obj.Get("b")))
	})

	obj.Set("a", 1)
	obj.Set("b", 2)
	obj.Set("a", 3)

	assert.Equal(t, []any{"1 0", "1 2", "3 2"}, seen)
}

func TestMakeReactive_SlicesAreObservable(t *testing.T) {
	calls := 0
	data := map[string]any{"items": []string{"a", "b"}}
	obj := MakeReactive(data, []string{"items"}, func() { calls++ })

	items, ok := obj.Get("items").(*Slice)
	require.True(t, ok, "reads return the observable sequence, got %T", obj.Get("items"))
	assert.Equal(t, 2, items.Len())

	require.NoError(t, items.Set(0, "z"))
	items.Append("c")
	require.NoError(t, items.Insert(0, "first"))
	require.NoError(t, items.Remove(1))
	items.Truncate(2)
	items.Truncate(10)

	assert.Equal(t, 5, calls)
	assert.Equal(t, []any{"first", "b"}, items.Items())

	err := items.Set(9, "x")
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	assert.Equal(t, 5, calls)
}

func TestMakeReactive_ReplacedSliceStaysObservable(t *testing.T) {
	calls := 0
	data := map[string]any{"items": []any{1}}
	obj := MakeReactive(data, []string{"items"}, func() { calls++ })

	obj.Set("items", []int{4, 5})
	assert.Equal(t, 1, calls)

	items := obj.Get("items").(*Slice)
	items.Append(6)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []any{4, 5, 6}, items.Items())
}

func TestObject_AccessorIntegration(t *testing.T) {
	data := map[string]any{
		"user":  map[string]any{"name": "Al"},
		"items": []any{"x", "y"},
		"empty": []any{},
	}
	obj := MakeReactive(data, []string{"user", "items", "empty"}, nil)

	assert.Equal(t, "Al", accessor.Get(obj, "user.name"))
	assert.Equal(t, "y", accessor.Get(obj, "items.1"))
	assert.Equal(t, 2, accessor.Get(obj, "items.length"))
	assert.True(t, accessor.IsEmpty(accessor.Get(obj, "empty")))
	assert.Equal(t, "x,y", accessor.Format(accessor.Get(obj, "items")))
	assert.Equal(t, []any{"x", "y"}, accessor.Iterate(accessor.Get(obj, "items")))
}

func TestObject_Subscribe(t *testing.T) {
	obj := MakeReactive(map[string]any{"a": 1}, []string{"a"}, nil)

	var order []string
	assert.True(t, obj.Subscribe("a", func() { order = append(order, "first") }))
	assert.True(t, obj.Subscribe("a", func() { order = append(order, "second") }))
	assert.False(t, obj.Subscribe("b", func() {}))

	obj.Set("a", 2)
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, []string{"a"}, obj.Fields())
	assert.Equal(t, []string{"a"}, obj.Keys())
}

func TestMakeReactive_NilData(t *testing.T) {
	obj := MakeReactive(nil, []string{"a"}, func() { t.Fatal("unexpected notification") })
	obj.Set("a", 1)
	assert.Equal(t, 1, obj.Get("a"))
}
