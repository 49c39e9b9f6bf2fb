package accessor

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestAccessorProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("non-empty strings resolve to themselves", prop.ForAll(
		func(key, value string) bool {
			return Get(map[string]any{key: value}, key) == value
		},
		gen.RegexMatch(`^[a-z][a-z0-9_]{0,8}$`),
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
	))

	properties.Property("integers are never empty", prop.ForAll(
		func(key string, n int) bool {
			got := Get(map[string]any{key: n}, key)
			return !IsEmpty(got) && got == n
		},
		gen.RegexMatch(`^[a-z][a-z0-9_]{0,8}$`),
		gen.Int(),
	))

	properties.Property("blank values resolve to the sentinel", prop.ForAll(
		func(key string, pick int) bool {
			blanks := []any{nil, false, []any{}, map[string]any{}, struct{}{}, ""}
			return IsEmpty(Get(map[string]any{key: blanks[pick]}, key))
		},
		gen.RegexMatch(`^[a-z][a-z0-9_]{0,8}$`),
		gen.IntRange(0, 5),
	))

	properties.Property("missing keys resolve to the sentinel", prop.ForAll(
		func(present, missing string) bool {
			if present == missing || missing == "length" {
				return true
			}
			return IsEmpty(Get(map[string]any{present: 1}, missing))
		},
		gen.RegexMatch(`^[a-z]{1,6}$`),
		gen.RegexMatch(`^[a-z]{1,6}$`),
	))

	properties.TestingRun(t)
}
