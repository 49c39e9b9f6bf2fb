package diff

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/livefir/neon/internal/dom"
)

func keyedList(order []int) *dom.Node {
	root := dom.NewRoot()
	for _, i := range order {
		root.AppendChild(li(fmt.Sprintf("k%d", i)))
	}
	return root
}

func TestReconcileProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("permutations of keyed nodes only move", prop.ForAll(
		func(n int, seed int64) bool {
			identity := make([]int, n)
			for i := range identity {
				identity[i] = i
			}
			perm := rand.New(rand.NewSource(seed)).Perm(n)

			live := keyedList(identity)
			byID := map[string]*dom.Node{}
			for _, c := range live.Children {
				byID[c.ID()] = c
			}

			_, stats := ReconcileStats(live, keyedList(perm), Options{ChildrenOnly: true})
			if stats.Removed+stats.Inserted+stats.Appended+stats.Replaced != 0 {
				return false
			}
			if len(live.Children) != n {
				return false
			}
			for i, c := range live.Children {
				want := fmt.Sprintf("k%d", perm[i])
				if c.ID() != want || byID[want] != c {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 12),
		gen.Int64(),
	))

	properties.Property("reconciled markup equals fresh markup", prop.ForAll(
		func(from, to []int) bool {
			live := keyedList(from)
			fresh := keyedList(to)
			want := fresh.InnerHTML()

			Reconcile(live, fresh, Options{ChildrenOnly: true})
			return live.InnerHTML() == want
		},
		gen.SliceOf(gen.IntRange(0, 5)),
		gen.SliceOf(gen.IntRange(0, 5)),
	))

	properties.TestingRun(t)
}
