// Package diff reconciles a live dom tree against a freshly rendered one.
//
// Child lists are compared by Plan, a pure function producing an edit
// Script, which is then applied to the live parent. Matched nodes are
// patched in place and their children reconciled recursively, so nodes keep
// their identity across renders wherever the identity heuristic allows.
package diff

import (
	"github.com/livefir/neon/internal/dom"
)

// Options controls a reconciliation.
type Options struct {
	// ChildrenOnly reconciles the children of live against those of fresh
	// and never replaces live itself.
	ChildrenOnly bool

	// Observer, when set, is told about every change made to the live tree.
	Observer Observer
}

// Reconcile mutates live to match fresh and returns the node that should
// occupy live's slot. Nodes attached from fresh are moved out of its tree.
func Reconcile(live, fresh *dom.Node, opts Options) *dom.Node {
	out, _ := ReconcileStats(live, fresh, opts)
	return out
}

// ReconcileStats is Reconcile that also reports the operations applied.
func ReconcileStats(live, fresh *dom.Node, opts Options) (*dom.Node, Stats) {
	r := &reconciler{observer: opts.Observer}
	if opts.ChildrenOnly {
		if live == nil {
			return fresh, r.stats
		}
		r.children(live, fresh)
		return live, r.stats
	}
	return r.resolve(fresh, live), r.stats
}

// Resolve decides which node should occupy a slot:
//   - fresh when live is absent
//   - nil when fresh is absent
//   - live when both are the same instance
//   - fresh when the tags differ
//   - otherwise live, patched from fresh with its children reconciled
func Resolve(fresh, live *dom.Node) *dom.Node {
	r := &reconciler{}
	return r.resolve(fresh, live)
}

// Apply replays s on parent, whose children must be the live list s was
// planned from.
func (s Script) Apply(parent *dom.Node) Stats {
	r := &reconciler{}
	r.apply(parent, s)
	return r.stats
}

type reconciler struct {
	observer Observer
	stats    Stats
}

func (r *reconciler) resolve(fresh, live *dom.Node) *dom.Node {
	switch {
	case live == nil:
		return fresh
	case fresh == nil:
		return nil
	case fresh == live:
		return live
	case !sameTag(fresh, live):
		return fresh
	}
	r.patch(live, fresh)
	r.children(live, fresh)
	return live
}

func (r *reconciler) children(live, fresh *dom.Node) {
	var freshChildren []*dom.Node
	if fresh != nil {
		freshChildren = fresh.Children
	}
	r.apply(live, Plan(live.Children, freshChildren))
}

func (r *reconciler) apply(parent *dom.Node, s Script) {
	for _, op := range s {
		r.stats.add(op.Kind)

		switch op.Kind {
		case OpRemove:
			if r.observer != nil {
				r.structural(op, op.Live, op.Live.String(), "")
			}
			parent.RemoveChild(op.Live)
		case OpAppend:
			parent.AppendChild(op.Fresh)
			if r.observer != nil {
				r.structural(op, op.Fresh, "", op.Fresh.String())
			}
		case OpInsert:
			parent.InsertBefore(op.Fresh, op.Ref)
			if r.observer != nil {
				r.structural(op, op.Fresh, "", op.Fresh.String())
			}
		case OpMove:
			parent.InsertBefore(op.Live, op.Ref)
			if r.observer != nil {
				r.structural(op, op.Live, "", "")
			}
		case OpReplace:
			var old string
			if r.observer != nil {
				old = op.Live.String()
			}
			parent.ReplaceChild(op.Fresh, op.Live)
			if r.observer != nil {
				r.structural(op, op.Fresh, old, op.Fresh.String())
			}
		case OpPatch:
			r.patch(op.Live, op.Fresh)
			r.children(op.Live, op.Fresh)
		}
	}
}

func (r *reconciler) structural(op Op, node *dom.Node, before, after string) {
	r.observer(Change{
		Op:    op.Kind.String(),
		Type:  ChangeStructure,
		Path:  node.Path(),
		Index: op.Index,
		Old:   before,
		New:   after,
	})
}

// notify reports a change to node; suffix is appended to its path.
func (r *reconciler) notify(c Change, node *dom.Node, suffix string) {
	if r.observer == nil {
		return
	}
	c.Path = node.Path() + suffix
	if node.Parent != nil {
		c.Index = node.Parent.IndexOf(node)
	}
	r.observer(c)
}
