package diff

import (
	"fmt"
	"slices"
	"strings"

	"github.com/livefir/neon/internal/dom"
)

// OpKind is the kind of an edit-script operation.
type OpKind int

const (
	OpRemove OpKind = iota
	OpAppend
	OpInsert
	OpMove
	OpReplace
	OpPatch
)

var opNames = [...]string{"remove", "append", "insert", "move", "replace", "patch"}

func (k OpKind) String() string {
	if int(k) < len(opNames) {
		return opNames[k]
	}
	return fmt.Sprintf("op(%d)", int(k))
}

// Op is one step of an edit script.
type Op struct {
	Kind  OpKind
	Index int       // position in the live list the op applies at
	Live  *dom.Node // node removed, moved, replaced or patched
	Fresh *dom.Node // node appended, inserted, substituted, or the patch source
	Ref   *dom.Node // live node a move or insert goes before
}

func (o Op) String() string {
	switch o.Kind {
	case OpRemove:
		return fmt.Sprintf("remove %s at %d", label(o.Live), o.Index)
	case OpAppend:
		return fmt.Sprintf("append %s", label(o.Fresh))
	case OpInsert:
		return fmt.Sprintf("insert %s before %s", label(o.Fresh), label(o.Ref))
	case OpMove:
		return fmt.Sprintf("move %s before %s", label(o.Live), label(o.Ref))
	case OpReplace:
		return fmt.Sprintf("replace %s with %s", label(o.Live), label(o.Fresh))
	default:
		return fmt.Sprintf("patch %s at %d", label(o.Live), o.Index)
	}
}

// label names a node for humans: tag#id, or a quoted text payload.
func label(n *dom.Node) string {
	switch {
	case n == nil:
		return "<nil>"
	case n.IsElement():
		if id := n.ID(); id != "" {
			return n.Data + "#" + id
		}
		return n.Data
	case n.IsText():
		text := strings.TrimSpace(n.Data)
		if len(text) > 16 {
			text = text[:16] + "..."
		}
		return fmt.Sprintf("%q", text)
	}
	return "?"
}

// Script is an ordered list of operations turning one child list into another.
type Script []Op

// Count returns the number of ops of the given kind.
func (s Script) Count(kind OpKind) int {
	n := 0
	for _, op := range s {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Plan computes the edit script that turns the live child list into the fresh
// one. It walks both lists by position, looks ahead in the live list for nodes
// that moved, and prefers patching anonymous nodes in place.
//
// Plan does not touch the nodes or the slices it is given.
func Plan(live, fresh []*dom.Node) Script {
	p := planner{cur: slices.Clone(live), fresh: fresh}
	p.run()
	return p.script
}

type planner struct {
	cur    []*dom.Node // simulated live list
	fresh  []*dom.Node
	script Script
}

func (p *planner) emit(op Op) {
	p.script = append(p.script, op)
}

func nodeAt(list []*dom.Node, i int) *dom.Node {
	if i < len(list) {
		return list[i]
	}
	return nil
}

func (p *planner) run() {
	i, f := 0, 0
	for {
		lc, fc := nodeAt(p.cur, i), nodeAt(p.fresh, f)

		switch {
		case lc == nil && fc == nil:
			return

		case fc == nil:
			// Recheck the same position against the next live child.
			p.emit(Op{Kind: OpRemove, Index: i, Live: lc})
			p.cur = slices.Delete(p.cur, i, i+1)
			continue

		case lc == nil:
			p.emit(Op{Kind: OpAppend, Index: i, Fresh: fc})
			p.cur = append(p.cur, fc)

		case Same(fc, lc):
			p.resolve(i, lc, fc)

		default:
			if j := p.search(i+1, fc); j >= 0 {
				p.reorder(i, j, lc, fc)
			} else if anonymous(fc, lc) {
				p.resolve(i, lc, fc)
			} else {
				p.emit(Op{Kind: OpInsert, Index: i, Fresh: fc, Ref: lc})
				p.cur = slices.Insert(p.cur, i, fc)
			}
		}

		i++
		f++
	}
}

// resolve emits the node-level decision for a matched pair at position i.
func (p *planner) resolve(i int, lc, fc *dom.Node) {
	switch {
	case fc == lc:
	case !sameTag(fc, lc):
		p.emit(Op{Kind: OpReplace, Index: i, Live: lc, Fresh: fc})
		p.cur[i] = fc
	default:
		p.emit(Op{Kind: OpPatch, Index: i, Live: lc, Fresh: fc})
	}
}

// search returns the index of the first live node from start on that is the
// same as fc, or -1.
func (p *planner) search(start int, fc *dom.Node) int {
	for j := start; j < len(p.cur); j++ {
		if Same(fc, p.cur[j]) {
			return j
		}
	}
	return -1
}

// reorder brings the match found at j to position i. A match whose tag
// differs is superseded by the fresh node and stays where it is.
func (p *planner) reorder(i, j int, lc, fc *dom.Node) {
	match := p.cur[j]
	if fc != match && !sameTag(fc, match) {
		p.emit(Op{Kind: OpInsert, Index: i, Fresh: fc, Ref: lc})
		p.cur = slices.Insert(p.cur, i, fc)
		return
	}

	p.emit(Op{Kind: OpMove, Index: i, Live: match, Ref: lc})
	p.cur = slices.Delete(p.cur, j, j+1)
	p.cur = slices.Insert(p.cur, i, match)
	if fc != match {
		p.emit(Op{Kind: OpPatch, Index: i, Live: match, Fresh: fc})
	}
}
