package compiler

import (
	"fmt"
	"strings"

	"github.com/livefir/neon/internal/accessor"
)

// binding is a loop variable in scope.
type binding struct {
	name  string
	value any
}

// state carries one render pass. Loop variables live in scope and shadow the
// data object, so rendering never writes to the data.
type state struct {
	w     *strings.Builder
	data  any
	scope []binding
	depth int
	tmpl  *Template
}

// resolve looks key up in the innermost binding of its first segment, and
// falls back to the data object.
func (s *state) resolve(key string) any {
	head, rest, nested := strings.Cut(key, ".")
	for i := len(s.scope) - 1; i >= 0; i-- {
		if s.scope[i].name != head {
			continue
		}
		if !nested {
			return accessor.Normalize(s.scope[i].value)
		}
		return accessor.Get(s.scope[i].value, rest)
	}
	return accessor.Get(s.data, key)
}

func (s *state) walk(list *ListNode) error {
	if list == nil {
		return nil
	}
	for _, n := range list.Nodes {
		if err := s.node(n); err != nil {
			return err
		}
	}
	return nil
}

func (s *state) node(n Node) error {
	switch n := n.(type) {
	case *TextNode:
		s.w.WriteString(n.Text)
	case *InterpNode:
		s.w.WriteString(accessor.Format(s.resolve(n.Key)))
	case *AttrNode:
		if v := s.resolve(n.Key); !accessor.IsEmpty(v) {
			s.w.WriteString(n.Name + `="` + accessor.Format(v) + `"`)
		}
	case *BindNode:
		s.w.WriteString(` value="` + accessor.Format(s.resolve(n.Key)) + `"`)
	case *IfNode:
		if accessor.Truthy(s.resolve(n.Key)) != n.Not {
			return s.walk(n.Then)
		}
		return s.walk(n.Else)
	case *ForNode:
		return s.loop(n)
	case *PartialNode:
		return s.partial(n)
	case *ListNode:
		return s.walk(n)
	default:
		return fmt.Errorf("unexpected node %T", n)
	}
	return nil
}

func (s *state) loop(n *ForNode) error {
	coll := s.resolve(n.Key)
	items := accessor.Iterate(coll)
	if len(items) > 0 {
		s.scope = append(s.scope, binding{name: n.Var})
		top := len(s.scope) - 1
		for _, item := range items {
			s.scope[top].value = item
			if err := s.walk(n.Body); err != nil {
				s.scope = s.scope[:top]
				return err
			}
		}
		s.scope = s.scope[:top]
	}
	if n.Else != nil && !accessor.Truthy(coll) {
		return s.walk(n.Else)
	}
	return nil
}

func (s *state) partial(n *PartialNode) error {
	c := s.tmpl.compiler
	src, ok := c.partials.Lookup(n.Name)
	if !ok {
		c.log().Warn("unknown partial ignored", "partial", n.Name, "pos", n.Pos)
		return nil
	}
	if s.depth >= maxPartialDepth {
		return fmt.Errorf("%w: {>%s}", ErrPartialDepth, n.Name)
	}
	t, err := c.Compile(src)
	if err != nil {
		return fmt.Errorf("partial %q: %w", n.Name, err)
	}
	prev := s.tmpl
	s.tmpl = t
	s.depth++
	err = s.walk(t.root)
	s.depth--
	s.tmpl = prev
	return err
}
