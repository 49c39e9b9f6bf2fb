package compiler

import (
	"fmt"
	"strings"
)

// Node is an element of a parsed template.
type Node interface {
	String() string
	Position() int
}

// ListNode holds a sequence of nodes.
type ListNode struct {
	Pos   int
	Nodes []Node
}

func (l *ListNode) append(n Node) { l.Nodes = append(l.Nodes, n) }

func (l *ListNode) Position() int { return l.Pos }

func (l *ListNode) String() string {
	var sb strings.Builder
	for _, n := range l.Nodes {
		sb.WriteString(n.String())
	}
	return sb.String()
}

// TextNode is literal output.
type TextNode struct {
	Pos  int
	Text string
}

func (t *TextNode) Position() int  { return t.Pos }
func (t *TextNode) String() string { return t.Text }

// InterpNode writes the resolved value of Key without escaping.
type InterpNode struct {
	Pos int
	Key string
}

func (i *InterpNode) Position() int  { return i.Pos }
func (i *InterpNode) String() string { return "{" + i.Key + "}" }

// PartialNode renders the partial registered under Name with the current data.
type PartialNode struct {
	Pos  int
	Name string
}

func (p *PartialNode) Position() int  { return p.Pos }
func (p *PartialNode) String() string { return "{>" + p.Name + "}" }

// IfNode renders Then when Key is truthy (falsy with Not), Else otherwise.
type IfNode struct {
	Pos  int
	Key  string
	Not  bool
	Then *ListNode
	Else *ListNode
}

func (i *IfNode) Position() int { return i.Pos }

func (i *IfNode) String() string {
	not := ""
	if i.Not {
		not = "not "
	}
	s := fmt.Sprintf("{if %s%s}%s", not, i.Key, i.Then)
	if i.Else != nil {
		s += "{else}" + i.Else.String()
	}
	return s + "{/if}"
}

// ForNode renders Body once per item of Key, binding each item to Var.
// Else renders when the collection is empty.
type ForNode struct {
	Pos  int
	Var  string
	Key  string
	Body *ListNode
	Else *ListNode
}

func (f *ForNode) Position() int { return f.Pos }

func (f *ForNode) String() string {
	s := fmt.Sprintf("{for %s in %s}%s", f.Var, f.Key, f.Body)
	if f.Else != nil {
		s += "{else}" + f.Else.String()
	}
	return s + "{/for}"
}

// AttrNode writes Name="value" only when Key resolves to a non-empty value.
type AttrNode struct {
	Pos  int
	Name string
	Key  string
}

func (a *AttrNode) Position() int  { return a.Pos }
func (a *AttrNode) String() string { return fmt.Sprintf(`[%s]="%s"`, a.Name, a.Key) }

// BindNode writes the value attribute of a two-way bound control.
type BindNode struct {
	Pos int
	Key string
}

func (b *BindNode) Position() int  { return b.Pos }
func (b *BindNode) String() string { return "" }
