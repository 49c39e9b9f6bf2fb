// Package dom is the mutable node tree the differ reconciles.
//
// Markup is parsed with golang.org/x/net/html. Unlike html.Node, a Node keeps
// the live state of form controls (value, checked, disabled, indeterminate,
// selected) separately from its attributes, the way a browser does.
package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Node is an element, text or comment node.
type Node struct {
	Type      html.NodeType
	Data      string // lower-case tag name, or the text payload
	Namespace string
	Attr      []html.Attribute

	Parent   *Node
	Children []*Node

	Value         string
	Checked       bool
	Disabled      bool
	Indeterminate bool
	Selected      bool
}

// NewElement creates a detached element.
func NewElement(tag string, attrs ...html.Attribute) *Node {
	n := &Node{Type: html.ElementNode, Data: strings.ToLower(tag), Attr: attrs}
	n.initState()
	return n
}

// NewText creates a detached text node.
func NewText(text string) *Node {
	return &Node{Type: html.TextNode, Data: text}
}

// NewComment creates a detached comment node.
func NewComment(text string) *Node {
	return &Node{Type: html.CommentNode, Data: text}
}

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool { return n != nil && n.Type == html.ElementNode }

// IsText reports whether n carries a text payload (text or comment).
func (n *Node) IsText() bool {
	return n != nil && (n.Type == html.TextNode || n.Type == html.CommentNode)
}

// Tag returns the tag name of an element and "" for other nodes.
func (n *Node) Tag() string {
	if !n.IsElement() {
		return ""
	}
	return n.Data
}

// IsCustom reports whether n is a custom element (its tag contains a hyphen).
func (n *Node) IsCustom() bool {
	return n.IsElement() && strings.Contains(n.Data, "-")
}

// ID returns the id attribute, or "".
func (n *Node) ID() string {
	if !n.IsElement() {
		return ""
	}
	id, _ := n.GetAttr("id")
	return id
}

// InputType returns the lower-cased type of an input element, "text" by default.
func (n *Node) InputType() string {
	t, ok := n.GetAttr("type")
	if !ok || t == "" {
		return "text"
	}
	return strings.ToLower(t)
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// IndexOf returns the position of child among n's children, or -1.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// detach removes n from its current parent, if any.
func (n *Node) detach() {
	if n.Parent == nil {
		return
	}
	p := n.Parent
	if i := p.IndexOf(n); i >= 0 {
		p.Children = append(p.Children[:i], p.Children[i+1:]...)
	}
	n.Parent = nil
}

// AppendChild moves child to the end of n's children.
func (n *Node) AppendChild(child *Node) {
	child.detach()
	child.Parent = n
	n.Children = append(n.Children, child)
}

// InsertBefore moves child before ref. A nil ref appends.
func (n *Node) InsertBefore(child, ref *Node) {
	if ref == nil {
		n.AppendChild(child)
		return
	}
	if child == ref {
		return
	}
	child.detach()
	i := n.IndexOf(ref)
	if i < 0 {
		n.AppendChild(child)
		return
	}
	child.Parent = n
	n.Children = append(n.Children, nil)
	copy(n.Children[i+1:], n.Children[i:])
	n.Children[i] = child
}

// RemoveChild detaches child from n. It is a no-op for nodes that are not
// children of n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		return
	}
	child.detach()
}

// ReplaceChild puts newChild in the place of old and detaches old.
func (n *Node) ReplaceChild(newChild, old *Node) {
	if newChild == old {
		return
	}
	if old.Parent != n {
		n.AppendChild(newChild)
		return
	}
	newChild.detach()
	i := n.IndexOf(old)
	n.Children[i] = newChild
	newChild.Parent = n
	old.Parent = nil
}

// TextContent concatenates the text of n and its descendants.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Data
	}
	var sb strings.Builder
	for _, c := range n.Children {
		if c.Type == html.CommentNode {
			continue
		}
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

// Find returns the first node in document order, n included, that matches.
func (n *Node) Find(match func(*Node) bool) *Node {
	if match(n) {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every node in document order, n included, that matches.
func (n *Node) FindAll(match func(*Node) bool) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(x *Node) {
		if match(x) {
			out = append(out, x)
		}
		for _, c := range x.Children {
			walk(c)
		}
	}
	walk(n)
	return out
}

// ByID returns the first element whose id is id.
func (n *Node) ByID(id string) *Node {
	return n.Find(func(x *Node) bool { return x.ID() == id })
}

// initState seeds form-control state from attributes, as a parser does.
func (n *Node) initState() {
	if !n.IsElement() {
		return
	}
	switch n.Data {
	case "input":
		n.Value, _ = n.GetAttr("value")
		n.Checked = n.HasAttr("checked")
		n.Disabled = n.HasAttr("disabled")
		n.Indeterminate = n.HasAttr("indeterminate")
	case "textarea":
		n.Value = n.TextContent()
		n.Disabled = n.HasAttr("disabled")
	case "option":
		n.Selected = n.HasAttr("selected")
		n.Disabled = n.HasAttr("disabled")
	case "select", "button":
		n.Disabled = n.HasAttr("disabled")
	}
}

// Path returns an XPath-like location of n, used to describe changes.
func (n *Node) Path() string {
	if n.Parent == nil {
		if n.IsText() {
			return "text()"
		}
		return n.Data
	}

	parentPath := n.Parent.Path()
	switch n.Type {
	case html.TextNode:
		return fmt.Sprintf("%s/text()[%d]", parentPath, n.Parent.IndexOf(n)+1)
	case html.CommentNode:
		return fmt.Sprintf("%s/comment()[%d]", parentPath, n.Parent.IndexOf(n)+1)
	}

	position := 0
	for _, sibling := range n.Parent.Children {
		if sibling == n {
			break
		}
		if sibling.Type == n.Type && sibling.Data == n.Data {
			position++
		}
	}
	if position > 0 {
		return fmt.Sprintf("%s/%s[%d]", parentPath, n.Data, position+1)
	}
	return fmt.Sprintf("%s/%s", parentPath, n.Data)
}
