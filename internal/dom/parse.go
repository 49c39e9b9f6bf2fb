package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var bodyContext = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

// Parse parses a markup fragment as the content of a <body> element and
// returns a detached body node holding the result.
func Parse(markup string) (*Node, error) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), bodyContext)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML fragment: %w", err)
	}
	root := NewElement("body")
	for _, hn := range nodes {
		if c := convert(hn); c != nil {
			root.AppendChild(c)
		}
	}
	return root, nil
}

// NewRoot returns an empty detached body node to mount into.
func NewRoot() *Node {
	return NewElement("body")
}

// convert copies an html.Node subtree. Doctype and document nodes are dropped.
func convert(hn *html.Node) *Node {
	var n *Node
	switch hn.Type {
	case html.ElementNode:
		n = &Node{
			Type:      html.ElementNode,
			Data:      hn.Data,
			Namespace: hn.Namespace,
			Attr:      append([]html.Attribute(nil), hn.Attr...),
		}
	case html.TextNode:
		n = NewText(hn.Data)
	case html.CommentNode:
		n = NewComment(hn.Data)
	default:
		return nil
	}
	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		if cn := convert(c); cn != nil {
			n.AppendChild(cn)
		}
	}
	n.initState()
	return n
}

// toHTML copies n into an html.Node subtree for rendering.
func toHTML(n *Node) *html.Node {
	hn := &html.Node{Type: n.Type, Data: n.Data, Namespace: n.Namespace}
	if n.IsElement() {
		hn.DataAtom = atom.Lookup([]byte(n.Data))
		hn.Attr = append([]html.Attribute(nil), n.Attr...)
	}
	for _, c := range n.Children {
		hn.AppendChild(toHTML(c))
	}
	return hn
}

// Render writes the markup of n, n included.
func (n *Node) Render(w io.Writer) error {
	return html.Render(w, toHTML(n))
}

// String returns the markup of n, n included.
func (n *Node) String() string {
	var buf bytes.Buffer
	if err := n.Render(&buf); err != nil {
		return fmt.Sprintf("<!-- render error: %v -->", err)
	}
	return buf.String()
}

// InnerHTML returns the markup of n's children.
func (n *Node) InnerHTML() string {
	var buf bytes.Buffer
	for _, c := range n.Children {
		if err := c.Render(&buf); err != nil {
			return fmt.Sprintf("<!-- render error: %v -->", err)
		}
	}
	return buf.String()
}
