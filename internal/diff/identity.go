package diff

import (
	"golang.org/x/net/html"

	"github.com/livefir/neon/internal/dom"
)

// Same reports whether fresh and live stand for the same logical node.
//
// An id on fresh decides alone. Without one, the same instance matches, and
// two text nodes match when their payloads are equal. Anything else is not
// the same node, even with equal tags.
func Same(fresh, live *dom.Node) bool {
	if fresh == nil || live == nil {
		return false
	}
	if id := fresh.ID(); id != "" {
		return id == live.ID()
	}
	if fresh == live {
		return true
	}
	if !sameTag(fresh, live) {
		return false
	}
	if fresh.Type == html.TextNode {
		return fresh.Data == live.Data
	}
	return false
}

// sameTag compares node kinds and, for elements, tag names. Text and comment
// nodes never share a tag.
func sameTag(a, b *dom.Node) bool {
	if a.Type != b.Type {
		return false
	}
	if a.IsElement() {
		return a.Data == b.Data && a.Namespace == b.Namespace
	}
	return true
}

// anonymous reports whether neither node carries an id.
func anonymous(a, b *dom.Node) bool {
	return a.ID() == "" && b.ID() == ""
}
