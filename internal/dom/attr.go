package dom

import "golang.org/x/net/html"

func (n *Node) attrIndex(ns, key string) int {
	for i, a := range n.Attr {
		if a.Namespace == ns && a.Key == key {
			return i
		}
	}
	return -1
}

// GetAttr returns the value of an attribute without namespace.
func (n *Node) GetAttr(key string) (string, bool) {
	return n.GetAttrNS("", key)
}

// GetAttrNS returns the value of a namespaced attribute.
func (n *Node) GetAttrNS(ns, key string) (string, bool) {
	if i := n.attrIndex(ns, key); i >= 0 {
		return n.Attr[i].Val, true
	}
	return "", false
}

// HasAttr reports whether an attribute without namespace is present.
func (n *Node) HasAttr(key string) bool {
	return n.attrIndex("", key) >= 0
}

// HasAttrNS reports whether a namespaced attribute is present.
func (n *Node) HasAttrNS(ns, key string) bool {
	return n.attrIndex(ns, key) >= 0
}

// SetAttr sets an attribute without namespace, keeping its position when it
// already exists.
func (n *Node) SetAttr(key, val string) {
	n.SetAttrNS("", key, val)
}

// SetAttrNS sets a namespaced attribute.
func (n *Node) SetAttrNS(ns, key, val string) {
	if i := n.attrIndex(ns, key); i >= 0 {
		n.Attr[i].Val = val
		return
	}
	n.Attr = append(n.Attr, html.Attribute{Namespace: ns, Key: key, Val: val})
}

// RemoveAttr removes an attribute without namespace.
func (n *Node) RemoveAttr(key string) {
	n.RemoveAttrNS("", key)
}

// RemoveAttrNS removes a namespaced attribute.
func (n *Node) RemoveAttrNS(ns, key string) {
	if i := n.attrIndex(ns, key); i >= 0 {
		n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
	}
}

// SetBoolAttr adds the attribute with an empty value when on and removes it otherwise.
func (n *Node) SetBoolAttr(key string, on bool) {
	if on {
		if !n.HasAttr(key) {
			n.SetAttr(key, "")
		}
		return
	}
	n.RemoveAttr(key)
}
