package compiler

import (
	"fmt"
	"strings"
)

// Diagnostic is a non-fatal problem found while compiling or rendering.
type Diagnostic struct {
	Pos  int
	Line int
	Msg  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d: %s", d.Line, d.Msg)
}

// keySet is an insertion-ordered set of dependency keys.
type keySet struct {
	keys []string
	seen map[string]bool
}

func (s *keySet) add(key string) {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.keys = append(s.keys, key)
}

func (s *keySet) list() []string {
	return append([]string(nil), s.keys...)
}

type frame struct {
	kind  tokenKind // tokFor or tokIf
	ifn   *IfNode
	forn  *ForNode
	out   *ListNode
	elsed bool
}

// parseResult is everything the parser learns about a template.
type parseResult struct {
	root     *ListNode
	deps     keySet
	bound    keySet
	partials []string
	diags    []Diagnostic
}

type parser struct {
	src   string
	stack []*frame
	root  *ListNode
	res   *parseResult
}

// parse builds the node tree of src. Block mismatches never fail: they are
// reported as diagnostics and the offending directive is dropped.
func parse(src string) *parseResult {
	p := &parser{
		src:  strings.ReplaceAll(src, "\r", ""),
		root: &ListNode{},
		res:  &parseResult{},
	}
	p.res.root = p.root
	for _, t := range lex(src) {
		p.token(t)
	}
	for i := len(p.stack) - 1; i >= 0; i-- {
		p.diag(len(p.src), fmt.Sprintf("unclosed {%s} closed at end of template", p.stack[i].kind))
	}
	p.stack = nil
	return p.res
}

func (p *parser) out() *ListNode {
	if len(p.stack) == 0 {
		return p.root
	}
	return p.stack[len(p.stack)-1].out
}

func (p *parser) top() *frame {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

func (p *parser) diag(pos int, msg string) {
	line := 1 + strings.Count(p.src[:min(pos, len(p.src))], "\n")
	p.res.diags = append(p.res.diags, Diagnostic{Pos: pos, Line: line, Msg: msg})
}

func (p *parser) token(t token) {
	switch t.kind {
	case tokText:
		p.out().append(&TextNode{Pos: t.pos, Text: t.text})
	case tokInterp:
		p.res.deps.add(t.key)
		p.out().append(&InterpNode{Pos: t.pos, Key: t.key})
	case tokPartial:
		p.res.partials = append(p.res.partials, t.key)
		p.out().append(&PartialNode{Pos: t.pos, Name: t.key})
	case tokFor:
		p.res.deps.add(t.key)
		n := &ForNode{Pos: t.pos, Var: t.name, Key: t.key, Body: &ListNode{Pos: t.pos}}
		p.out().append(n)
		p.stack = append(p.stack, &frame{kind: tokFor, forn: n, out: n.Body})
	case tokIf:
		p.res.deps.add(t.key)
		n := &IfNode{Pos: t.pos, Key: t.key, Not: t.not, Then: &ListNode{Pos: t.pos}}
		p.out().append(n)
		p.stack = append(p.stack, &frame{kind: tokIf, ifn: n, out: n.Then})
	case tokElse:
		p.elseBranch(t)
	case tokEndFor, tokEndIf:
		p.closeBlock(t)
	case tokAttr:
		p.res.deps.add(t.key)
		p.out().append(&AttrNode{Pos: t.pos, Name: t.name, Key: t.key})
	case tokBind:
		p.res.deps.add(t.key)
		p.res.bound.add(t.key)
		p.out().append(&BindNode{Pos: t.pos, Key: t.key})
	}
}

func (p *parser) elseBranch(t token) {
	f := p.top()
	if f == nil || f.elsed {
		p.diag(t.pos, "extra {else} ignored")
		return
	}
	f.elsed = true
	branch := &ListNode{Pos: t.pos}
	if f.kind == tokIf {
		f.ifn.Else = branch
	} else {
		f.forn.Else = branch
	}
	f.out = branch
}

func (p *parser) closeBlock(t token) {
	want := tokIf
	if t.kind == tokEndFor {
		want = tokFor
	}
	f := p.top()
	if f == nil || f.kind != want {
		p.diag(t.pos, fmt.Sprintf("extra {%s} ignored", t.kind))
		return
	}
	p.stack = p.stack[:len(p.stack)-1]
}
