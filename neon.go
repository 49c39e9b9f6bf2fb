package neon

import (
	"github.com/livefir/neon/internal/compiler"
	"github.com/livefir/neon/internal/diff"
	"github.com/livefir/neon/internal/dom"
	"github.com/livefir/neon/internal/reactive"
)

type (
	// Template is a compiled template.
	Template = compiler.Template
	// Diagnostic is a non-fatal problem found while compiling.
	Diagnostic = compiler.Diagnostic
	// Partials is a registry of named templates for {>name} includes.
	Partials = compiler.Partials

	// Object is reactive data.
	Object = reactive.Object
	// Slice is an observable sequence held by an Object.
	Slice = reactive.Slice

	// Node is a node of a live or freshly parsed tree.
	Node = dom.Node

	// ReconcileOptions controls Reconcile.
	ReconcileOptions = diff.Options
	// Change is one mutation made by a reconciliation.
	Change = diff.Change
	// Stats counts the operations a reconciliation applied.
	Stats = diff.Stats
)

// Compile compiles src with the process-wide cache.
func Compile(src string) (*Template, error) {
	return compiler.Compile(src)
}

// NewPartials creates an empty partial registry.
func NewPartials() *Partials {
	return compiler.NewPartials()
}

// MakeReactive wraps data so that writes to any key in deps call onChange.
func MakeReactive(data map[string]any, deps []string, onChange func()) *Object {
	return reactive.MakeReactive(data, deps, onChange)
}

// Reconcile mutates live to match fresh and returns the node for live's slot.
func Reconcile(live, fresh *Node, opts ReconcileOptions) *Node {
	return diff.Reconcile(live, fresh, opts)
}

// ParseHTML parses a markup fragment into a detached body node.
func ParseHTML(markup string) (*Node, error) {
	return dom.Parse(markup)
}
