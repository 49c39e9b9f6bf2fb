// Package compiler turns directive templates into render programs.
//
// A template is lexed into tokens, parsed into a node tree and evaluated by a
// tree-walking renderer. Compiled templates are cached by their exact source
// string, so compiling the same string twice returns the same *Template.
//
// Supported directives:
//
//	{key}                          raw interpolation of a dotted path
//	{>name}                        include a registered partial
//	{if key}…{else}…{/if}          conditional, {if not key} inverts it
//	{for item in key}…{else}…{/for} loop; else renders for an empty collection
//	[attr]="key"                   attribute rendered only for a non-empty value
//	(bind)="key"                   two-way binding on input and textarea tags
//	\{…}                           literal directive text
package compiler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"
)

var (
	// ErrInvalidTemplate is returned for sources that cannot be lexed.
	ErrInvalidTemplate = errors.New("invalid template")

	// ErrPartialDepth is returned when partial includes nest too deeply,
	// which usually means a partial includes itself.
	ErrPartialDepth = errors.New("partial nesting too deep")
)

// maxPartialDepth bounds nested partial includes.
const maxPartialDepth = 32

// Template is a compiled template.
type Template struct {
	source   string
	root     *ListNode
	deps     []string
	bound    []string
	partials []string
	diags    []Diagnostic
	compiler *Compiler
}

// Source returns the template source the program was compiled from.
func (t *Template) Source() string { return t.source }

// Root returns the parsed node tree.
func (t *Template) Root() *ListNode { return t.root }

// Dependencies returns every data key the template reads, in first-use order.
func (t *Template) Dependencies() []string { return append([]string(nil), t.deps...) }

// BoundDependencies returns the keys bound two-way through (bind) inputs.
func (t *Template) BoundDependencies() []string { return append([]string(nil), t.bound...) }

// Diagnostics returns the non-fatal problems found while compiling.
func (t *Template) Diagnostics() []Diagnostic { return append([]Diagnostic(nil), t.diags...) }

// Render evaluates the template against data and returns the markup.
func (t *Template) Render(data any) (string, error) {
	var sb strings.Builder
	s := &state{w: &sb, data: data, tmpl: t}
	if err := s.walk(t.root); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Execute renders the template against data into w.
func (t *Template) Execute(w io.Writer, data any) error {
	out, err := t.Render(data)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// Compiler compiles and caches templates and resolves partials.
type Compiler struct {
	cache     *Cache
	partials  *Partials
	logger    *slog.Logger
	onCompile func(cached bool)
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithCache sets the cache compiled templates are stored in.
func WithCache(c *Cache) Option {
	return func(cp *Compiler) { cp.cache = c }
}

// WithPartials sets the registry {>name} directives resolve against.
func WithPartials(p *Partials) Option {
	return func(cp *Compiler) { cp.partials = p }
}

// WithLogger sets the logger diagnostics are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(cp *Compiler) { cp.logger = l }
}

// WithCompileHook registers a callback invoked on every Compile call,
// reporting whether the result came from the cache.
func WithCompileHook(fn func(cached bool)) Option {
	return func(cp *Compiler) { cp.onCompile = fn }
}

// New creates a Compiler. Without options it uses a private cache and
// partial registry and logs through slog.Default.
func New(opts ...Option) *Compiler {
	c := &Compiler{}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = NewCache()
	}
	if c.partials == nil {
		c.partials = NewPartials()
	}
	return c
}

// Partials returns the registry used for {>name} includes.
func (c *Compiler) Partials() *Partials { return c.partials }

// Cache returns the cache compiled templates are stored in.
func (c *Compiler) Cache() *Cache { return c.cache }

func (c *Compiler) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

// Compile returns the compiled form of src, compiling it on first use.
func (c *Compiler) Compile(src string) (*Template, error) {
	if t, ok := c.cache.Get(src); ok {
		c.hook(true)
		return t, nil
	}
	if !utf8.ValidString(src) {
		return nil, fmt.Errorf("%w: source is not valid UTF-8", ErrInvalidTemplate)
	}

	res := parse(src)
	t := &Template{
		source:   src,
		root:     res.root,
		partials: res.partials,
		diags:    res.diags,
		compiler: c,
	}
	deps, bound := res.deps, res.bound
	c.partialDeps(res.partials, &deps, &bound, map[string]bool{})
	t.deps = deps.list()
	t.bound = bound.list()

	for _, d := range t.diags {
		c.log().Warn("template diagnostic", "line", d.Line, "pos", d.Pos, "problem", d.Msg)
	}

	t = c.cache.put(src, t)
	c.hook(false)
	return t, nil
}

func (c *Compiler) hook(cached bool) {
	if c.onCompile != nil {
		c.onCompile(cached)
	}
}

// partialDeps merges the dependencies of partials registered at compile time.
func (c *Compiler) partialDeps(names []string, deps, bound *keySet, seen map[string]bool) {
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		src, ok := c.partials.Lookup(name)
		if !ok {
			continue
		}
		res := parse(src)
		for _, k := range res.deps.keys {
			deps.add(k)
		}
		for _, k := range res.bound.keys {
			bound.add(k)
		}
		c.partialDeps(res.partials, deps, bound, seen)
	}
}

// Partials is a registry of named templates for {>name} includes.
type Partials struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewPartials creates an empty registry.
func NewPartials() *Partials {
	return &Partials{m: make(map[string]string)}
}

// Register stores src under name, replacing any previous source.
func (p *Partials) Register(name, src string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m[name] = src
}

// Lookup returns the source registered under name.
func (p *Partials) Lookup(name string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	src, ok := p.m[name]
	return src, ok
}

// Len returns the number of registered partials.
func (p *Partials) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.m)
}

var defaultCompiler = New(WithCache(NewCache()))

// Default returns the process-wide compiler used by Compile.
func Default() *Compiler { return defaultCompiler }

// Compile compiles src with the process-wide compiler.
func Compile(src string) (*Template, error) {
	return defaultCompiler.Compile(src)
}
