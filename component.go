package neon

import (
	"fmt"
	"io"

	"github.com/livefir/neon/internal/accessor"
	"github.com/livefir/neon/internal/compiler"
	"github.com/livefir/neon/internal/diff"
	"github.com/livefir/neon/internal/dom"
	"github.com/livefir/neon/internal/metrics"
	"github.com/livefir/neon/internal/reactive"
)

// bindAttr marks an input or textarea as bound to a data key.
const bindAttr = "(bind)"

// Report describes one render: what the reconciliation did to the live tree.
type Report struct {
	Stats   diff.Stats    `json:"stats"`
	Changes []diff.Change `json:"changes"`
}

// Component is a compiled template mounted on reactive data and a live tree.
// A Component is not safe for concurrent use.
type Component struct {
	config   Config
	tmpl     *compiler.Template
	data     *reactive.Object
	root     *dom.Node
	onRender []func(Report)
	closed   bool
}

// Mount compiles src, makes data reactive on the template's dependencies and
// renders into a fresh live root. data is instrumented in place.
func Mount(src string, data map[string]any, opts ...Option) (*Component, error) {
	config := newConfig(opts)
	comp := config.newCompiler()

	_, cached := comp.Cache().Get(src)
	tmpl, err := comp.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("failed to compile template: %w", err)
	}
	config.Metrics.RecordCompile(cached)

	c := &Component{
		config: config,
		tmpl:   tmpl,
		root:   dom.NewRoot(),
	}
	c.data = reactive.MakeReactive(data, tmpl.Dependencies(), c.onChange)

	if err := c.Render(); err != nil {
		return nil, err
	}
	config.Metrics.IncrementComponentMounted()
	return c, nil
}

func (c *Component) onChange() {
	if err := c.Render(); err != nil {
		c.config.Logger.Error("re-render failed", "error", err)
	}
}

// Render renders the template against the current data and reconciles the
// result into the live root.
func (c *Component) Render() error {
	markup, err := c.tmpl.Render(c.data)
	if err != nil {
		c.config.Metrics.IncrementRenderError()
		return fmt.Errorf("failed to render template: %w", err)
	}
	if c.config.Minify {
		markup = minifyHTML(markup)
	}

	fresh, err := dom.Parse(markup)
	if err != nil {
		c.config.Metrics.IncrementRenderError()
		return fmt.Errorf("failed to parse rendered markup: %w", err)
	}

	var report Report
	opts := diff.Options{ChildrenOnly: true}
	if len(c.onRender) > 0 {
		opts.Observer = func(ch diff.Change) {
			report.Changes = append(report.Changes, ch)
		}
	}
	_, report.Stats = diff.ReconcileStats(c.root, fresh, opts)

	c.config.Metrics.IncrementRender()
	c.config.Metrics.RecordReconcile(report.Stats)
	c.config.Logger.Debug("rendered",
		"structural", report.Stats.Structural(),
		"patched", report.Stats.Patched)

	for _, fn := range c.onRender {
		fn(report)
	}
	return nil
}

// OnRender registers fn to be called after every render with its report.
func (c *Component) OnRender(fn func(Report)) {
	c.onRender = append(c.onRender, fn)
}

// Template returns the compiled template.
func (c *Component) Template() *compiler.Template { return c.tmpl }

// Root returns the live root. Its children are the rendered nodes.
func (c *Component) Root() *dom.Node { return c.root }

// Data returns the reactive data the component renders.
func (c *Component) Data() *reactive.Object { return c.data }

// Metrics returns the collector the component records into.
func (c *Component) Metrics() *metrics.Collector { return c.config.Metrics }

// HTML returns the markup of the live tree.
func (c *Component) HTML() string { return c.root.InnerHTML() }

// WriteHTML writes the markup of the live tree to w.
func (c *Component) WriteHTML(w io.Writer) error {
	for _, n := range c.root.Children {
		if err := n.Render(w); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the value stored under key.
func (c *Component) Get(key string) any { return c.data.Get(key) }

// Set stores v under key. Writes to a dependency re-render before Set returns.
func (c *Component) Set(key string, v any) { c.data.Set(key, v) }

// Bound returns the live elements bound to key, in document order.
func (c *Component) Bound(key string) []*dom.Node {
	return c.root.FindAll(func(n *dom.Node) bool {
		v, ok := n.GetAttr(bindAttr)
		return ok && v == key
	})
}

// DispatchInput delivers a user edit to a bound element: the control takes
// value and the bound key is set to it.
func (c *Component) DispatchInput(el *dom.Node, value string) error {
	key, ok := el.GetAttr(bindAttr)
	if !ok || key == "" {
		return fmt.Errorf("%w: <%s>", ErrNotBound, el.Tag())
	}
	el.Value = value
	c.data.Set(key, value)
	return nil
}

// Input delivers a user edit to the first element bound to key.
func (c *Component) Input(key string, value any) error {
	bound := c.Bound(key)
	if len(bound) == 0 {
		return fmt.Errorf("%w: no element for %q", ErrNotBound, key)
	}
	return c.DispatchInput(bound[0], accessor.Format(value))
}

// Close releases the component from its metrics. The live tree stays usable.
func (c *Component) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.config.Metrics.IncrementComponentReleased()
}
