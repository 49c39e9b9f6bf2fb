package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/livefir/neon/internal/diff"
)

// Collector provides simple built-in metrics collection with no external dependencies
type Collector struct {
	applicationMetrics *ApplicationMetrics
	operationCounters  map[string]*int64
	mu                 sync.RWMutex
	startTime          time.Time
}

// ApplicationMetrics tracks rendering performance data
type ApplicationMetrics struct {
	// Component lifecycle
	ComponentsMounted       int64 `json:"components_mounted"`
	ComponentsReleased      int64 `json:"components_released"`
	ActiveComponents        int64 `json:"active_components"`
	MaxConcurrentComponents int64 `json:"max_concurrent_components"`

	// Compilation
	TemplatesCompiled int64 `json:"templates_compiled"`
	CacheHits         int64 `json:"cache_hits"`

	// Rendering
	Renders      int64 `json:"renders"`
	RenderErrors int64 `json:"render_errors"`

	// Reconciliation
	Reconciles    int64 `json:"reconciles"`
	NodesMoved    int64 `json:"nodes_moved"`
	NodesAdded    int64 `json:"nodes_added"`
	NodesRemoved  int64 `json:"nodes_removed"`
	NodesReplaced int64 `json:"nodes_replaced"`
	Patches       int64 `json:"patches"`

	// Uptime
	StartTime time.Time     `json:"start_time"`
	Uptime    time.Duration `json:"uptime"`
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{
		applicationMetrics: &ApplicationMetrics{
			StartTime: time.Now(),
		},
		operationCounters: make(map[string]*int64),
		startTime:         time.Now(),
	}
}

// IncrementComponentMounted records a mounted component
func (c *Collector) IncrementComponentMounted() {
	atomic.AddInt64(&c.applicationMetrics.ComponentsMounted, 1)
	currentActive := atomic.AddInt64(&c.applicationMetrics.ActiveComponents, 1)

	// Update max concurrent if needed
	for {
		max := atomic.LoadInt64(&c.applicationMetrics.MaxConcurrentComponents)
		if currentActive <= max {
			break
		}
		if atomic.CompareAndSwapInt64(&c.applicationMetrics.MaxConcurrentComponents, max, currentActive) {
			break
		}
	}
}

// IncrementComponentReleased records a component that is no longer served
func (c *Collector) IncrementComponentReleased() {
	atomic.AddInt64(&c.applicationMetrics.ComponentsReleased, 1)
	atomic.AddInt64(&c.applicationMetrics.ActiveComponents, -1)
}

// RecordCompile records a compile request, served from cache or not
func (c *Collector) RecordCompile(cached bool) {
	if cached {
		atomic.AddInt64(&c.applicationMetrics.CacheHits, 1)
		return
	}
	atomic.AddInt64(&c.applicationMetrics.TemplatesCompiled, 1)
}

// IncrementRender records a render
func (c *Collector) IncrementRender() {
	atomic.AddInt64(&c.applicationMetrics.Renders, 1)
}

// IncrementRenderError records a failed render
func (c *Collector) IncrementRenderError() {
	atomic.AddInt64(&c.applicationMetrics.RenderErrors, 1)
}

// RecordReconcile records one reconciliation and the operations it applied
func (c *Collector) RecordReconcile(stats diff.Stats) {
	atomic.AddInt64(&c.applicationMetrics.Reconciles, 1)
	atomic.AddInt64(&c.applicationMetrics.NodesMoved, int64(stats.Moved))
	atomic.AddInt64(&c.applicationMetrics.NodesAdded, int64(stats.Appended+stats.Inserted))
	atomic.AddInt64(&c.applicationMetrics.NodesRemoved, int64(stats.Removed))
	atomic.AddInt64(&c.applicationMetrics.NodesReplaced, int64(stats.Replaced))
	atomic.AddInt64(&c.applicationMetrics.Patches, int64(stats.Patched))
}

// IncrementCustomCounter increments a custom named counter
func (c *Collector) IncrementCustomCounter(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if counter, exists := c.operationCounters[name]; exists {
		atomic.AddInt64(counter, 1)
	} else {
		var newCounter int64 = 1
		c.operationCounters[name] = &newCounter
	}
}

// GetMetrics returns current application metrics
func (c *Collector) GetMetrics() ApplicationMetrics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m := c.applicationMetrics
	return ApplicationMetrics{
		ComponentsMounted:       atomic.LoadInt64(&m.ComponentsMounted),
		ComponentsReleased:      atomic.LoadInt64(&m.ComponentsReleased),
		ActiveComponents:        atomic.LoadInt64(&m.ActiveComponents),
		MaxConcurrentComponents: atomic.LoadInt64(&m.MaxConcurrentComponents),
		TemplatesCompiled:       atomic.LoadInt64(&m.TemplatesCompiled),
		CacheHits:               atomic.LoadInt64(&m.CacheHits),
		Renders:                 atomic.LoadInt64(&m.Renders),
		RenderErrors:            atomic.LoadInt64(&m.RenderErrors),
		Reconciles:              atomic.LoadInt64(&m.Reconciles),
		NodesMoved:              atomic.LoadInt64(&m.NodesMoved),
		NodesAdded:              atomic.LoadInt64(&m.NodesAdded),
		NodesRemoved:            atomic.LoadInt64(&m.NodesRemoved),
		NodesReplaced:           atomic.LoadInt64(&m.NodesReplaced),
		Patches:                 atomic.LoadInt64(&m.Patches),
		StartTime:               m.StartTime,
		Uptime:                  time.Since(c.startTime),
	}
}

// GetCustomCounters returns all custom counters
func (c *Collector) GetCustomCounters() map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]int64)
	for name, counter := range c.operationCounters {
		result[name] = atomic.LoadInt64(counter)
	}
	return result
}

// Reset resets all metrics to zero
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.applicationMetrics
	for _, counter := range []*int64{
		&m.ComponentsMounted, &m.ComponentsReleased, &m.ActiveComponents, &m.MaxConcurrentComponents,
		&m.TemplatesCompiled, &m.CacheHits,
		&m.Renders, &m.RenderErrors,
		&m.Reconciles, &m.NodesMoved, &m.NodesAdded, &m.NodesRemoved, &m.NodesReplaced, &m.Patches,
	} {
		atomic.StoreInt64(counter, 0)
	}

	// Reset custom counters
	c.operationCounters = make(map[string]*int64)

	// Reset start time
	c.startTime = time.Now()
	m.StartTime = c.startTime
}

// GetErrorRate returns the percentage of renders that failed
func (c *Collector) GetErrorRate() float64 {
	renders := atomic.LoadInt64(&c.applicationMetrics.Renders)
	errors := atomic.LoadInt64(&c.applicationMetrics.RenderErrors)

	if renders+errors == 0 {
		return 0.0
	}

	return float64(errors) / float64(renders+errors) * 100.0
}

// GetCacheHitRate returns the percentage of compile requests served from cache
func (c *Collector) GetCacheHitRate() float64 {
	hits := atomic.LoadInt64(&c.applicationMetrics.CacheHits)
	compiled := atomic.LoadInt64(&c.applicationMetrics.TemplatesCompiled)

	total := hits + compiled
	if total == 0 {
		return 0.0
	}

	return float64(hits) / float64(total) * 100.0
}
