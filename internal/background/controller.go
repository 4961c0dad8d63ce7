// Package background implements the periodic maintenance workers of the
// filter server: scheduled flushing, cold-filter unmapping, and
// memory-pressure eviction, all coordinated against one shared filter
// registry. Workers wake every 250ms, checkpoint the registry on every
// wake, and run their actual maintenance action once per configured
// interval.
package background

import (
	"sync"

	"go.uber.org/zap"

	"github.com/PUNCH-Cyber/bloomd/internal/registry"
	"github.com/PUNCH-Cyber/bloomd/internal/sysmem"
)

// Worker is a handle to a launched maintenance worker.
type Worker struct {
	name string
	done chan struct{}
}

// Name identifies the worker: "flush", "cold_unmap" or "memory_check".
func (w *Worker) Name() string { return w.name }

// Done closes when the worker goroutine has exited.
func (w *Worker) Done() <-chan struct{} { return w.done }

// Controller starts and stops the maintenance workers. It owns the shared
// cancellation signal: workers observe it between wakes, so stopping never
// interrupts a registry call in progress.
type Controller struct {
	cfg     Config
	reg     registry.Registry
	sampler sysmem.Sampler
	log     *zap.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewController wires a controller to the shared registry. The sampler may
// be nil when memory sampling is unavailable; the memory check worker is
// then never started.
func NewController(cfg Config, reg registry.Registry, sampler sysmem.Sampler, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		cfg:     cfg,
		reg:     reg,
		sampler: sampler,
		log:     log,
		stopCh:  make(chan struct{}),
	}
}

// Start launches every worker whose configured interval enables it.
func (c *Controller) Start() {
	c.StartFlushWorker()
	c.StartColdUnmapWorker()
	c.StartMemoryCheckWorker()
}

// StartFlushWorker launches the periodic flush worker, or returns nil when
// FlushInterval disables it.
func (c *Controller) StartFlushWorker() *Worker {
	if c.cfg.FlushInterval <= 0 {
		return nil
	}
	w := newFlushWorker(c.cfg, c.reg, c.stopCh, c.log)
	return c.launch("flush", w.run)
}

// StartColdUnmapWorker launches the cold unmap worker, or returns nil when
// ColdInterval disables it.
func (c *Controller) StartColdUnmapWorker() *Worker {
	if c.cfg.ColdInterval <= 0 {
		return nil
	}
	w := newColdUnmapWorker(c.cfg, c.reg, c.stopCh, c.log)
	return c.launch("cold_unmap", w.run)
}

// StartMemoryCheckWorker launches the memory watermark worker. Returns nil
// when MemoryCheckInterval disables it, or when total system memory cannot
// be sampled; the latter is logged and never fatal.
func (c *Controller) StartMemoryCheckWorker() *Worker {
	if c.cfg.MemoryCheckInterval <= 0 {
		return nil
	}
	if c.sampler == nil {
		c.log.Warn("Memory check disabled: no memory sampler available")
		return nil
	}
	w, err := newMemoryCheckWorker(c.cfg, c.reg, c.sampler, c.stopCh, c.log)
	if err != nil {
		c.log.Warn("Memory check disabled", zap.Error(err))
		return nil
	}
	return c.launch("memory_check", w.run)
}

func (c *Controller) launch(name string, run func()) *Worker {
	handle := &Worker{name: name, done: make(chan struct{})}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(handle.done)
		run()
	}()
	return handle
}

// Stop sets the shared cancellation signal and waits for every worker to
// finish any in-flight pass and exit. Safe to call more than once.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
	c.wg.Wait()
}
