package background

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/PUNCH-Cyber/bloomd/internal/metrics"
	"github.com/PUNCH-Cyber/bloomd/internal/registry"
	"github.com/PUNCH-Cyber/bloomd/internal/sysmem"
)

// memoryCheckWorker samples process resident memory on its interval and,
// when it crosses the high watermark, evicts (flush + unmap) filters in
// enumeration order until resident memory falls back to the low watermark.
// The gap between the two watermarks is the hysteresis band: stopping
// exactly at the trigger point would re-trigger eviction on the very next
// sample.
type memoryCheckWorker struct {
	loop      *wakeLoop
	reg       registry.Registry
	log       *zap.Logger
	sampler   sysmem.Sampler
	interval  int
	maxBytes  uint64
	safeBytes uint64
}

// newMemoryCheckWorker derives both watermarks from a single total-memory
// sample. They stay fixed for the worker's lifetime even if the host's
// memory limit later changes (e.g. a container resize).
func newMemoryCheckWorker(cfg Config, reg registry.Registry, sampler sysmem.Sampler, stop <-chan struct{}, log *zap.Logger) (*memoryCheckWorker, error) {
	total, err := sampler.TotalMemory()
	if err != nil {
		return nil, fmt.Errorf("sample total system memory: %w", err)
	}

	w := &memoryCheckWorker{
		loop:      newWakeLoop(reg, stop, cfg.MemoryCheckInterval),
		reg:       reg,
		log:       log.Named("memory_check"),
		sampler:   sampler,
		interval:  cfg.MemoryCheckInterval,
		maxBytes:  total * uint64(cfg.MaxMemoryPercent) / 100,
		safeBytes: total * uint64(cfg.SafeMemoryPercent) / 100,
	}
	metrics.MaxMemoryBytes.Set(float64(w.maxBytes))
	metrics.SafeMemoryBytes.Set(float64(w.safeBytes))
	return w, nil
}

func (w *memoryCheckWorker) run() {
	checkpoint(w.reg)
	w.log.Info("Memory check worker started",
		zap.Int("interval_seconds", w.interval),
		zap.Uint64("max_memory_bytes", w.maxBytes),
		zap.Uint64("safe_memory_bytes", w.safeBytes))
	w.loop.run(w.pass)
}

// pass samples resident memory and runs the eviction loop when it exceeds
// the high watermark. Eviction stops as soon as resident memory reaches the
// low watermark, or when the enumeration is exhausted; in the latter case
// the worker simply resumes periodic sampling on its next trigger.
func (w *memoryCheckWorker) pass() {
	current, err := w.sampler.ResidentMemory()
	if err != nil {
		w.log.Warn("Failed to sample resident memory", zap.Error(err))
		return
	}
	metrics.ResidentMemoryBytes.Set(float64(current))
	if current <= w.maxBytes {
		return
	}

	w.log.Info("Max memory exceeded. Unmapping filters to reclaim RAM",
		zap.Uint64("resident_bytes", current),
		zap.Uint64("max_memory_bytes", w.maxBytes))
	list, err := w.reg.ListFilters()
	if err != nil {
		w.log.Warn("Failed to list filters for eviction", zap.Error(err))
		metrics.EnumerationFailuresTotal.WithLabelValues("memory_check").Inc()
		return
	}
	defer w.reg.Release(list)

	metrics.EvictionPassesTotal.Inc()
	var cmds int
	for _, name := range list.Names {
		if current <= w.safeBytes {
			break
		}
		w.log.Info("Unmapping filter to free RAM", zap.String("filter", name))
		_ = w.reg.FlushAndUnmap(name)
		metrics.EvictedFiltersTotal.Inc()
		cmds++
		if cmds%checkpointEvery == 0 {
			checkpoint(w.reg)
		}

		current, err = w.sampler.ResidentMemory()
		if err != nil {
			w.log.Warn("Failed to re-sample resident memory, aborting eviction", zap.Error(err))
			return
		}
		metrics.ResidentMemoryBytes.Set(float64(current))
	}
}
