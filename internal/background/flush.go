package background

import (
	"go.uber.org/zap"

	"github.com/PUNCH-Cyber/bloomd/internal/metrics"
	"github.com/PUNCH-Cyber/bloomd/internal/registry"
)

// flushWorker periodically persists every filter's in-memory state to its
// durable representation.
type flushWorker struct {
	loop     *wakeLoop
	reg      registry.Registry
	log      *zap.Logger
	interval int
}

func newFlushWorker(cfg Config, reg registry.Registry, stop <-chan struct{}, log *zap.Logger) *flushWorker {
	return &flushWorker{
		loop:     newWakeLoop(reg, stop, cfg.FlushInterval),
		reg:      reg,
		log:      log.Named("flush"),
		interval: cfg.FlushInterval,
	}
}

func (w *flushWorker) run() {
	checkpoint(w.reg)
	w.log.Info("Flush worker started", zap.Int("interval_seconds", w.interval))
	w.loop.run(w.pass)
}

// pass flushes every filter currently known to the registry. Per-filter
// outcomes are ignored: a filter may be deleted by foreground traffic
// between enumeration and flush, which is an expected race.
func (w *flushWorker) pass() {
	w.log.Info("Scheduled flush started")
	list, err := w.reg.ListFilters()
	if err != nil {
		w.log.Warn("Failed to list filters for flushing", zap.Error(err))
		metrics.EnumerationFailuresTotal.WithLabelValues("flush").Inc()
		return
	}
	defer w.reg.Release(list)

	metrics.FlushPassesTotal.Inc()
	var cmds int
	for _, name := range list.Names {
		_ = w.reg.Flush(name)
		metrics.FlushedFiltersTotal.Inc()
		cmds++
		if cmds%checkpointEvery == 0 {
			checkpoint(w.reg)
		}
	}
}
