package background

import (
	"go.uber.org/zap"

	"github.com/PUNCH-Cyber/bloomd/internal/metrics"
	"github.com/PUNCH-Cyber/bloomd/internal/registry"
)

// coldUnmapWorker periodically unmaps filters the registry judges idle,
// releasing their mapped pages while the durable on-disk state stays intact
// for remapping on next access.
type coldUnmapWorker struct {
	loop     *wakeLoop
	reg      registry.Registry
	log      *zap.Logger
	interval int
}

func newColdUnmapWorker(cfg Config, reg registry.Registry, stop <-chan struct{}, log *zap.Logger) *coldUnmapWorker {
	return &coldUnmapWorker{
		loop:     newWakeLoop(reg, stop, cfg.ColdInterval),
		reg:      reg,
		log:      log.Named("cold_unmap"),
		interval: cfg.ColdInterval,
	}
}

func (w *coldUnmapWorker) run() {
	checkpoint(w.reg)
	w.log.Info("Cold unmap worker started", zap.Int("interval_seconds", w.interval))
	w.loop.run(w.pass)
}

// pass unmaps every cold filter. Per-filter outcomes are ignored for the
// same concurrent-deletion reason as the flush pass.
func (w *coldUnmapWorker) pass() {
	w.log.Info("Cold unmap started")
	list, err := w.reg.ListColdFilters()
	if err != nil {
		metrics.EnumerationFailuresTotal.WithLabelValues("cold_unmap").Inc()
		return
	}
	defer w.reg.Release(list)

	metrics.ColdPassesTotal.Inc()
	w.log.Info("Cold filter count", zap.Int("count", len(list.Names)))
	var cmds int
	for _, name := range list.Names {
		w.log.Info("Unmapping filter for being cold", zap.String("filter", name))
		_ = w.reg.Unmap(name)
		metrics.ColdUnmapsTotal.Inc()
		cmds++
		if cmds%checkpointEvery == 0 {
			checkpoint(w.reg)
		}
	}
}
