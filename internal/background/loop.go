package background

import (
	"time"

	"github.com/PUNCH-Cyber/bloomd/internal/metrics"
	"github.com/PUNCH-Cyber/bloomd/internal/registry"
)

// wakePeriod is how long a worker sleeps between loop ticks. Every worker
// wakes at this granularity regardless of its configured interval.
const wakePeriod = 250 * time.Millisecond

// checkpointEvery is how many per-filter operations a pass performs between
// forced client checkpoints. This lets the registry make reclamation
// progress even during a very slow pass.
const checkpointEvery = 16

// ticksPerSecond is how many wake ticks make up one second.
const ticksPerSecond = uint64(time.Second / wakePeriod)

// secToTicks converts a configured interval in seconds to wake ticks.
func secToTicks(sec int) uint64 {
	return uint64(sec) * ticksPerSecond
}

// checkpoint issues a client checkpoint against the registry.
func checkpoint(reg registry.Registry) {
	reg.Checkpoint()
	metrics.CheckpointsTotal.Inc()
}

// wakeLoop is the wake-and-test discipline shared by all maintenance
// workers: checkpoint on every wake, then run the worker's action when the
// tick counter lands on an interval boundary and cancellation has not been
// observed.
type wakeLoop struct {
	reg      registry.Registry
	stop     <-chan struct{}
	ticks    uint64
	interval uint64
}

func newWakeLoop(reg registry.Registry, stop <-chan struct{}, intervalSec int) *wakeLoop {
	return &wakeLoop{
		reg:      reg,
		stop:     stop,
		interval: secToTicks(intervalSec),
	}
}

// wake performs a single tick: an unconditional checkpoint, then the action
// if this tick lands on the interval boundary and the loop has not been
// cancelled. The tick counter is never reset; only its low bits matter to
// the modulo test, so wrap-around is harmless.
func (l *wakeLoop) wake(action func()) {
	checkpoint(l.reg)
	l.ticks++
	if l.ticks%l.interval == 0 && !l.cancelled() {
		action()
	}
}

// run drives wake at the fixed period until the stop channel closes.
// Cancellation is observed between wakes only: an action already underway
// always finishes before the loop exits.
func (l *wakeLoop) run(action func()) {
	ticker := time.NewTicker(wakePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.wake(action)
		}
	}
}

func (l *wakeLoop) cancelled() bool {
	select {
	case <-l.stop:
		return true
	default:
		return false
	}
}
