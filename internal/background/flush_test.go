package background

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PUNCH-Cyber/bloomd/internal/logging"
	"github.com/PUNCH-Cyber/bloomd/internal/registry"
)

func newTestFlushWorker(cfg Config, reg registry.Registry, stop <-chan struct{}) *flushWorker {
	return newFlushWorker(cfg, reg, stop, logging.Discard())
}

func TestFlushPassFlushesAllFilters(t *testing.T) {
	reg := newFakeRegistry("a", "b", "c")
	stop := make(chan struct{})
	w := newTestFlushWorker(Config{FlushInterval: 1}, reg, stop)

	// One simulated second of wakes triggers exactly one pass.
	for i := 0; i < 4; i++ {
		w.loop.wake(w.pass)
	}

	assert.Equal(t, []string{"a", "b", "c"}, reg.flushedNames())
	assert.Equal(t, 1, reg.releaseCount())
}

func TestFlushEnumerationFailureSkipsCycle(t *testing.T) {
	reg := newFakeRegistry("a", "b")
	reg.setListErr(errors.New("registry busy"))
	stop := make(chan struct{})
	w := newTestFlushWorker(Config{FlushInterval: 1}, reg, stop)

	for i := 0; i < 4; i++ {
		w.loop.wake(w.pass)
	}
	assert.Empty(t, reg.flushedNames(), "no flushes after a failed enumeration")
	assert.Zero(t, reg.releaseCount(), "nothing to release when enumeration fails")

	// The next cycle proceeds normally once enumeration succeeds again.
	reg.setListErr(nil)
	for i := 0; i < 4; i++ {
		w.loop.wake(w.pass)
	}
	assert.Equal(t, []string{"a", "b"}, reg.flushedNames())
	assert.Equal(t, 1, reg.releaseCount())
}

func TestFlushIgnoresConcurrentlyDeletedFilters(t *testing.T) {
	reg := newFakeRegistry("a", "gone", "c")
	reg.flushErr["gone"] = registry.ErrNotFound
	stop := make(chan struct{})
	w := newTestFlushWorker(Config{FlushInterval: 1}, reg, stop)

	w.pass()

	// The not-found outcome does not stop the pass.
	assert.Equal(t, []string{"a", "gone", "c"}, reg.flushedNames())
	assert.Equal(t, 1, reg.releaseCount())
}

func TestFlushMidPassCheckpoints(t *testing.T) {
	names := make([]string, 33)
	for i := range names {
		names[i] = fmt.Sprintf("filter-%02d", i)
	}
	reg := newFakeRegistry(names...)
	stop := make(chan struct{})
	w := newTestFlushWorker(Config{FlushInterval: 1}, reg, stop)

	before := reg.checkpointCount()
	w.pass()

	// 33 filters with a checkpoint every 16 yields exactly two mid-pass
	// checkpoints (after filters 16 and 32).
	require.Len(t, reg.flushedNames(), 33)
	assert.Equal(t, 2, reg.checkpointCount()-before)
}
