package background

import (
	"sync"

	"github.com/PUNCH-Cyber/bloomd/internal/registry"
)

// fakeRegistry scripts the registry contract and records every call the
// workers make against it.
type fakeRegistry struct {
	mu sync.Mutex

	names     []string
	coldNames []string
	listErr   error
	coldErr   error
	flushErr  map[string]error

	checkpoints int
	listCalls   int
	flushed     []string
	unmapped    []string
	evicted     []string
	releases    int
	live        map[*registry.Enumeration]bool

	// onFlushAndUnmap runs with the lock dropped so hooks can touch the
	// sampler or the stop channel.
	onFlushAndUnmap func(name string)
	onUnmap         func(name string)
}

func newFakeRegistry(names ...string) *fakeRegistry {
	return &fakeRegistry{
		names:    names,
		flushErr: make(map[string]error),
		live:     make(map[*registry.Enumeration]bool),
	}
}

func (r *fakeRegistry) Checkpoint() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkpoints++
}

func (r *fakeRegistry) ListFilters() (*registry.Enumeration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	e := &registry.Enumeration{Names: append([]string(nil), r.names...)}
	r.live[e] = true
	return e, nil
}

func (r *fakeRegistry) ListColdFilters() (*registry.Enumeration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.coldErr != nil {
		return nil, r.coldErr
	}
	e := &registry.Enumeration{Names: append([]string(nil), r.coldNames...)}
	r.live[e] = true
	return e, nil
}

func (r *fakeRegistry) Flush(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushed = append(r.flushed, name)
	return r.flushErr[name]
}

func (r *fakeRegistry) Unmap(name string) error {
	r.mu.Lock()
	r.unmapped = append(r.unmapped, name)
	hook := r.onUnmap
	r.mu.Unlock()
	if hook != nil {
		hook(name)
	}
	return nil
}

func (r *fakeRegistry) FlushAndUnmap(name string) error {
	r.mu.Lock()
	r.evicted = append(r.evicted, name)
	hook := r.onFlushAndUnmap
	r.mu.Unlock()
	if hook != nil {
		hook(name)
	}
	return nil
}

func (r *fakeRegistry) Release(e *registry.Enumeration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.live[e] {
		panic("release of unknown or already released enumeration")
	}
	delete(r.live, e)
	r.releases++
}

func (r *fakeRegistry) checkpointCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.checkpoints
}

func (r *fakeRegistry) flushedNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.flushed...)
}

func (r *fakeRegistry) unmappedNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.unmapped...)
}

func (r *fakeRegistry) evictedNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.evicted...)
}

func (r *fakeRegistry) releaseCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.releases
}

func (r *fakeRegistry) setListErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listErr = err
}

func (r *fakeRegistry) setColdErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coldErr = err
}

// fakeSampler scripts memory figures for the memory check worker.
type fakeSampler struct {
	mu     sync.Mutex
	total  uint64
	rss    uint64
	rssErr error
}

func (s *fakeSampler) TotalMemory() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total, nil
}

func (s *fakeSampler) ResidentMemory() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rssErr != nil {
		return 0, s.rssErr
	}
	return s.rss, nil
}

// drop simulates memory reclaimed by an eviction.
func (s *fakeSampler) drop(n uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > s.rss {
		s.rss = 0
		return
	}
	s.rss -= n
}

func (s *fakeSampler) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rssErr = err
}
