// Package registry defines the contract between the background maintenance
// workers and the shared filter registry. The registry itself lives in the
// serving path and owns all per-filter locking; maintenance only ever talks
// to it through this interface.
package registry

import "errors"

// ErrNotFound is reported by per-filter operations when the named filter no
// longer exists. Filters are created and dropped concurrently by foreground
// traffic, so a caller iterating an enumeration must treat this as an
// expected race rather than a failure.
var ErrNotFound = errors.New("filter not found")

// Enumeration is an ordered snapshot of filter names produced by
// ListFilters or ListColdFilters. The caller owns it until it is handed
// back via Release and must not touch it afterwards.
type Enumeration struct {
	Names []string
}

// Registry is the filter registry as seen by the maintenance workers.
// All calls are synchronous; the registry serializes conflicting per-filter
// operations internally.
type Registry interface {
	// Checkpoint advances the registry's reclamation epoch so memory held
	// for filters replaced or deleted concurrently with readers can be
	// freed. Safe to call arbitrarily often.
	Checkpoint()

	// ListFilters enumerates every filter currently known.
	ListFilters() (*Enumeration, error)

	// ListColdFilters enumerates the filters the registry judges idle
	// under its own staleness policy.
	ListColdFilters() (*Enumeration, error)

	// Flush durably persists the named filter's in-memory state without
	// releasing its mapping. Returns ErrNotFound if the filter was
	// deleted concurrently.
	Flush(name string) error

	// Unmap releases the named filter's in-memory mapping, keeping the
	// durable state intact so it can be remapped on next access.
	Unmap(name string) error

	// FlushAndUnmap combines Flush and Unmap atomically with respect to
	// writers: the filter's lock is held for the whole operation.
	FlushAndUnmap(name string) error

	// Release frees the resources behind an enumeration. Must be called
	// exactly once per successful enumeration, including on early-abort
	// paths.
	Release(e *Enumeration)
}
