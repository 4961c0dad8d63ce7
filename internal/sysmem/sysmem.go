// Package sysmem samples the memory figures the memory-check worker steers
// by: total physical memory and the process resident set size.
package sysmem

// Sampler reports memory figures in bytes.
type Sampler interface {
	// TotalMemory returns the total physical memory of the host.
	TotalMemory() (uint64, error)

	// ResidentMemory returns the current resident set size of this
	// process.
	ResidentMemory() (uint64, error)
}
