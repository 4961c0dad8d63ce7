//go:build !linux

package sysmem

import "errors"

// New reports that memory sampling is unavailable on this platform. The
// controller disables the memory-check worker when sampling is unsupported.
func New() (Sampler, error) {
	return nil, errors.New("sysmem: memory sampling is only supported on linux")
}
