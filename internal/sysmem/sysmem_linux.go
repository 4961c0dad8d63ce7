//go:build linux

package sysmem

import (
	"fmt"

	"github.com/prometheus/procfs"
	"golang.org/x/sys/unix"
)

type procSampler struct {
	proc procfs.Proc
}

// New returns a Sampler backed by sysinfo(2) and /proc/self.
func New() (Sampler, error) {
	proc, err := procfs.Self()
	if err != nil {
		return nil, fmt.Errorf("open /proc/self: %w", err)
	}
	return &procSampler{proc: proc}, nil
}

func (s *procSampler) TotalMemory() (uint64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, fmt.Errorf("sysinfo: %w", err)
	}
	return uint64(info.Totalram) * uint64(info.Unit), nil
}

func (s *procSampler) ResidentMemory() (uint64, error) {
	stat, err := s.proc.Stat()
	if err != nil {
		return 0, fmt.Errorf("read /proc/self/stat: %w", err)
	}
	return uint64(stat.ResidentMemory()), nil
}
