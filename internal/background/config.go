package background

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config validation errors
var (
	ErrInvalidMaxMemoryPercent  = errors.New("max_memory_percent must be between 0 and 100")
	ErrInvalidSafeMemoryPercent = errors.New("safe_memory_percent must be between 0 and 100")
	ErrSafeAboveMax             = errors.New("safe_memory_percent cannot exceed max_memory_percent")
)

// Config controls the background maintenance workers. Intervals are in
// seconds; an interval of zero or less disables the corresponding worker.
type Config struct {
	// FlushInterval is how often every filter is flushed to disk.
	FlushInterval int `envconfig:"FLUSH_INTERVAL" default:"60"`

	// ColdInterval is how often cold filters are unmapped.
	ColdInterval int `envconfig:"COLD_INTERVAL" default:"3600"`

	// MemoryCheckInterval is how often resident memory is compared
	// against the watermarks.
	MemoryCheckInterval int `envconfig:"MEMORY_CHECK_INTERVAL" default:"60"`

	// MaxMemoryPercent is the high watermark as a percentage of total
	// system memory. Crossing it triggers eviction.
	MaxMemoryPercent int `envconfig:"MAX_MEMORY_PERCENT" default:"90"`

	// SafeMemoryPercent is the low watermark eviction drives resident
	// memory back down to. Kept below MaxMemoryPercent so a pass does
	// not immediately re-trigger on the next sample.
	SafeMemoryPercent int `envconfig:"SAFE_MEMORY_PERCENT" default:"75"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		FlushInterval:       60,
		ColdInterval:        3600,
		MemoryCheckInterval: 60,
		MaxMemoryPercent:    90,
		SafeMemoryPercent:   75,
	}
}

// Validate checks the watermark invariants. Intervals are not validated:
// a non-positive interval means the worker is disabled, not misconfigured.
func (c Config) Validate() error {
	if c.MaxMemoryPercent < 0 || c.MaxMemoryPercent > 100 {
		return ErrInvalidMaxMemoryPercent
	}
	if c.SafeMemoryPercent < 0 || c.SafeMemoryPercent > 100 {
		return ErrInvalidSafeMemoryPercent
	}
	if c.SafeMemoryPercent > c.MaxMemoryPercent {
		return ErrSafeAboveMax
	}
	return nil
}

// LoadConfig reads configuration from the environment after loading an
// optional .env file. Variables carry the BLOOMD_ prefix, e.g.
// BLOOMD_FLUSH_INTERVAL.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("bloomd", &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
