// Package metrics exposes prometheus collectors for background maintenance
// activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Background Maintenance Metrics
var (
	// CheckpointsTotal counts client checkpoints issued to the registry
	CheckpointsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bloomd_client_checkpoints_total",
			Help: "Total number of client checkpoints issued to the filter registry",
		},
	)

	// FlushPassesTotal counts completed scheduled flush passes
	FlushPassesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bloomd_flush_passes_total",
			Help: "Total number of scheduled flush passes",
		},
	)

	// FlushedFiltersTotal counts individual filter flushes
	FlushedFiltersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bloomd_flushed_filters_total",
			Help: "Total number of filters flushed by the flush worker",
		},
	)

	// ColdPassesTotal counts completed cold unmap passes
	ColdPassesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bloomd_cold_unmap_passes_total",
			Help: "Total number of cold unmap passes",
		},
	)

	// ColdUnmapsTotal counts filters unmapped for being cold
	ColdUnmapsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bloomd_cold_unmapped_filters_total",
			Help: "Total number of filters unmapped for being cold",
		},
	)

	// EvictionPassesTotal counts memory check passes that triggered eviction
	EvictionPassesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bloomd_eviction_passes_total",
			Help: "Total number of memory check passes that exceeded the high watermark",
		},
	)

	// EvictedFiltersTotal counts filters flushed and unmapped to reclaim RAM
	EvictedFiltersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bloomd_evicted_filters_total",
			Help: "Total number of filters evicted by the memory check worker",
		},
	)

	// EnumerationFailuresTotal counts failed filter enumerations by worker
	EnumerationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bloomd_enumeration_failures_total",
			Help: "Total number of failed filter enumerations by worker",
		},
		[]string{"worker"},
	)

	// ResidentMemoryBytes tracks the last sampled resident set size
	ResidentMemoryBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bloomd_resident_memory_bytes",
			Help: "Resident set size last sampled by the memory check worker",
		},
	)

	// MaxMemoryBytes tracks the configured high watermark
	MaxMemoryBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bloomd_max_memory_bytes",
			Help: "High watermark in bytes above which eviction starts",
		},
	)

	// SafeMemoryBytes tracks the configured low watermark
	SafeMemoryBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bloomd_safe_memory_bytes",
			Help: "Low watermark in bytes eviction drives resident memory down to",
		},
	)
)
