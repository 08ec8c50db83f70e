package sieve

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sieve_runs_total",
		Help: "Prime counting runs by algorithm and result.",
	}, []string{"algorithm", "result"})
	blocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sieve_blocks_total",
		Help: "Blocks swept by the segmented algorithms.",
	}, []string{"algorithm"})
	cursorEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sieve_cursor_table_entries",
		Help: "Entries of the most recently built cursor table.",
	})
	runSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sieve_run_seconds",
		Help:    "Duration of prime counting runs.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"algorithm"})
)
