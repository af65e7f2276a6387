package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// generationsTotal counts completed generations, manual and scheduled
	generationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gol_generations_total",
		Help: "Total completed generations",
	})

	// resetsTotal counts returns to generation 0 (clear, randomize, resize)
	resetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gol_resets_total",
		Help: "Total simulation resets",
	})

	// populationGauge is the current number of live cells
	populationGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gol_population",
		Help: "Current number of live cells",
	})

	// stepDuration tracks how long one generation takes to compute
	stepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gol_step_duration_seconds",
		Help:    "Generation step duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 2, 14), // 10µs to ~80ms
	})

	// playbackRunning is 1 while continuous playback is running
	playbackRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gol_playback_running",
		Help: "1 while continuous playback is running, 0 when stopped",
	})
)

// SetPlaybackRunning publishes the playback state
func SetPlaybackRunning(running bool) {
	if running {
		playbackRunning.Set(1)
		return
	}
	playbackRunning.Set(0)
}
