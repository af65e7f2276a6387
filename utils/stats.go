package utils

import "time"

// Counter is anything that can count its live cells
type Counter interface {
	CountLivingCells() int
}

// Stats reports generation and population for the host and tracks
// playback performance
type Stats struct {
	Generation           int
	Population           int
	GenerationsPerSecond float64
	AveragePopulation    float64
	StartTime            time.Time

	// averaging is false until the first step after a reset seeds the average
	averaging bool
}

func NewStats() *Stats {
	return &Stats{StartTime: time.Now()}
}

// RecordStep records a completed generation with the population returned by the engine
func (s *Stats) RecordStep(generation, population int, duration time.Duration) {
	s.Generation = generation
	s.Population = population
	if duration > 0 {
		s.GenerationsPerSecond = 1.0 / duration.Seconds()
	}

	// Simple moving average for population
	if !s.averaging {
		s.AveragePopulation = float64(population)
		s.averaging = true
	} else {
		s.AveragePopulation = (s.AveragePopulation * 0.9) + (float64(population) * 0.1)
	}

	generationsTotal.Inc()
	populationGauge.Set(float64(population))
	stepDuration.Observe(duration.Seconds())
}

// Recount recomputes population from the grid after a change that was not a step
func (s *Stats) Recount(generation int, grid Counter) {
	s.Generation = generation
	s.Population = grid.CountLivingCells()
	populationGauge.Set(float64(s.Population))
}

// Reset forgets averages and rates, used when the simulation restarts at generation 0
func (s *Stats) Reset(grid Counter) {
	s.GenerationsPerSecond = 0
	s.AveragePopulation = 0
	s.averaging = false
	s.StartTime = time.Now()
	s.Recount(0, grid)
	resetsTotal.Inc()
}
