package service

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/railzwaylabs/subview/internal/timeline/domain"
)

type metrics struct {
	buildDuration prometheus.Histogram
	buildErrors   prometheus.Counter
	cells         *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "subview",
			Subsystem: "timeline",
			Name:      "build_duration_seconds",
			Help:      "Time spent building a subscription timeline.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		buildErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "subview",
			Subsystem: "timeline",
			Name:      "build_errors_total",
			Help:      "Timeline builds rejected by validation.",
		}),
		cells: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "subview",
			Subsystem: "timeline",
			Name:      "cells_total",
			Help:      "Classified (charge, day) cells by state.",
		}, []string{"state"}),
	}
	if reg == nil {
		return m
	}

	m.buildDuration = register(reg, m.buildDuration)
	m.buildErrors = register(reg, m.buildErrors)
	m.cells = register(reg, m.cells)
	return m
}

// register reuses an already registered collector so two services can share
// one registry.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (m *metrics) observe(tl *domain.Timeline, elapsed time.Duration) {
	m.buildDuration.Observe(elapsed.Seconds())
	for state, n := range tl.Counts() {
		m.cells.WithLabelValues(string(state)).Add(float64(n))
	}
}
