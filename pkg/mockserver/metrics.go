package mockserver

import (
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeMatched   = "matched"
	outcomeUnmatched = "unmatched"
)

type metrics struct {
	requests *prometheus.CounterVec
	stubs    prometheus.Gauge
}

// newMetrics registers the server collectors with reg. Servers sharing a
// registry share the collectors registered first.
func newMetrics(reg prometheus.Registerer, logger *slog.Logger) *metrics {
	return &metrics{
		requests: register(reg, logger, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aspectmodel",
			Subsystem: "mock",
			Name:      "requests_total",
			Help:      "Requests received by the mock server by method and outcome.",
		}, []string{"method", "outcome"})),
		stubs: register(reg, logger, prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aspectmodel",
			Subsystem: "mock",
			Name:      "stubs",
			Help:      "Number of registered stubs.",
		})),
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, logger *slog.Logger, collector C) C {
	err := reg.Register(collector)
	if err == nil {
		return collector
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing
		}
	}
	logger.Warn("mock server metrics not registered", "error", err)
	return collector
}
