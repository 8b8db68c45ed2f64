package timeout

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	timeoutsCreated = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "shared_timeout_created_total",
		Help: "The total number of shared timeouts created",
	}, []string{"name"})

	timeoutsDisposed = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "shared_timeout_disposed_total",
		Help: "The total number of shared timeouts closed",
	}, []string{"name"})

	signalsArmed = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "shared_timeout_signals_armed_total",
		Help: "The total number of cancellation signals created",
	}, []string{"name"})

	signalsFired = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "shared_timeout_signals_fired_total",
		Help: "The total number of cancellation signals that ended, by cause (expired or disposed)",
	}, []string{"name", "cause"})

	signalsActive = promauto.NewGaugeVec(prometheus.GaugeOpts{ //nolint:gochecknoglobals
		Name: "shared_timeout_signals_active",
		Help: "The number of cancellation signals armed and not yet ended",
	}, []string{"name"})
)
