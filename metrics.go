// File: metrics.go
package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "selfie_captcha"

// Metrics holds the Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	// SessionsActive is the number of live sessions in the store.
	SessionsActive prometheus.Gauge

	// ValidationsTotal counts submitted selections.
	// Labels: status (success, failed, blocked)
	ValidationsTotal *prometheus.CounterVec

	// CapturesTotal counts capture events.
	// Labels: result (ok, unavailable)
	CapturesTotal *prometheus.CounterVec

	// GenerationErrorsTotal counts challenges that could not be generated.
	GenerationErrorsTotal prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "sessions_active",
			Help:      "Number of captcha sessions currently held in memory.",
		}),
		ValidationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "validations_total",
			Help:      "Selections submitted, by resulting user status.",
		}, []string{"status"}),
		CapturesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "captures_total",
			Help:      "Capture events, by result.",
		}, []string{"result"}),
		GenerationErrorsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "challenge_generation_errors_total",
			Help:      "Challenges that failed to generate because of configuration.",
		}),
	}
}

func (m *Metrics) sessionOpened() {
	if m != nil {
		m.SessionsActive.Inc()
	}
}

func (m *Metrics) sessionClosed() {
	if m != nil {
		m.SessionsActive.Dec()
	}
}

func (m *Metrics) recordValidation(status UserStatus) {
	if m != nil {
		m.ValidationsTotal.WithLabelValues(string(status)).Inc()
	}
}

func (m *Metrics) recordCapture(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "unavailable"
	}
	m.CapturesTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) recordGenerationError() {
	if m != nil {
		m.GenerationErrorsTotal.Inc()
	}
}
