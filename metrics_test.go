package main

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.sessionOpened()
	m.sessionOpened()
	m.sessionClosed()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SessionsActive))

	m.recordValidation(StatusFailed)
	m.recordValidation(StatusFailed)
	m.recordValidation(StatusSuccess)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ValidationsTotal.WithLabelValues("failed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ValidationsTotal.WithLabelValues("success")))

	m.recordCapture(true)
	m.recordCapture(false)
	m.recordCapture(false)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CapturesTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.CapturesTotal.WithLabelValues("unavailable")))

	m.recordGenerationError()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.GenerationErrorsTotal))
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.sessionOpened()
		m.sessionClosed()
		m.recordValidation(StatusBlocked)
		m.recordCapture(true)
		m.recordGenerationError()
	})
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	assert.Panics(t, func() { NewMetrics(reg) })
}
