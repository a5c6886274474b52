package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"

	UpstreamOK      = "ok"
	UpstreamError   = "error"
	UpstreamTimeout = "timeout"

	namespace = "currency"
)

// ConversionMetrics counts conversion outcomes and times upstream calls.
type ConversionMetrics struct {
	ConversionsTotal        *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec
}

// NewConversionMetrics registers the collectors on reg. Each registry can
// hold a single instance.
func NewConversionMetrics(reg prometheus.Registerer) *ConversionMetrics {
	factory := promauto.With(reg)
	return &ConversionMetrics{
		ConversionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversions_total",
				Help:      "Conversions performed, labelled by outcome.",
			},
			[]string{"outcome"},
		),
		UpstreamRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_request_duration_seconds",
				Help:      "Latency of exchange rate API requests.",
				Buckets:   prometheus.ExponentialBuckets(0.025, 2, 10),
			},
			[]string{"status"},
		),
	}
}

// RecordConversion accepts "success" or an error kind as outcome.
func (m *ConversionMetrics) RecordConversion(outcome string) {
	if m == nil {
		return
	}
	m.ConversionsTotal.WithLabelValues(outcome).Inc()
}

// RecordUpstreamRequest records one upstream call with one of the Upstream*
// statuses.
func (m *ConversionMetrics) RecordUpstreamRequest(durationSeconds float64, status string) {
	if m == nil {
		return
	}
	m.UpstreamRequestDuration.WithLabelValues(status).Observe(durationSeconds)
}
