// Package metrics exposes Prometheus collectors for the verification pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VerificationsTotal counts finished verifications by category and outcome
	// (verified, rejected, errored).
	VerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "permitdocs_verifications_total",
		Help: "Finished document verifications by category and outcome",
	}, []string{"category", "outcome"})

	// VerificationDuration observes end-to-end verification latency
	VerificationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "permitdocs_verification_duration_seconds",
		Help:    "End-to-end document verification latency",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
	}, []string{"category"})

	// OCRPagesProcessed counts pages fed through OCR
	OCRPagesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "permitdocs_ocr_pages_processed_total",
		Help: "Pages fed through the OCR engine",
	})

	// QueueDepth tracks the verification job queue size
	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "permitdocs_verification_queue_depth",
		Help: "Jobs waiting in the verification queue",
	})
)

// CountVerification records one finished verification
func CountVerification(category, outcome string, elapsed time.Duration) {
	VerificationsTotal.WithLabelValues(category, outcome).Inc()
	VerificationDuration.WithLabelValues(category).Observe(elapsed.Seconds())
}
