package logic

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	predictionsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "corners_predictions_generated_total",
		Help: "Total number of match predictions generated",
	})

	predictionsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "corners_predictions_stored_total",
		Help: "Total number of predictions persisted",
	})

	verificationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "corners_verifications_total",
		Help: "Total number of predictions verified against results",
	})

	verificationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "corners_verifications_failed_total",
		Help: "Total number of verification attempts that failed",
	})

	backtestBatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "corners_backtest_batch_duration_seconds",
		Help:    "Duration of per-date backtest batches",
		Buckets: prometheus.DefBuckets,
	})
)
