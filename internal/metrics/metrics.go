// internal/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minibank_operations_total",
		Help: "Total number of ledger operations by result",
	}, []string{"operation", "result"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "minibank_operation_duration_seconds",
		Help:    "Duration of ledger operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	unitsOfWork = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minibank_units_of_work_total",
		Help: "Count of unit of work outcomes (committed, rolled_back, joined, retried)",
	}, []string{"outcome"})

	commissionWithheld = promauto.NewCounter(prometheus.CounterOpts{
		Name: "minibank_transfer_commission_total",
		Help: "Sum of commission withheld from cross-owner transfers, in minor units",
	})
)

// ObserveOperation records a ledger operation with its result label and duration.
func ObserveOperation(operation, result string, duration time.Duration) {
	operationsTotal.WithLabelValues(operation, result).Inc()
	operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveUnitOfWork increments the unit of work outcome counter.
func ObserveUnitOfWork(outcome string) {
	unitsOfWork.WithLabelValues(outcome).Inc()
}

// AddCommission adds withheld commission to the running total.
func AddCommission(amount int64) {
	if amount <= 0 {
		return
	}
	commissionWithheld.Add(float64(amount))
}
