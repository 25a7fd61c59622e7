// Package metrics exposes Prometheus instrumentation for the sales service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersCreated counts orders created, by price list.
	OrdersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reparto",
		Subsystem: "orders",
		Name:      "created_total",
		Help:      "Orders created.",
	}, []string{"list"})

	// OrdersDelivered counts orders settled at delivery.
	OrdersDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reparto",
		Subsystem: "orders",
		Name:      "delivered_total",
		Help:      "Orders delivered and settled.",
	})

	// OrdersCancelled counts cancelled orders.
	OrdersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reparto",
		Subsystem: "orders",
		Name:      "cancelled_total",
		Help:      "Orders cancelled.",
	})

	// SettlementDifference observes the signed gap between an order total and
	// the payment collected at the door.
	SettlementDifference = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "reparto",
		Subsystem: "settlement",
		Name:      "difference",
		Help:      "Order total minus total paid at settlement.",
		Buckets:   []float64{-5000, -1000, -100, 0, 100, 1000, 5000, 20000},
	})

	// DebtWritten observes the debt balance written to a customer after
	// settlement. Negative values are stored credit.
	DebtWritten = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "reparto",
		Subsystem: "settlement",
		Name:      "debt_written",
		Help:      "New customer debt balance after settlement.",
		Buckets:   []float64{-5000, -1000, 0, 1000, 5000, 20000, 100000},
	})

	// SettlementRejections counts settlements rejected with no payment.
	SettlementRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reparto",
		Subsystem: "settlement",
		Name:      "rejections_total",
		Help:      "Settlement attempts rejected because no payment was entered.",
	})

	// RequestDuration observes HTTP request latency by route and status.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "reparto",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
