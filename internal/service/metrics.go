package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checkoutTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "checkout_total", Help: "Checkouts by final state"},
		[]string{"state"},
	)
	checkoutReconcileTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkout_reconciliation_required_total",
			Help: "Charges captured without a recorded order",
		},
	)
)
