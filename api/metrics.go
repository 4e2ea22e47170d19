package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsBuilt = promauto.NewCounter(prometheus.CounterOpts{
		Name: "networth_bookings_built_total",
		Help: "Bookings created from imported transaction lines.",
	})
	bookingsResynced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "networth_bookings_resynced_total",
		Help: "Bookings whose rule-generated lines were regenerated.",
	})
	reviewRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "networth_review_rejections_total",
		Help: "Review requests rejected by the balance gate.",
	})
)
