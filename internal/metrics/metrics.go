package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TicketsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transitpass_tickets_created_total",
		Help: "The total number of tickets purchased",
	})
	TicketsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transitpass_tickets_expired_total",
		Help: "The total number of tickets marked expired",
	})
	PassengersServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transitpass_passengers_total",
		Help: "The total number of passengers across purchased tickets",
	})
)
