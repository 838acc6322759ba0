package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BetsPlaced counts wagers that entered the awaiting-outcome state.
	BetsPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "riftbook_bets_placed_total",
		Help: "Number of wagers placed.",
	})

	// BetsSettled counts terminal wager outcomes by result.
	BetsSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "riftbook_bets_settled_total",
		Help: "Number of wagers reaching a terminal state.",
	}, []string{"outcome"})

	// PollTicks counts settlement poll attempts.
	PollTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "riftbook_poll_ticks_total",
		Help: "Number of settlement poll ticks executed.",
	})

	// RiotRequests counts upstream API calls by result.
	RiotRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "riftbook_riot_requests_total",
		Help: "Number of Riot API requests by result.",
	}, []string{"result"})

	// LookupsServed counts completed stat-display lookups.
	LookupsServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "riftbook_lookups_served_total",
		Help: "Number of stat displays rendered.",
	})
)
