package server

import "github.com/prometheus/client_golang/prometheus"

var (
	roundsServed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "countryquiz_rounds_served_total",
			Help: "Total rounds served to players",
		},
	)
	guesses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "countryquiz_guesses_total",
			Help: "Total guesses submitted, by result",
		},
		[]string{"result"},
	)
	mapsRendered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "countryquiz_maps_rendered_total",
			Help: "Total game-over maps rendered",
		},
	)
)

func init() {
	prometheus.MustRegister(roundsServed, guesses, mapsRendered)
}
