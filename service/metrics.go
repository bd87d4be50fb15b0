package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	candidatesIngestedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "candidates_ingested_total",
		Help: "Total number of clause candidates accepted into the review queue.",
	})
	templatesCreatedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "templates_created_total",
		Help: "Total number of clause templates created by promotion or authoring.",
	})
	contractsComposedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "contracts_composed_total",
		Help: "Total number of contracts composed.",
	})
)

func init() {
	prometheus.MustRegister(
		candidatesIngestedCounter,
		templatesCreatedCounter,
		contractsComposedCounter,
	)
}
