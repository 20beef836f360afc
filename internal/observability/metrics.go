package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PropertiesScraped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "properties_scraped_total",
			Help: "Total listings scraped successfully",
		},
	)

	ScrapeFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scrape_failures_total",
			Help: "Total scrape attempts that failed",
		},
	)

	PropertiesUpserted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "properties_upserted_total",
			Help: "Total property records written to the database",
		},
	)
)

// Start registers the counters and serves /metrics on the given port.
func Start(port string) {
	prometheus.MustRegister(PropertiesScraped, ScrapeFailures, PropertiesUpserted)
	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(":"+port, nil)
}
