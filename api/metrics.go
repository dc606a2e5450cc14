package api

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	responsesTotal *prometheus.CounterVec

	initMetricsOnce sync.Once
)

// initMetrics registers the server metrics with the default Prometheus
// registry.  Registering twice panics, so every Server shares one set.
func initMetrics() {
	initMetricsOnce.Do(func() {
		responsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "refget",
			Name:      "responses_total",
			Help:      "Number of responses sent, by endpoint and HTTP status code.",
		}, []string{"endpoint", "status"})
	})
}

func countResponse(endpoint string, status int) {
	responsesTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}
