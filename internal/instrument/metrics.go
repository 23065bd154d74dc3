package instrument

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "follohjelp_store_requests_total",
			Help: "Record store HTTP requests by table, method and outcome",
		},
		[]string{"table", "method", "outcome"},
	)

	StoreRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "follohjelp_store_request_duration_seconds",
			Help: "Duration of record store HTTP requests",
		},
		[]string{"table", "method"},
	)

	OptionsRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "follohjelp_options_refreshes_total",
			Help: "Options cache refreshes by outcome",
		},
		[]string{"outcome"},
	)

	LeadsRouted = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "follohjelp_lead_matched_providers",
			Help:    "Number of providers a lead was routed to",
			Buckets: []float64{0, 1, 2, 3, 5},
		},
	)

	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "follohjelp_emails_total",
			Help: "Notification emails by transport and outcome",
		},
		[]string{"transport", "outcome"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "follohjelp_http_requests_total",
			Help: "Inbound HTTP requests by method and status code",
		},
		[]string{"method", "status"},
	)
)

// Outcome maps an error to the label value used by the counters above.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
