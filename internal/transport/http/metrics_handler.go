package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMetricsHandler returns the Prometheus scrape handler. exporter is the
// handler bound to the OpenTelemetry Prometheus exporter's registry; when it
// is nil the default registry is served.
func NewMetricsHandler(exporter http.Handler) http.Handler {
	if exporter != nil {
		return exporter
	}
	return promhttp.Handler()
}
