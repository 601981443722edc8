package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler serves the collector's registry in Prometheus exposition format.
// The ops server mounts it at the configured metrics path. Collection
// errors are reported in the scrape body rather than failing the request,
// so one broken gauge does not blind the whole scrape.
func (c *Collector) Handler() http.Handler {
	opts := promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	}
	return promhttp.HandlerFor(c.registry, opts)
}
