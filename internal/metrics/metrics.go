// Package metrics exposes the bootstrap service counters for Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rtcagent"

type Metrics struct {
	reg *prometheus.Registry

	requests     *prometheus.CounterVec
	tokensIssued prometheus.Counter
	proxied      *prometheus.CounterVec
}

func New(version string, started time.Time) *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_issued_total",
			Help:      "Mock join tokens issued.",
		}),
		proxied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proxy_requests_total",
			Help:      "Proxied upstream calls by outcome.",
		}, []string{"outcome"}),
	}
	m.reg.MustRegister(m.requests, m.tokensIssued, m.proxied, newProcessCollector(version, started))
	return m
}

func (m *Metrics) ObserveRequest(method, route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) TokenIssued() { m.tokensIssued.Inc() }

// ProxyOutcome records one proxied call: "ok", "upstream_error" or "failed".
func (m *Metrics) ProxyOutcome(outcome string) { m.proxied.WithLabelValues(outcome).Inc() }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// processCollector reports version and uptime at scrape time.
type processCollector struct {
	version string
	started time.Time

	uptime *prometheus.Desc
	info   *prometheus.Desc
}

func newProcessCollector(version string, started time.Time) *processCollector {
	return &processCollector{
		version: version,
		started: started,
		uptime: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "uptime_seconds"),
			"Number of seconds since the server started.",
			nil,
			nil,
		),
		info: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "version"),
			"The version of this server.",
			[]string{"version"},
			nil,
		),
	}
}

func (c *processCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.uptime
	ch <- c.info
}

func (c *processCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.uptime, prometheus.CounterValue, time.Since(c.started).Seconds())
	ch <- prometheus.MustNewConstMetric(c.info, prometheus.GaugeValue, 1, c.version)
}
