package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels
const (
	OutcomeSuccess            = "success"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomePending            = "pending"
	OutcomeRejected           = "rejected"
	OutcomeMissingToken       = "missing_token"
	OutcomeExpired            = "expired"
	OutcomeInvalid            = "invalid"
	OutcomeNotFound           = "principal_not_found"
	OutcomeError              = "error"
)

// Auth holds the authentication counters
type Auth struct {
	Logins  *prometheus.CounterVec
	Resolve *prometheus.CounterVec
	Denied  *prometheus.CounterVec
}

// NewAuth creates the counters and registers them on reg.
// A nil reg leaves them unregistered, which tests rely on.
func NewAuth(reg prometheus.Registerer) *Auth {
	m := &Auth{
		Logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caoguia_auth_login_total",
				Help: "Login attempts by principal kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		Resolve: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caoguia_auth_resolve_total",
				Help: "Bearer token resolutions by outcome.",
			},
			[]string{"outcome"},
		),
		Denied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caoguia_authz_denied_total",
				Help: "Requests rejected by an authorization gate.",
			},
			[]string{"gate"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Logins, m.Resolve, m.Denied)
	}
	return m
}

// Login counts a login attempt
func (m *Auth) Login(kind, outcome string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(kind, outcome).Inc()
}

// Resolved counts a token resolution
func (m *Auth) Resolved(outcome string) {
	if m == nil {
		return
	}
	m.Resolve.WithLabelValues(outcome).Inc()
}

// Deny counts a gate rejection
func (m *Auth) Deny(gate string) {
	if m == nil {
		return
	}
	m.Denied.WithLabelValues(gate).Inc()
}

// Handler exposes the default registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.Handler()
}

// HTTP holds request counters and latencies
type HTTP struct {
	InFlight prometheus.Gauge
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewHTTP creates the HTTP collectors and registers them on reg
func NewHTTP(reg prometheus.Registerer) *HTTP {
	m := &HTTP{
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "caoguia_http_in_flight_requests",
			Help: "Requests currently being served.",
		}),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caoguia_http_requests_total",
				Help: "HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "caoguia_http_request_duration_seconds",
				Help:    "HTTP request latencies in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.InFlight, m.Requests, m.Duration)
	}
	return m
}
