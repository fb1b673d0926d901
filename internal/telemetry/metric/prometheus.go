package metric

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ofchat"

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Auth flow metrics (client)
	FlowOperations      *prometheus.CounterVec
	ServiceCallDuration *prometheus.HistogramVec

	// Verification metrics (server)
	CodesIssued *prometheus.CounterVec
	CodeChecks  *prometheus.CounterVec

	// Account metrics (server)
	AccountsRegistered prometheus.Counter
	Logins             *prometheus.CounterVec

	// Request metrics (server)
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

type options struct {
	runtimeCollectors bool
}

// Option configures NewRegistry.
type Option func(*options)

// WithoutRuntimeCollectors leaves out the Go runtime and process collectors.
// Short-lived processes exporting to a textfile use it.
func WithoutRuntimeCollectors() Option {
	return func(o *options) {
		o.runtimeCollectors = false
	}
}

// NewRegistry creates a new metrics registry with every OfChat metric registered.
func NewRegistry(opts ...Option) *Registry {
	o := options{runtimeCollectors: true}
	for _, opt := range opts {
		opt(&o)
	}

	reg := prometheus.NewRegistry()
	if o.runtimeCollectors {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	r := &Registry{
		registry: reg,

		FlowOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "authflow",
			Name:      "operations_total",
			Help:      "Auth flow operations by operation and result category",
		}, []string{"operation", "result"}),

		ServiceCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "authflow",
			Name:      "service_call_duration_seconds",
			Help:      "Latency of calls to the verification and account services",
			Buckets:   prometheus.DefBuckets,
		}, []string{"call"}),

		CodesIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verification",
			Name:      "codes_issued_total",
			Help:      "Verification code send requests by result",
		}, []string{"result"}),

		CodeChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verification",
			Name:      "checks_total",
			Help:      "Verification code checks by result",
		}, []string{"result"}),

		AccountsRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "accounts",
			Name:      "registered_total",
			Help:      "Accounts created",
		}),

		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "accounts",
			Name:      "logins_total",
			Help:      "Login attempts by result",
		}, []string{"result"}),

		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, action and status",
		}, []string{"method", "action", "status"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "action"}),
	}

	reg.MustRegister(
		r.FlowOperations,
		r.ServiceCallDuration,
		r.CodesIssued,
		r.CodeChecks,
		r.AccountsRegistered,
		r.Logins,
		r.RequestsTotal,
		r.RequestDuration,
	)

	return r
}

var (
	globalOnce     sync.Once
	globalRegistry *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// Handler returns an HTTP handler for /metrics backed by the global registry.
func Handler() http.Handler {
	return Global().Handler()
}

// Handler returns an HTTP handler exposing this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registerer exposes the registry for components that register their own collectors.
func (r *Registry) Registerer() prometheus.Registerer {
	return r.registry
}

// Gatherer exposes the registry for export.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the current metrics in text format to path,
// atomically, for the node-exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

// RecordFlowOperation counts one auth flow operation outcome.
// result is "success" or an error category.
func (r *Registry) RecordFlowOperation(operation, result string) {
	r.FlowOperations.WithLabelValues(operation, result).Inc()
}

// ObserveServiceCall records the latency of one service call.
func (r *Registry) ObserveServiceCall(call string, seconds float64) {
	r.ServiceCallDuration.WithLabelValues(call).Observe(seconds)
}

// RecordCodeIssued counts one send request.
func (r *Registry) RecordCodeIssued(result string) {
	r.CodesIssued.WithLabelValues(result).Inc()
}

// RecordCodeCheck counts one verify request.
func (r *Registry) RecordCodeCheck(result string) {
	r.CodeChecks.WithLabelValues(result).Inc()
}

// IncAccountsRegistered counts one created account.
func (r *Registry) IncAccountsRegistered() {
	r.AccountsRegistered.Inc()
}

// RecordLogin counts one login attempt.
func (r *Registry) RecordLogin(result string) {
	r.Logins.WithLabelValues(result).Inc()
}

// RecordRequest counts one HTTP request.
func (r *Registry) RecordRequest(method, action, status string) {
	r.RequestsTotal.WithLabelValues(method, action, status).Inc()
}

// ObserveRequestDuration records the latency of one HTTP request.
func (r *Registry) ObserveRequestDuration(method, action string, seconds float64) {
	r.RequestDuration.WithLabelValues(method, action).Observe(seconds)
}
