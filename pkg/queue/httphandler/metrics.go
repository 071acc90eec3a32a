package httphandler

import (
	"context"
	"net/http"
	"time"

	// Packages
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	prometheus "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

///////////////////////////////////////////////////////////////////////////////
// CONSTANTS

const (
	metricsTimeout = 30 * time.Second
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type metrics struct {
	store   TaskStore
	tasks   *prometheus.Desc
	backlog *prometheus.Desc
}

var _ prometheus.Collector = (*metrics)(nil)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// RegisterMetricsHandler registers a HTTP handler for prometheus metrics
// on the provided router with the given path prefix. The store must be non-nil.
func RegisterMetricsHandler(router *http.ServeMux, prefix string, store TaskStore, middleware HTTPMiddlewareFuncs) {
	if store == nil {
		panic("store is nil")
	}

	// Create a prometheus registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(newMetrics(store))
	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	// Create a handler for metrics
	router.HandleFunc(joinPath(prefix, "metrics"), middleware.Wrap(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handler.ServeHTTP(w, r)
		default:
			_ = httpresponse.Error(w, httpresponse.Err(http.StatusMethodNotAllowed), r.Method)
		}
	}))
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func newMetrics(store TaskStore) *metrics {
	return &metrics{
		store: store,
		tasks: prometheus.NewDesc(
			"fizzbuzz_tasks",
			"Number of tasks by state and kind",
			[]string{"state", "kind"}, nil,
		),
		backlog: prometheus.NewDesc(
			"fizzbuzz_backlog",
			"Number of pending tasks whose execution time has passed",
			nil, nil,
		),
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - COLLECTOR

// Describe sends metric descriptors to the channel
func (m *metrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.tasks
	ch <- m.backlog
}

// Collect fetches metrics from the store and sends them to the channel
func (m *metrics) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), metricsTimeout)
	defer cancel()

	if err := m.collectStatus(ctx, ch); err != nil {
		ch <- prometheus.NewInvalidMetric(m.tasks, err)
	}
	if backlog, err := m.store.Backlog(ctx); err != nil {
		ch <- prometheus.NewInvalidMetric(m.backlog, err)
	} else {
		ch <- prometheus.MustNewConstMetric(m.backlog, prometheus.GaugeValue, float64(backlog))
	}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (m *metrics) collectStatus(ctx context.Context, ch chan<- prometheus.Metric) error {
	statuses, err := m.store.ListTaskStatus(ctx)
	if err != nil {
		return err
	}

	// Send metrics for each state/kind combination
	for _, status := range statuses {
		ch <- prometheus.MustNewConstMetric(
			m.tasks,
			prometheus.GaugeValue,
			float64(status.Count),
			status.State.String(),
			status.Kind.String(),
		)
	}

	return nil
}
