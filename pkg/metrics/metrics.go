// Package metrics exposes Prometheus counters for dictionary builds and prefix requests.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry and the standard prefixserve metrics.
type Metrics struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec   // action, result
	RequestDuration *prometheus.HistogramVec // action
	DictionaryWords prometheus.Gauge
	TrieNodes       prometheus.Gauge
	BuildSeconds    prometheus.Gauge
}

// New registers Go runtime, process and prefixserve metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prefixserve_requests_total",
			Help: "Prefix requests by action and result",
		}, []string{"action", "result"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "prefixserve_request_duration_seconds",
			Help:    "Prefix request latency in seconds",
			Buckets: []float64{1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 5e-4, 1e-3, 1e-2},
		}, []string{"action"}),
		DictionaryWords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "prefixserve_dictionary_words",
			Help: "Words inserted into the prefix trie",
		}),
		TrieNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "prefixserve_trie_nodes",
			Help: "Nodes in the prefix trie, root included",
		}),
		BuildSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "prefixserve_build_seconds",
			Help: "Time taken to build the prefix trie",
		}),
	}
	reg.MustRegister(m.Requests, m.RequestDuration, m.DictionaryWords, m.TrieNodes, m.BuildSeconds)
	return m
}

// ObserveRequest counts one request and records its latency.
func (m *Metrics) ObserveRequest(action, result string, took time.Duration) {
	m.Requests.WithLabelValues(action, result).Inc()
	m.RequestDuration.WithLabelValues(action).Observe(took.Seconds())
}

// SetDictionary records the size of a freshly built trie.
func (m *Metrics) SetDictionary(words, nodes int, took time.Duration) {
	m.DictionaryWords.Set(float64(words))
	m.TrieNodes.Set(float64(nodes))
	m.BuildSeconds.Set(took.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Debugf("Metrics listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
