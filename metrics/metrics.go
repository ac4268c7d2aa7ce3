// Package metrics exports client activity as Prometheus metrics.
//
// A Collector consumes the events a client publishes on Config.Events:
//
//	events := make(chan client.Event, 64)
//	c, _ := client.New(client.Config{Events: events})
//	col := metrics.NewCollector(prometheus.DefaultRegisterer)
//	go col.Consume(ctx, events)
package metrics

import (
	"context"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spetersoncode/openrouter"
	"github.com/spetersoncode/openrouter/client"
)

// Namespace prefixes every metric name.
const Namespace = "openrouter"

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

// Collector holds the client metrics.
type Collector struct {
	// RequestsTotal counts finished requests by operation, model and status
	// ("ok" or the error kind).
	RequestsTotal *prometheus.CounterVec

	// RequestDuration records request duration in seconds by operation and model.
	RequestDuration *prometheus.HistogramVec

	// InFlight tracks requests that have started but not finished. The client
	// drops events when its channel is full, so a lost start or finish can
	// skew this gauge; it is clamped at zero and never goes negative.
	InFlight *prometheus.GaugeVec

	// TokensTotal counts tokens by model and direction (prompt/completion).
	TokensTotal *prometheus.CounterVec

	// RetriesTotal counts retry sleeps by operation.
	RetriesTotal *prometheus.CounterVec

	mu       sync.Mutex
	inFlight map[string]int
}

// NewCollector creates the metrics and registers them with reg.
// It panics if registration fails, like prometheus.MustRegister.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "requests_total",
				Help:      "Finished API requests",
			},
			[]string{"operation", "model", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "request_duration_seconds",
				Help:      "API request duration",
				Buckets:   LLMBuckets,
			},
			[]string{"operation", "model"},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "requests_in_flight",
				Help:      "API requests in progress",
			},
			[]string{"operation"},
		),
		TokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "tokens_total",
				Help:      "Token count",
			},
			[]string{"model", "direction"},
		),
		RetriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "retries_total",
				Help:      "Retried API requests",
			},
			[]string{"operation"},
		),
	}
	c.inFlight = make(map[string]int)
	reg.MustRegister(c.RequestsTotal, c.RequestDuration, c.InFlight, c.TokensTotal, c.RetriesTotal)
	return c
}

// Observe records a single client event.
func (c *Collector) Observe(e client.Event) {
	switch e.Type {
	case client.EventRequestStart:
		c.track(e.Operation, 1)
	case client.EventRequestComplete:
		c.finish(e, "ok")
		if e.Usage != nil {
			c.TokensTotal.WithLabelValues(e.Model, "prompt").Add(float64(e.Usage.PromptTokens))
			c.TokensTotal.WithLabelValues(e.Model, "completion").Add(float64(e.Usage.CompletionTokens))
		}
	case client.EventRequestError:
		c.finish(e, errorStatus(e.Error))
	case client.EventRetry:
		if e.RetryEvent != nil && e.RetryEvent.Type == client.RetryEventRetrying {
			c.RetriesTotal.WithLabelValues(e.Operation).Inc()
		}
	}
}

func (c *Collector) finish(e client.Event, status string) {
	c.track(e.Operation, -1)
	c.RequestsTotal.WithLabelValues(e.Operation, e.Model, status).Inc()
	c.RequestDuration.WithLabelValues(e.Operation, e.Model).Observe(e.Duration.Seconds())
}

func (c *Collector) track(operation string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := max(c.inFlight[operation]+delta, 0)
	c.inFlight[operation] = n
	c.InFlight.WithLabelValues(operation).Set(float64(n))
}

func errorStatus(err error) string {
	if kind := openrouter.KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}

// Consume records events until ctx is done or events is closed.
func (c *Collector) Consume(ctx context.Context, events <-chan client.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			c.Observe(e)
		}
	}
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
