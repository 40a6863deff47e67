package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/api-sage/timelock-savings/src/internal/domain"
)

const namespace = "savings_ledger"

const (
	LedgerIndividual = "individual"
	LedgerLegacy     = "legacy"
	LedgerGroup      = "group"
)

// Collector holds the ledger's Prometheus instruments on a private
// registry. A nil *Collector is valid and records nothing.
type Collector struct {
	registry    *prometheus.Registry
	operations  *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	locked      *prometheus.CounterVec
	released    *prometheus.CounterVec
	blockHeight prometheus.Gauge
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Ledger operations by name and outcome code",
		}, []string{"operation", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Time spent executing ledger operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		locked: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "locked_micro_total",
			Help:      "Micro-units moved into custody per ledger",
		}, []string{"ledger"}),
		released: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "released_micro_total",
			Help:      "Micro-units paid out of custody per ledger",
		}, []string{"ledger"}),
		blockHeight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "block_height",
			Help:      "Block height last observed by the engine",
		}),
	}
}

// Observe records one finished operation. Rejections are labelled with
// their ledger error code.
func (c *Collector) Observe(operation string, start time.Time, err error) {
	if c == nil {
		return
	}
	c.operations.WithLabelValues(operation, Outcome(err)).Inc()
	c.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (c *Collector) Locked(ledger string, amount uint64) {
	if c == nil {
		return
	}
	c.locked.WithLabelValues(ledger).Add(float64(amount))
}

func (c *Collector) Released(ledger string, amount uint64) {
	if c == nil {
		return
	}
	c.released.WithLabelValues(ledger).Add(float64(amount))
}

func (c *Collector) SetBlockHeight(height uint64) {
	if c == nil {
		return
	}
	c.blockHeight.Set(float64(height))
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func Outcome(err error) string {
	if err == nil {
		return "success"
	}
	if le, ok := domain.AsLedgerError(err); ok {
		return le.Code
	}
	return "error"
}
