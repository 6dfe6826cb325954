package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks outbox delivery.
type Metrics struct {
	Publisert *prometheus.CounterVec
	Feilet    *prometheus.CounterVec
	Ventende  prometheus.Gauge
	Slettet   prometheus.Counter
	Latency   *prometheus.HistogramVec
	// BreakerAapen is 1 while the publisher circuit is open.
	BreakerAapen prometheus.Gauge
}

// New registers the outbox metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Publisert: f.NewCounterVec(prometheus.CounterOpts{
			Name: "supstonad_outbox_published_total",
			Help: "Outbox messages published, by topic",
		}, []string{"topic"}),
		Feilet: f.NewCounterVec(prometheus.CounterOpts{
			Name: "supstonad_outbox_failed_total",
			Help: "Failed outbox publish attempts, by topic",
		}, []string{"topic"}),
		Ventende: f.NewGauge(prometheus.GaugeOpts{
			Name: "supstonad_outbox_pending",
			Help: "Unpublished outbox messages",
		}),
		Slettet: f.NewCounter(prometheus.CounterOpts{
			Name: "supstonad_outbox_deleted_total",
			Help: "Published outbox messages removed by the cleaner",
		}),
		Latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "supstonad_outbox_publish_duration_seconds",
			Help:    "Publish latency per outbox message",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"topic", "result"}),
		BreakerAapen: f.NewGauge(prometheus.GaugeOpts{
			Name: "supstonad_outbox_publisher_circuit_open",
			Help: "1 while the outbox publisher circuit is open",
		}),
	}
}

func (m *Metrics) ObservePublish(topic string, ok bool, seconds float64) {
	if m == nil {
		return
	}
	result := "success"
	if ok {
		m.Publisert.WithLabelValues(topic).Inc()
	} else {
		result = "failure"
		m.Feilet.WithLabelValues(topic).Inc()
	}
	m.Latency.WithLabelValues(topic, result).Observe(seconds)
}

func (m *Metrics) SetVentende(n int64) {
	if m == nil {
		return
	}
	m.Ventende.Set(float64(n))
}

func (m *Metrics) AddSlettet(n int64) {
	if m == nil {
		return
	}
	m.Slettet.Add(float64(n))
}

func (m *Metrics) SetBreakerAapen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerAapen.Set(1)
		return
	}
	m.BreakerAapen.Set(0)
}
