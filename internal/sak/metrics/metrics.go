package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the sak module.
type Metrics struct {
	SakerOpprettet prometheus.Counter
	HentDuration   prometheus.Histogram
}

// New registers the sak metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SakerOpprettet: f.NewCounter(prometheus.CounterOpts{
			Name: "supstonad_saker_opprettet_total",
			Help: "Total number of saker created",
		}),
		HentDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "supstonad_sak_hent_duration_seconds",
			Help:    "Duration of sak reads including the claim view",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementSakOpprettet records a created sak.
func (m *Metrics) IncrementSakOpprettet() {
	if m == nil {
		return
	}
	m.SakerOpprettet.Inc()
}

// ObserveHent records the duration of a sak read.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveHent(start time.Time) {
	if m == nil {
		return
	}
	m.HentDuration.Observe(time.Since(start).Seconds())
}
