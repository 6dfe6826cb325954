package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks claim ingestion and linking.
type Metrics struct {
	Mottatt *prometheus.CounterVec
	Knyttet *prometheus.CounterVec
}

// New registers the kravgrunnlag metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Mottatt: f.NewCounterVec(prometheus.CounterOpts{
			Name: "supstonad_kravgrunnlag_mottatt_total",
			Help: "Claim messages received, by result (ny, duplikat)",
		}, []string{"resultat"}),
		Knyttet: f.NewCounterVec(prometheus.CounterOpts{
			Name: "supstonad_kravgrunnlag_knyttet_total",
			Help: "Linker outcomes per raw claim hendelse",
		}, []string{"utfall"}),
	}
}

func (m *Metrics) IncrementMottatt(resultat string) {
	if m == nil {
		return
	}
	m.Mottatt.WithLabelValues(resultat).Inc()
}

func (m *Metrics) IncrementKnyttet(utfall string) {
	if m == nil {
		return
	}
	m.Knyttet.WithLabelValues(utfall).Inc()
}
