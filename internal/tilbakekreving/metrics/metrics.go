package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks behandling commands.
type Metrics struct {
	Kommandoer       *prometheus.CounterVec
	KommandoDuration *prometheus.HistogramVec
	Iverksatt        prometheus.Counter
	NettoIverksatt   prometheus.Counter
}

// New registers the tilbakekreving metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Kommandoer: f.NewCounterVec(prometheus.CounterOpts{
			Name: "supstonad_tilbakekreving_kommandoer_total",
			Help: "Behandling commands, by operation and result",
		}, []string{"operasjon", "resultat"}),
		KommandoDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "supstonad_tilbakekreving_kommando_duration_seconds",
			Help:    "Duration of behandling commands",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operasjon"}),
		Iverksatt: f.NewCounter(prometheus.CounterOpts{
			Name: "supstonad_tilbakekreving_iverksatt_total",
			Help: "Behandlinger iverksatt",
		}),
		NettoIverksatt: f.NewCounter(prometheus.CounterOpts{
			Name: "supstonad_tilbakekreving_netto_iverksatt_kroner_total",
			Help: "Net amount recouped by iverksatte behandlinger",
		}),
	}
}

// ObserveKommando records one command. resultat is "ok" or the error kode.
func (m *Metrics) ObserveKommando(operasjon, resultat string, start time.Time) {
	if m == nil {
		return
	}
	m.Kommandoer.WithLabelValues(operasjon, resultat).Inc()
	m.KommandoDuration.WithLabelValues(operasjon).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementIverksatt(netto float64) {
	if m == nil {
		return
	}
	m.Iverksatt.Inc()
	if netto > 0 {
		m.NettoIverksatt.Add(netto)
	}
}
