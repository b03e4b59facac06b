// ABOUTME: Prometheus collectors for engine health
// ABOUTME: Counts underruns/recoveries and gauges buffer occupancy
package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's Prometheus collectors. A nil *Metrics is
// valid and disables collection.
type Metrics struct {
	BytesWritten prometheus.Counter
	Underruns    prometheus.Counter
	Recoveries   prometheus.Counter
	Occupancy    prometheus.Gauge
}

// NewMetrics registers the engine collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BytesWritten: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "outpour",
			Subsystem: "engine",
			Name:      "bytes_written_total",
			Help:      "PCM bytes accepted from the producer.",
		}),
		Underruns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "outpour",
			Subsystem: "engine",
			Name:      "underruns_total",
			Help:      "Sink write errors encountered by the pump.",
		}),
		Recoveries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "outpour",
			Subsystem: "engine",
			Name:      "recoveries_total",
			Help:      "Successful device recoveries after a write error.",
		}),
		Occupancy: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "outpour",
			Subsystem: "engine",
			Name:      "buffer_occupancy_bytes",
			Help:      "Bytes currently buffered but unplayed.",
		}),
	}
}

func (m *Metrics) addWritten(n int) {
	if m != nil {
		m.BytesWritten.Add(float64(n))
	}
}

func (m *Metrics) underrun() {
	if m != nil {
		m.Underruns.Inc()
	}
}

func (m *Metrics) recovered() {
	if m != nil {
		m.Recoveries.Inc()
	}
}

func (m *Metrics) occupancy(n int) {
	if m != nil {
		m.Occupancy.Set(float64(n))
	}
}
