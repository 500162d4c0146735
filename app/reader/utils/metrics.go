package utils

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "asreader"

// Metrics counts what passes through the bridge. A nil *Metrics is valid and records nothing.
type Metrics struct {
	UnitsProduced    *prometheus.CounterVec
	UnitsDelivered   *prometheus.CounterVec
	StallRetries     *prometheus.CounterVec
	ProducerOutcomes *prometheus.CounterVec
	ReadOutcomes     *prometheus.CounterVec
	QueueSize        *prometheus.GaugeVec
}

const (
	OutcomeFinished = "finished"
	OutcomeErrored  = "errored"
	OutcomeStalled  = "stalled"
)

func (m *Metrics) UnitProduced(operation string) {
	if m == nil {
		return
	}

	m.UnitsProduced.WithLabelValues(operation).Inc()
}

func (m *Metrics) UnitDelivered(operation string, queueSize int) {
	if m == nil {
		return
	}

	m.UnitsDelivered.WithLabelValues(operation).Inc()
	m.QueueSize.WithLabelValues(operation).Set(float64(queueSize))
}

func (m *Metrics) StallRetry(operation string) {
	if m == nil {
		return
	}

	m.StallRetries.WithLabelValues(operation).Inc()
}

func (m *Metrics) ProducerOutcome(operation, outcome string) {
	if m == nil {
		return
	}

	m.ProducerOutcomes.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) ReadOutcome(operation, outcome string) {
	if m == nil {
		return
	}

	m.ReadOutcomes.WithLabelValues(operation, outcome).Inc()
}

func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		UnitsProduced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "units_produced_total",
			Help:      "Records put into the transfer channel by producers.",
		}, []string{"operation"}),
		UnitsDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "units_delivered_total",
			Help:      "Records handed out to pulling callers.",
		}, []string{"operation"}),
		StallRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "stall_retries_total",
			Help:      "Waits spent on an empty channel while the producer was still running.",
		}, []string{"operation"}),
		ProducerOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "producer_outcomes_total",
			Help:      "Terminal states reached by producers.",
		}, []string{"operation", "outcome"}),
		ReadOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "read_outcomes_total",
			Help:      "Terminal states reached by readers.",
		}, []string{"operation", "outcome"}),
		QueueSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "queue_size",
			Help:      "Approximate number of records waiting in the transfer channel.",
		}, []string{"operation"}),
	}

	collectors := []prometheus.Collector{
		m.UnitsProduced,
		m.UnitsDelivered,
		m.StallRetries,
		m.ProducerOutcomes,
		m.ReadOutcomes,
		m.QueueSize,
	}

	for _, c := range collectors {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}
