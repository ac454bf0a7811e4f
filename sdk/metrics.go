package sdk

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type hostMetrics struct {
	txs     prometheus.Counter
	reverts *prometheus.CounterVec
	events  *prometheus.CounterVec
}

func newHostMetrics(promRegistry prometheus.Registerer) *hostMetrics {
	promautoFactory := promauto.With(promRegistry)
	return &hostMetrics{
		txs: promautoFactory.NewCounter(prometheus.CounterOpts{
			Name: "daofactory_transactions_committed_total",
			Help: "number of committed transactions",
		}),
		reverts: promautoFactory.NewCounterVec(prometheus.CounterOpts{
			Name: "daofactory_transactions_reverted_total",
			Help: "number of reverted transactions by reason",
		}, []string{"reason"}),
		events: promautoFactory.NewCounterVec(prometheus.CounterOpts{
			Name: "daofactory_events_total",
			Help: "number of emitted event lines by kind",
		}, []string{"kind"}),
	}
}
