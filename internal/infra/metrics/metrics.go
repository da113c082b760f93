// Package metrics holds the prometheus collectors for the document store.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

type Store struct {
	ops  *prometheus.CounterVec
	live *prometheus.GaugeVec
}

// NewStore creates the collectors and registers them with reg.
func NewStore(reg prometheus.Registerer) *Store {
	s := &Store{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docstore",
			Name:      "operations_total",
			Help:      "Document store operations by collection, operation and result.",
		}, []string{"collection", "op", "result"}),
		live: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "docstore",
			Name:      "live_subscriptions",
			Help:      "Open live snapshot subscriptions by collection.",
		}, []string{"collection"}),
	}
	reg.MustRegister(s.ops, s.live)
	return s
}

// ObserveOp counts one operation. A nil Store is a no-op.
func (s *Store) ObserveOp(collection, op, result string) {
	if s == nil {
		return
	}
	s.ops.WithLabelValues(collection, op, result).Inc()
}

func (s *Store) SubscriptionOpened(collection string) {
	if s == nil {
		return
	}
	s.live.WithLabelValues(collection).Inc()
}

func (s *Store) SubscriptionClosed(collection string) {
	if s == nil {
		return
	}
	s.live.WithLabelValues(collection).Dec()
}
