package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeDelivered    = "delivered"
	OutcomeAbandoned    = "abandoned"
	OutcomeDeadLettered = "dead_lettered"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	notifications *prometheus.CounterVec
	restarts      prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bookly_notifications_total",
			Help: "Review notifications handled by the consumer, by outcome.",
		}, []string{"outcome"}),
		restarts: f.NewCounter(prometheus.CounterOpts{
			Name: "bookly_notification_consumer_restarts_total",
			Help: "Times the notification consumer was restarted after a failure.",
		}),
	}
}

func (m *Metrics) observe(outcome string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) restarted() {
	if m == nil {
		return
	}
	m.restarts.Inc()
}
