// Package metrics records business counters with Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"socialgraph/internal/domain/service"
)

const namespace = "socialgraph"

// NewRegistry creates the registry served on the metrics endpoint, with the
// Go runtime and process collectors already registered.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return reg
}

type recorder struct {
	logins          *prometheus.CounterVec
	registrations   *prometheus.CounterVec
	tokenRejections *prometheus.CounterVec
	followOps       *prometheus.CounterVec
}

// New registers the business counters with reg.
func New(reg prometheus.Registerer) service.Metrics {
	factory := promauto.With(reg)

	return &recorder{
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Total number of login attempts by outcome",
		}, []string{"outcome"}),
		registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Total number of registration attempts by outcome",
		}, []string{"outcome"}),
		tokenRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_rejections_total",
			Help:      "Total number of rejected bearer tokens by reason",
		}, []string{"reason"}),
		followOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "follow_operations_total",
			Help:      "Total number of follow and unfollow attempts by outcome",
		}, []string{"operation", "outcome"}),
	}
}

func (r *recorder) ObserveLogin(outcome string) {
	r.logins.WithLabelValues(outcome).Inc()
}

func (r *recorder) ObserveRegistration(outcome string) {
	r.registrations.WithLabelValues(outcome).Inc()
}

func (r *recorder) ObserveTokenRejection(reason string) {
	r.tokenRejections.WithLabelValues(reason).Inc()
}

func (r *recorder) ObserveFollowOperation(operation, outcome string) {
	r.followOps.WithLabelValues(operation, outcome).Inc()
}
