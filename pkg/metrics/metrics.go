// Package metrics exposes the Prometheus collectors the store updates
// for every credential transaction and verification, so an operator
// can scrape auth-disabled rates, transaction contention, and digest
// latency without grepping logs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry bundles the collectors this module registers. Callers
// register it once against a prometheus.Registerer at process start.
type Registry struct {
	TransactionsTotal  *prometheus.CounterVec
	TransactionRetries prometheus.Counter
	VerifyTotal        *prometheus.CounterVec
	DigestDuration     *prometheus.HistogramVec
}

// NewRegistry builds an unregistered Registry.
func NewRegistry() *Registry {
	return &Registry{
		TransactionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lc_login",
			Subsystem: "transaction",
			Name:      "total",
			Help:      "Credential transactions, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		TransactionRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lc_login",
			Subsystem: "transaction",
			Name:      "sentinel_busy_total",
			Help:      "Transactions that found the password- sentinel already held.",
		}),
		VerifyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lc_login",
			Subsystem: "verify",
			Name:      "total",
			Help:      "Credential verifications, by outcome.",
		}, []string{"outcome"}),
		DigestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lc_login",
			Subsystem: "hash",
			Name:      "digest_seconds",
			Help:      "Time spent running the hash pipeline, by algorithm.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"algorithm"}),
	}
}

// MustRegister registers every collector in r against reg, panicking
// on a duplicate registration the way prometheus' own MustRegister does.
func (r *Registry) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(r.TransactionsTotal, r.TransactionRetries, r.VerifyTotal, r.DigestDuration)
}

// ObserveTransaction records the outcome of a single transaction
// operation (e.g. "set_password", "disable_password").
func (r *Registry) ObserveTransaction(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.TransactionsTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveSentinelBusy records a transaction that backed off because
// another writer already held the password- sentinel.
func (r *Registry) ObserveSentinelBusy() {
	r.TransactionRetries.Inc()
}

// ObserveVerify records the outcome of a single Verify call.
func (r *Registry) ObserveVerify(outcome string) {
	r.VerifyTotal.WithLabelValues(outcome).Inc()
}

// TimeDigest returns a function to defer that records the elapsed time
// of a hash.Digest call under the given algorithm label.
func (r *Registry) TimeDigest(algorithm string) func() {
	start := time.Now()
	return func() {
		r.DigestDuration.WithLabelValues(algorithm).Observe(time.Since(start).Seconds())
	}
}
