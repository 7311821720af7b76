package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registry module. Tracks onboarding
// and vote volume plus the duration of the consensus critical path.
type Metrics struct {
	BanksOnboarded   prometheus.Counter
	BanksRemoved     prometheus.Counter
	CustomersCreated prometheus.Counter
	VotesCast        *prometheus.CounterVec
	SuspicionReports prometheus.Counter
	EligibleBanks    prometheus.Gauge
	CastVoteDuration prometheus.Histogram
}

// New creates a Metrics instance with all registry module metrics registered.
func New() *Metrics {
	return &Metrics{
		BanksOnboarded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vouchnet_banks_onboarded_total",
			Help: "Total number of banks onboarded by the administrator",
		}),
		BanksRemoved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vouchnet_banks_removed_total",
			Help: "Total number of banks evicted from the registry",
		}),
		CustomersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vouchnet_customers_created_total",
			Help: "Total number of customer records created",
		}),
		VotesCast: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vouchnet_votes_cast_total",
			Help: "Total number of successful vote casts by direction",
		}, []string{"direction"}),
		SuspicionReports: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vouchnet_suspicion_reports_total",
			Help: "Total number of suspicion reports filed against banks",
		}),
		EligibleBanks: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "vouchnet_eligible_banks",
			Help: "Current eligible bank pool (total minus banned)",
		}),
		CastVoteDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vouchnet_cast_vote_duration_seconds",
			Help:    "Duration of CastVote operations (consensus critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveCastVote records the duration of a CastVote operation. Call with
// time.Now() at the start of the operation.
func (m *Metrics) ObserveCastVote(start time.Time) {
	m.CastVoteDuration.Observe(time.Since(start).Seconds())
}

// SetEligiblePool updates the eligible bank pool gauge.
func (m *Metrics) SetEligiblePool(total, banned uint) {
	m.EligibleBanks.Set(float64(total) - float64(banned))
}
