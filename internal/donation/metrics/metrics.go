package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the donation module.
// Tracks lifecycle transition counts and critical path durations.
type Metrics struct {
	DonationsCreated prometheus.Counter
	DonationsClaimed prometheus.Counter
	DonationsPicked  prometheus.Counter
	DonationsDeleted prometheus.Counter
	ClaimConflicts   prometheus.Counter
	ClaimDuration    prometheus.Histogram
	MatchDuration    prometheus.Histogram
	MatchResultSize  prometheus.Histogram
}

// New creates a new Metrics instance with all donation module metrics registered.
func New() *Metrics {
	return &Metrics{
		DonationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "foodbridge_donations_created_total",
			Help: "Total number of donations created",
		}),
		DonationsClaimed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "foodbridge_donations_claimed_total",
			Help: "Total number of successful claims",
		}),
		DonationsPicked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "foodbridge_donations_picked_total",
			Help: "Total number of confirmed pickups",
		}),
		DonationsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "foodbridge_donations_deleted_total",
			Help: "Total number of donor deletions",
		}),
		ClaimConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "foodbridge_claim_conflicts_total",
			Help: "Claim attempts that lost the race or hit an ineligible donation",
		}),
		ClaimDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "foodbridge_claim_duration_seconds",
			Help:    "Duration of claim operations (lock + transition)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		MatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "foodbridge_match_duration_seconds",
			Help:    "Duration of matching queries",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		MatchResultSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "foodbridge_match_result_size",
			Help:    "Number of donations returned per match query",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
	}
}

// Increment helpers are nil-safe so services can run without metrics in tests.

func (m *Metrics) IncCreated() {
	if m != nil {
		m.DonationsCreated.Inc()
	}
}

func (m *Metrics) IncClaimed() {
	if m != nil {
		m.DonationsClaimed.Inc()
	}
}

func (m *Metrics) IncPicked() {
	if m != nil {
		m.DonationsPicked.Inc()
	}
}

func (m *Metrics) IncDeleted() {
	if m != nil {
		m.DonationsDeleted.Inc()
	}
}

func (m *Metrics) IncClaimConflict() {
	if m != nil {
		m.ClaimConflicts.Inc()
	}
}

// ObserveClaim records the duration of a claim operation.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveClaim(start time.Time) {
	if m == nil {
		return
	}
	m.ClaimDuration.Observe(time.Since(start).Seconds())
}

// ObserveMatch records the duration and result size of a matching query.
func (m *Metrics) ObserveMatch(start time.Time, results int) {
	if m == nil {
		return
	}
	m.MatchDuration.Observe(time.Since(start).Seconds())
	m.MatchResultSize.Observe(float64(results))
}
