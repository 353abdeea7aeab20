package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the registry service. Construct it
// once in main; handlers and services accept a nil *Metrics and skip
// recording, which keeps unit tests free of registry collisions.
type Metrics struct {
	ProfilesCreated      prometheus.Counter
	CompaniesSubmitted   prometheus.Counter
	CompaniesVerified    prometheus.Counter
	ExperiencesSubmitted prometheus.Counter
	ExperiencesValidated prometheus.Counter
	BadgeClassesCreated  prometheus.Counter
	BadgesDelivered      prometheus.Counter

	ValidateDuration prometheus.Histogram
	DeliverDuration  prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ProfilesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "openbadges_profiles_created_total",
			Help: "Total number of profiles created",
		}),
		CompaniesSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "openbadges_companies_submitted_total",
			Help: "Total number of companies submitted",
		}),
		CompaniesVerified: promauto.NewCounter(prometheus.CounterOpts{
			Name: "openbadges_companies_verified_total",
			Help: "Total number of companies verified by the administrator",
		}),
		ExperiencesSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "openbadges_experiences_submitted_total",
			Help: "Total number of experience claims submitted",
		}),
		ExperiencesValidated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "openbadges_experiences_validated_total",
			Help: "Total number of experience claims validated",
		}),
		BadgeClassesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "openbadges_badge_classes_created_total",
			Help: "Total number of credential issuers provisioned",
		}),
		BadgesDelivered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "openbadges_badges_delivered_total",
			Help: "Total number of badge tokens delivered",
		}),
		ValidateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "openbadges_validate_experience_duration_seconds",
			Help:    "Duration of experience validation operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		DeliverDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "openbadges_deliver_badge_duration_seconds",
			Help:    "Duration of badge delivery operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncProfilesCreated records a successful profile creation.
func (m *Metrics) IncProfilesCreated() {
	if m != nil {
		m.ProfilesCreated.Inc()
	}
}

// IncCompaniesSubmitted records a successful company submission.
func (m *Metrics) IncCompaniesSubmitted() {
	if m != nil {
		m.CompaniesSubmitted.Inc()
	}
}

// IncCompaniesVerified records a successful company verification.
func (m *Metrics) IncCompaniesVerified() {
	if m != nil {
		m.CompaniesVerified.Inc()
	}
}

// IncExperiencesSubmitted records a successful experience submission.
func (m *Metrics) IncExperiencesSubmitted() {
	if m != nil {
		m.ExperiencesSubmitted.Inc()
	}
}

// IncExperiencesValidated records a successful experience validation.
func (m *Metrics) IncExperiencesValidated() {
	if m != nil {
		m.ExperiencesValidated.Inc()
	}
}

// IncBadgeClassesCreated records a provisioned credential issuer.
func (m *Metrics) IncBadgeClassesCreated() {
	if m != nil {
		m.BadgeClassesCreated.Inc()
	}
}

// IncBadgesDelivered records a delivered badge token.
func (m *Metrics) IncBadgesDelivered() {
	if m != nil {
		m.BadgesDelivered.Inc()
	}
}

// ObserveValidate records the duration of a validation operation.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveValidate(start time.Time) {
	if m != nil {
		m.ValidateDuration.Observe(time.Since(start).Seconds())
	}
}

// ObserveDeliver records the duration of a delivery operation.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveDeliver(start time.Time) {
	if m != nil {
		m.DeliverDuration.Observe(time.Since(start).Seconds())
	}
}
