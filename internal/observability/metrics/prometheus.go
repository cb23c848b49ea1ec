// Package metrics provides Prometheus metrics for the tracker services.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics
type Metrics struct {
	ProfilesSaved         prometheus.Counter
	ReportsDerived        prometheus.Counter
	MedicationsCreated    prometheus.Counter
	DosesMarkedTaken      prometheus.Counter
	DayViewsServed        prometheus.Counter
	JournalRecordsCreated prometheus.Counter
	RemindersScheduled    prometheus.Counter
	RemindersFailed       prometheus.Counter
	ScheduleExpansion     prometheus.Histogram
	KafkaMessagesProduced prometheus.Counter
	KafkaMessagesConsumed prometheus.Counter
	OutboxPending         prometheus.Gauge
	CircuitBreakerState   *prometheus.GaugeVec
}

// New creates and registers all metrics
func New() *Metrics {
	m := &Metrics{
		ProfilesSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gestational_profiles_saved_total",
			Help: "Total gestational profile saves",
		}),
		ReportsDerived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dating_reports_derived_total",
			Help: "Total derived gestational dating reports",
		}),
		MedicationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "medications_created_total",
			Help: "Total medication plans created",
		}),
		DosesMarkedTaken: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "doses_marked_taken_total",
			Help: "Total dose occurrences marked taken",
		}),
		DayViewsServed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "day_views_served_total",
			Help: "Total per-day dose views served",
		}),
		JournalRecordsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "journal_records_created_total",
			Help: "Total journal, weight, hydration and contraction records created",
		}),
		RemindersScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dose_reminders_scheduled_total",
			Help: "Total dose reminders scheduled for delivery",
		}),
		RemindersFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dose_reminders_failed_total",
			Help: "Total dose reminders that failed delivery",
		}),
		ScheduleExpansion: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "schedule_expansion_duration_seconds",
			Help:    "Dose schedule expansion duration",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1},
		}),
		KafkaMessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kafka_messages_produced_total",
			Help: "Total Kafka messages produced",
		}),
		KafkaMessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Total Kafka messages consumed",
		}),
		OutboxPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "outbox_pending_entries",
			Help: "Pending outbox entries",
		}),
		CircuitBreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		}, []string{"name"}),
	}

	prometheus.MustRegister(
		m.ProfilesSaved,
		m.ReportsDerived,
		m.MedicationsCreated,
		m.DosesMarkedTaken,
		m.DayViewsServed,
		m.JournalRecordsCreated,
		m.RemindersScheduled,
		m.RemindersFailed,
		m.ScheduleExpansion,
		m.KafkaMessagesProduced,
		m.KafkaMessagesConsumed,
		m.OutboxPending,
		m.CircuitBreakerState,
	)

	return m
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
