package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg                *prometheus.Registry
	LinesReconciled    prometheus.Counter
	LinesUnresolved    prometheus.Counter
	ValidationFailures prometheus.Counter
	EventsSubmitted    prometheus.Counter
	JournalAppended    prometheus.Counter
	ReceiptsComposed   prometheus.Counter
	ReceiptsStored     prometheus.Counter
	SubmitLatencySec   prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	reconciled := prometheus.NewCounter(prometheus.CounterOpts{Name: "anbargar_lines_reconciled_total"})
	unresolved := prometheus.NewCounter(prometheus.CounterOpts{Name: "anbargar_lines_unresolved_total"})
	failures := prometheus.NewCounter(prometheus.CounterOpts{Name: "anbargar_validation_failures_total"})
	submitted := prometheus.NewCounter(prometheus.CounterOpts{Name: "anbargar_events_submitted_total"})
	journal := prometheus.NewCounter(prometheus.CounterOpts{Name: "anbargar_journal_appended_total"})
	composed := prometheus.NewCounter(prometheus.CounterOpts{Name: "anbargar_receipts_composed_total"})
	stored := prometheus.NewCounter(prometheus.CounterOpts{Name: "anbargar_receipts_stored_total"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "anbargar_submit_latency_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(reconciled, unresolved, failures, submitted, journal, composed, stored, latency)
	return &Registry{
		reg:                r,
		LinesReconciled:    reconciled,
		LinesUnresolved:    unresolved,
		ValidationFailures: failures,
		EventsSubmitted:    submitted,
		JournalAppended:    journal,
		ReceiptsComposed:   composed,
		ReceiptsStored:     stored,
		SubmitLatencySec:   latency,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
