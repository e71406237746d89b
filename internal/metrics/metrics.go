// Package metrics exposes Prometheus counters and gauges for the queue.
// Counters track operation rates; gauges are recomputed from snapshots of
// the live job set rather than maintained incrementally, matching how the
// rest of the system derives state.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/xeroq/api/internal/model"
)

var (
	SubmissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xeroq_submissions_total",
		Help: "Print jobs submitted.",
	})

	// CodeFallbacksTotal counts degraded code generations: the retry loop
	// exhausted its budget and fell back to a timestamp-derived code. A
	// non-zero rate signals code-space pressure.
	CodeFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xeroq_code_generation_fallbacks_total",
		Help: "Pickup codes produced by the degraded timestamp fallback.",
	})

	TransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xeroq_status_transitions_total",
		Help: "Job status transitions, labeled by target status.",
	}, []string{"to"})

	VerifyFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xeroq_verify_failures_total",
		Help: "Pickup verification failures by reason.",
	}, []string{"reason"})

	PaymentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xeroq_payments_total",
		Help: "Completed job payments.",
	})

	jobsByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "xeroq_jobs",
		Help: "Jobs currently in each status.",
	}, []string{"status"})

	pagesQueued = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "xeroq_pages_queued",
		Help: "Pages queued per printer over active jobs.",
	}, []string{"resource"})
)

// ObserveJobs recomputes the queue gauges from a snapshot of the job set.
func ObserveJobs(jobs []model.Job) {
	counts := map[model.Status]int{
		model.StatusWaiting:   0,
		model.StatusPrinting:  0,
		model.StatusPrinted:   0,
		model.StatusCollected: 0,
	}
	pages := map[model.Resource]int{
		model.ResourceA: 0,
		model.ResourceB: 0,
	}

	for i := range jobs {
		j := &jobs[i]
		counts[j.Status]++
		if j.Status.Active() {
			pages[j.AssignedResource] += j.TotalPages()
		}
	}

	for status, n := range counts {
		jobsByStatus.WithLabelValues(string(status)).Set(float64(n))
	}
	for resource, n := range pages {
		pagesQueued.WithLabelValues(string(resource)).Set(float64(n))
	}
}
