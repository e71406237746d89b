package queue

import (
	"sort"

	"github.com/xeroq/api/internal/model"
)

// jobLess is the canonical queue sort key: paid first, then tier, then
// urgency, then submission time. Status is deliberately not part of the
// key — advancing one job must never reorder the others on screen.
func jobLess(a, b *model.Job) bool {
	if a.IsPaid() != b.IsPaid() {
		return a.IsPaid()
	}
	if a.PriorityTier.Rank() != b.PriorityTier.Rank() {
		return a.PriorityTier.Rank() < b.PriorityTier.Rank()
	}
	if a.Urgency != b.Urgency {
		return a.Urgency == model.UrgencyUrgent
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

func sorted(jobs []model.Job, keep func(*model.Job) bool) []model.Job {
	out := make([]model.Job, 0, len(jobs))
	for i := range jobs {
		if keep(&jobs[i]) {
			out = append(out, jobs[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return jobLess(&out[i], &out[j])
	})
	return out
}

// ActiveOrder returns waiting and printing jobs in canonical queue order
// with their 1-based positions filled in. Recomputed from scratch on every
// call; queue sizes are tens, not millions.
func ActiveOrder(jobs []model.Job) []model.Job {
	out := sorted(jobs, func(j *model.Job) bool { return j.Status.Active() })
	for i := range out {
		out[i].QueuePosition = i + 1
	}
	return out
}

// ReadyOrder returns printed jobs in canonical order for the pickup display.
func ReadyOrder(jobs []model.Job) []model.Job {
	return sorted(jobs, func(j *model.Job) bool { return j.Status == model.StatusPrinted })
}

// Position returns the 1-based position of the job in the active view, or
// zero if the job is not active.
func Position(jobs []model.Job, jobID string) int {
	for _, j := range ActiveOrder(jobs) {
		if j.ID == jobID {
			return j.QueuePosition
		}
	}
	return 0
}
