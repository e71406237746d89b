package queue

import (
	"math"

	"github.com/xeroq/api/internal/model"
)

const (
	paidPoints      = 3
	urgentPoints    = 2
	smallJobPoints  = 1
	smallJobPages   = 5
	setupPerJobMins = 0.5
)

// EstimateInput are the job attributes driving priority scoring.
type EstimateInput struct {
	PageCount int
	Urgent    bool
	Paid      bool
}

// Score accumulates the integer priority points for a job.
func Score(in EstimateInput) int {
	score := 0
	if in.Paid {
		score += paidPoints
	}
	if in.Urgent {
		score += urgentPoints
	}
	if in.PageCount <= smallJobPages {
		score += smallJobPoints
	}
	return score
}

// TierFor maps a priority score to a tier.
func TierFor(score int) model.Tier {
	switch {
	case score >= 4:
		return model.TierHigh
	case score >= 2:
		return model.TierMedium
	default:
		return model.TierLow
	}
}

func tierMultiplier(t model.Tier) float64 {
	switch t {
	case model.TierHigh:
		return 0.7
	case model.TierMedium:
		return 0.85
	default:
		return 1.0
	}
}

// Estimate computes the priority tier and estimated wait in minutes for a
// job assigned to the printer described by load. Wait is the queued pages
// at print speed plus a half-minute changeover per queued job, discounted
// by tier, floored at one minute.
func Estimate(in EstimateInput, load ResourceLoad) (model.Tier, int) {
	tier := TierFor(Score(in))

	base := float64(load.PagesQueued) / load.PagesPerMinute
	setup := float64(load.ActiveJobs) * setupPerJobMins
	wait := int(math.Round((base + setup) * tierMultiplier(tier)))
	if wait < 1 {
		wait = 1
	}

	return tier, wait
}
