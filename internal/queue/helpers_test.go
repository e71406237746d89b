package queue

import (
	"time"

	"github.com/xeroq/api/internal/model"
)

var testBase = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type jobOpt func(*model.Job)

func paid() jobOpt {
	return func(j *model.Job) {
		j.Payment = &model.Payment{Amount: 10, Reference: "PAY-test", CompletedAt: testBase}
	}
}

func urgent() jobOpt {
	return func(j *model.Job) { j.Urgency = model.UrgencyUrgent }
}

func tier(t model.Tier) jobOpt {
	return func(j *model.Job) { j.PriorityTier = t }
}

func status(s model.Status) jobOpt {
	return func(j *model.Job) { j.Status = s }
}

func onResource(r model.Resource) jobOpt {
	return func(j *model.Job) { j.AssignedResource = r }
}

func pages(count, copies int) jobOpt {
	return func(j *model.Job) {
		j.PageCount = count
		j.Copies = copies
	}
}

func code(c string) jobOpt {
	return func(j *model.Job) { j.Code = c }
}

// testJob builds a waiting single-copy job created seq seconds after the
// test epoch.
func testJob(id string, seq int, opts ...jobOpt) model.Job {
	j := model.Job{
		ID:               id,
		Code:             "0000",
		SubmitterID:      "student-1",
		DocumentName:     id + ".pdf",
		PageCount:        3,
		Copies:           1,
		ColorMode:        model.ColorModeMonochrome,
		Urgency:          model.UrgencyNormal,
		PickupSlot:       "1",
		Status:           model.StatusWaiting,
		AssignedResource: model.ResourceA,
		PriorityTier:     model.TierLow,
		CreatedAt:        testBase.Add(time.Duration(seq) * time.Second),
	}
	for _, opt := range opts {
		opt(&j)
	}
	return j
}

func ids(jobs []model.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
