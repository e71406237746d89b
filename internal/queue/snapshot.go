package queue

import "github.com/xeroq/api/internal/model"

// ResourceLoad is the derived load on one printer.
type ResourceLoad struct {
	Resource       model.Resource `json:"resource"`
	ActiveJobs     int            `json:"activeJobs"`
	PagesQueued    int            `json:"pagesQueued"`
	PagesPerMinute float64        `json:"pagesPerMinute"`
}

// Speeds holds the fixed per-resource print speeds in pages per minute.
type Speeds struct {
	A float64
	B float64
}

// DefaultSpeeds matches the two physical printers.
var DefaultSpeeds = Speeds{A: 25, B: 30}

// LoadSnapshot is a point-in-time view of both printers, recomputed from
// the live job set on every assignment decision and never cached.
type LoadSnapshot struct {
	A ResourceLoad `json:"resourceA"`
	B ResourceLoad `json:"resourceB"`
}

// For returns the load of the given resource.
func (s LoadSnapshot) For(r model.Resource) ResourceLoad {
	if r == model.ResourceB {
		return s.B
	}
	return s.A
}

// TakeSnapshot derives both printers' load from the job set. Only waiting
// and printing jobs count; load is pageCount x copies summed per resource.
func TakeSnapshot(jobs []model.Job, speeds Speeds) LoadSnapshot {
	snap := LoadSnapshot{
		A: ResourceLoad{Resource: model.ResourceA, PagesPerMinute: speeds.A},
		B: ResourceLoad{Resource: model.ResourceB, PagesPerMinute: speeds.B},
	}

	for i := range jobs {
		j := &jobs[i]
		if !j.Status.Active() {
			continue
		}
		switch j.AssignedResource {
		case model.ResourceA:
			snap.A.ActiveJobs++
			snap.A.PagesQueued += j.TotalPages()
		case model.ResourceB:
			snap.B.ActiveJobs++
			snap.B.PagesQueued += j.TotalPages()
		}
	}

	return snap
}
