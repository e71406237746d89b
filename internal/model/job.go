package model

import (
	"encoding/json"
	"time"
)

// Job is a single print submission moving through the queue.
type Job struct {
	ID   string `json:"id"`
	Code string `json:"code"`

	// Submission attributes, immutable after creation.
	SubmitterID       string    `json:"submitterId"`
	SubmitterLabel    string    `json:"submitterLabel"`
	DocumentName      string    `json:"documentName"`
	DocumentSizeBytes int64     `json:"documentSizeBytes"`
	PageCount         int       `json:"pageCount"`
	Copies            int       `json:"copies"`
	ColorMode         ColorMode `json:"colorMode"`
	Urgency           Urgency   `json:"urgency"`
	PickupSlot        string    `json:"pickupSlot"`
	Note              string    `json:"note,omitempty"`

	Status           Status   `json:"status"`
	AssignedResource Resource `json:"assignedResource"`

	// Computed once at submission and not recomputed afterwards. The live
	// queue order reacts to payment directly, independent of the stored tier.
	PriorityTier         Tier `json:"priorityTier"`
	EstimatedWaitMinutes int  `json:"estimatedWaitMinutes"`

	// 1-based index in the active view, derived on every read. Zero for
	// jobs outside the active view.
	QueuePosition int `json:"queuePosition"`

	// Payment is nil until the submitter pays; the amount, reference and
	// timestamp are set together exactly once.
	Payment *Payment `json:"payment,omitempty"`

	OperatorComments        []OperatorComment `json:"operatorComments,omitempty"`
	NeedsSubmitterAttention bool              `json:"needsSubmitterAttention"`

	// Assigned by the store at insert time; authoritative ordering key.
	CreatedAt time.Time `json:"createdAt"`
}

// Payment records a completed payment. All fields are set together.
type Payment struct {
	Amount      int       `json:"amount"`
	Reference   string    `json:"reference"`
	CompletedAt time.Time `json:"completedAt"`
}

// OperatorComment is an append-only note from an operator to the submitter.
type OperatorComment struct {
	ID             string    `json:"id"`
	Message        string    `json:"message"`
	RequiresAction bool      `json:"requiresAction"`
	CreatedAt      time.Time `json:"createdAt"`
}

// IsPaid reports whether payment has completed for this job.
func (j *Job) IsPaid() bool {
	return j.Payment != nil
}

// TotalPages is the page load this job places on its printer.
func (j *Job) TotalPages() int {
	return j.PageCount * j.Copies
}

// MarshalJSON adds the derived isPaid field expected by clients.
func (j Job) MarshalJSON() ([]byte, error) {
	type alias Job
	return json.Marshal(struct {
		alias
		IsPaid bool `json:"isPaid"`
	}{alias(j), j.Payment != nil})
}
