package model

// SubmitRequest is the body of POST /api/jobs.
type SubmitRequest struct {
	DocumentName      string    `json:"documentName" validate:"required,max=255"`
	DocumentSizeBytes int64     `json:"documentSizeBytes" validate:"required,min=1"`
	PageCount         int       `json:"pageCount" validate:"omitempty,min=1"`
	Copies            int       `json:"copies" validate:"required,min=1,max=50"`
	ColorMode         ColorMode `json:"colorMode" validate:"required,oneof=monochrome color"`
	Urgency           Urgency   `json:"urgency" validate:"required,oneof=normal urgent"`
	PickupSlot        string    `json:"pickupSlot" validate:"required"`
	Note              string    `json:"note" validate:"omitempty,max=500"`
}

// AdvanceRequest is the body of POST /api/jobs/:jobId/advance.
type AdvanceRequest struct {
	TargetStatus Status `json:"targetStatus" validate:"required,oneof=waiting printing printed collected"`
}

// CommentRequest is the body of POST /api/jobs/:jobId/comments.
type CommentRequest struct {
	Message        string `json:"message" validate:"required,max=500"`
	RequiresAction bool   `json:"requiresAction"`
}

// PayRequest is the body of POST /api/jobs/:jobId/pay.
type PayRequest struct {
	Amount    int    `json:"amount" validate:"required,min=1"`
	Reference string `json:"reference" validate:"omitempty,max=64"`
}

// VerifyResponse is returned by GET /api/verify/:code.
type VerifyResponse struct {
	Job *Job `json:"job"`
}

// QueueResponse is an ordered queue view.
type QueueResponse struct {
	Jobs  []Job `json:"jobs"`
	Count int   `json:"count"`
}

// QuoteResponse is the computed price for a job.
type QuoteResponse struct {
	BaseAmount  int      `json:"baseAmount"`
	Surcharge   int      `json:"surcharge"`
	TotalAmount int      `json:"totalAmount"`
	Breakdown   []string `json:"breakdown"`
}
