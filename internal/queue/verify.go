package queue

import (
	"strings"

	"github.com/xeroq/api/internal/model"
)

// NormalizeCode strips everything but digits from a presented code.
func NormalizeCode(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Verify validates a presented pickup code against the full job set. It is
// read-only: a successful result only identifies the job, and the caller
// commits the terminal transition separately with Collect, so an operator
// can match the presenting person to the job before confirming.
func Verify(code string, jobs []model.Job) (*model.Job, error) {
	code = NormalizeCode(code)
	if len(code) != 4 {
		return nil, ErrMalformedCode
	}

	// Codes may be reused once their owning job is collected, so a live
	// job with this code always wins over a historical one.
	var collected *model.Job
	for i := range jobs {
		j := &jobs[i]
		if j.Code != code {
			continue
		}
		if j.Status == model.StatusCollected {
			collected = j
			continue
		}
		if j.Status != model.StatusPrinted {
			return nil, &NotReadyError{Status: j.Status}
		}
		found := *j
		return &found, nil
	}

	if collected != nil {
		return nil, ErrAlreadyCollected
	}
	return nil, ErrCodeNotFound
}
