package queue

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	codeSpace       = 10000
	maxCodeAttempts = 100
)

// CodeResult is the outcome of pickup-code generation. Fallback marks the
// degraded path where the bounded retry loop gave up and the code was
// derived from the clock instead of drawn at random.
type CodeResult struct {
	Code     string
	Fallback bool
	Attempts int
}

// GenerateCode draws a 4-digit zero-padded code not present in existing.
// existing must be the codes of all jobs not yet collected, read as one
// consistent snapshot. After maxCodeAttempts misses it falls back to a
// timestamp-derived code; callers must treat that as a degraded event.
func GenerateCode(existing map[string]struct{}) CodeResult {
	for attempts := 1; attempts <= maxCodeAttempts; attempts++ {
		code := fmt.Sprintf("%04d", rand.Intn(codeSpace))
		if _, taken := existing[code]; !taken {
			return CodeResult{Code: code, Attempts: attempts}
		}
	}

	code := fmt.Sprintf("%04d", time.Now().UnixMilli()%codeSpace)
	return CodeResult{Code: code, Fallback: true, Attempts: maxCodeAttempts}
}
