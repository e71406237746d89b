package queue

import "github.com/xeroq/api/internal/model"

// The lifecycle is strictly forward: waiting -> printing -> printed ->
// collected. Operators drive the first two edges; the last edge belongs to
// pickup verification alone.
var operatorEdges = map[model.Status]model.Status{
	model.StatusWaiting:  model.StatusPrinting,
	model.StatusPrinting: model.StatusPrinted,
}

// Advance validates and applies an operator-driven status change, returning
// the updated job. The collected edge is rejected here; it is reachable only
// through Collect after a verified pickup.
func Advance(j model.Job, target model.Status) (model.Job, error) {
	if operatorEdges[j.Status] != target {
		return j, &InvalidTransitionError{From: j.Status, To: target}
	}
	j.Status = target
	return j, nil
}

// Collect applies the terminal transition. Callers must have verified the
// pickup code first; Collect only enforces the printed precondition.
func Collect(j model.Job) (model.Job, error) {
	if j.Status != model.StatusPrinted {
		return j, &InvalidTransitionError{From: j.Status, To: model.StatusCollected}
	}
	j.Status = model.StatusCollected
	return j, nil
}
