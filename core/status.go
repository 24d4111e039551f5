package core

import "errors"

// Precondition failures. These are rejected before any computation
// starts; no result is produced.
var (
	// ErrNotReady means no valid cached evaluation exists for the
	// requested slot. Evaluate the slot first.
	ErrNotReady = errors.New("evaluation output not ready")

	// ErrStaleSlot means a partial (negative) slot was evaluated
	// against an older whole-problem evaluation than the current one.
	ErrStaleSlot = errors.New("partial slot stale against whole-problem evaluation")

	// ErrUnknownAlternative means an alternative index is out of range.
	ErrUnknownAlternative = errors.New("unknown alternative")

	// ErrUnknownCriterion means a slot does not address any criterion.
	ErrUnknownCriterion = errors.New("unknown criterion")

	// ErrWrongRule means the aggregation rule does not fit the call,
	// e.g. RuleDelta without a second alternative.
	ErrWrongRule = errors.New("aggregation rule not valid for this call")

	// ErrBusy means a public entry point was invoked while another one
	// was active. Overlapping calls are rejected, never queued.
	ErrBusy = errors.New("engine busy: overlapping call rejected")
)

// Internal failures. A bounded loop exhausted its budget with no safe
// fallback; these indicate a defect, not bad input.
var (
	// ErrLayering means the dominance peeling loop failed to terminate
	// within its bound.
	ErrLayering = errors.New("dominance layering failed to terminate")
)
