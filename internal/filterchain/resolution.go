package filterchain

import "stilidash/domain/survey"

// StepState describes what a step did during a fold
type StepState string

const (
	StateApplied StepState = "applied"
	StateAll     StepState = "all"
	StateStale   StepState = "stale"
	StateGated   StepState = "gated"
)

// StepResult records one step of a fold
type StepResult struct {
	Field     string       `json:"field"`
	Requested survey.Value `json:"requested"`
	Effective survey.Value `json:"effective"`
	State     StepState    `json:"state"`
	Before    int          `json:"rows_before"`
	After     int          `json:"rows_after"`
}

// Resolution is the per-step outcome of a fold, in chain order
type Resolution []StepResult

// Effective returns the selection that was actually applied
func (r Resolution) Effective() Selection {
	sel := make(Selection, len(r))
	for _, step := range r {
		sel[step.Field] = step.Effective
	}
	return sel
}

// Reset lists the fields whose stored selection was dropped, either as stale or
// because the field's gate was not satisfied
func (r Resolution) Reset() []string {
	var out []string
	for _, step := range r {
		if step.Requested.IsAll() {
			continue
		}
		if step.State == StateStale || step.State == StateGated {
			out = append(out, step.Field)
		}
	}
	return out
}
