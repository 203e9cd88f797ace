package lifecycle

import "fmt"

// ErrNoForwardStep reports an attempted simple advance from a step whose
// successor is not fixed (Lossen needs a disposition) or does not exist.
type ErrNoForwardStep struct {
	From Step
}

func (e *ErrNoForwardStep) Error() string {
	return fmt.Sprintf("no simple forward transition from step %q", e.From)
}

// forwardSteps holds the operator-triggered simple progressions. Lossen is
// deliberately absent: leaving Lossen goes through the quality gate, which
// consults the routing resolver. Hold is only left via a patch.
var forwardSteps = map[Step]Step{
	StepWikkelen:      StepLossen,
	StepMazak:         StepEindinspectie,
	StepNabewerken:    StepEindinspectie,
	StepEindinspectie: StepFinished,
}

// NextStep returns the fixed successor for a simple forward progression.
func NextStep(current Step) (Step, bool) {
	next, ok := forwardSteps[current]
	return next, ok
}

// Advance computes the step a lot moves to on a terminal confirm. It never
// produces a value outside the step vocabulary and never moves terminal or
// suspended lots.
func Advance(current Step) (Step, error) {
	if !current.IsKnown() {
		return "", fmt.Errorf("unknown step %q", current)
	}
	next, ok := NextStep(current)
	if !ok {
		return "", &ErrNoForwardStep{From: current}
	}
	return next, nil
}
