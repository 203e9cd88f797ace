package lifecycle

import "strings"

// Step represents a lot's position in the production flow. The values are
// the shop-floor Dutch step names and are persisted verbatim.
type Step string

const (
	StepWikkelen      Step = "Wikkelen"
	StepLossen        Step = "Lossen"
	StepMazak         Step = "Mazak"
	StepNabewerken    Step = "Nabewerken"
	StepEindinspectie Step = "Eindinspectie"
	StepFinished      Step = "Finished"
	StepHold          Step = "Hold"
	StepRejected      Step = "REJECTED"
)

// LotStatus is the coarse activity state carried next to the step.
type LotStatus string

const (
	LotActive   LotStatus = "Active"
	LotHold     LotStatus = "hold"
	LotRejected LotStatus = "rejected"
)

var allSteps = []Step{
	StepWikkelen,
	StepLossen,
	StepMazak,
	StepNabewerken,
	StepEindinspectie,
	StepFinished,
	StepHold,
	StepRejected,
}

var stepSet = func() map[Step]struct{} {
	set := make(map[Step]struct{}, len(allSteps))
	for _, step := range allSteps {
		set[step] = struct{}{}
	}
	return set
}()

// AllSteps returns the ordered list of known steps.
func AllSteps() []Step {
	cp := make([]Step, len(allSteps))
	copy(cp, allSteps)
	return cp
}

// ParseStep converts a string into a known Step, case-insensitively.
func ParseStep(value string) (Step, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}
	for _, step := range allSteps {
		if strings.EqualFold(trimmed, string(step)) {
			return step, true
		}
	}
	return "", false
}

// IsKnown reports whether the step belongs to the fixed vocabulary.
func (s Step) IsKnown() bool {
	_, ok := stepSet[s]
	return ok
}

// IsTerminal reports whether a lot at this step can never move again.
// Hold is recoverable (via patch) and therefore not terminal.
func (s Step) IsTerminal() bool {
	return s == StepFinished || s == StepRejected
}

// IsActive reports whether a lot at this step counts toward live work.
func (s Step) IsActive() bool {
	return s.IsKnown() && !s.IsTerminal()
}
