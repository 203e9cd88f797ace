package lifecycle_test

import (
	"errors"
	"testing"

	"fitlot/internal/lifecycle"
)

func TestAdvanceForwardProgression(t *testing.T) {
	cases := []struct {
		from lifecycle.Step
		to   lifecycle.Step
	}{
		{lifecycle.StepWikkelen, lifecycle.StepLossen},
		{lifecycle.StepMazak, lifecycle.StepEindinspectie},
		{lifecycle.StepNabewerken, lifecycle.StepEindinspectie},
		{lifecycle.StepEindinspectie, lifecycle.StepFinished},
	}
	for _, tc := range cases {
		next, err := lifecycle.Advance(tc.from)
		if err != nil {
			t.Fatalf("Advance(%s) failed: %v", tc.from, err)
		}
		if next != tc.to {
			t.Fatalf("Advance(%s) = %s, expected %s", tc.from, next, tc.to)
		}
		if !next.IsKnown() {
			t.Fatalf("Advance(%s) produced a value outside the vocabulary: %q", tc.from, next)
		}
	}
}

func TestAdvanceRefusesNonForwardSteps(t *testing.T) {
	for _, step := range []lifecycle.Step{
		lifecycle.StepLossen,
		lifecycle.StepFinished,
		lifecycle.StepHold,
		lifecycle.StepRejected,
	} {
		_, err := lifecycle.Advance(step)
		var noForward *lifecycle.ErrNoForwardStep
		if !errors.As(err, &noForward) {
			t.Fatalf("Advance(%s): expected ErrNoForwardStep, got %v", step, err)
		}
	}
}

func TestAdvanceRejectsUnknownStep(t *testing.T) {
	if _, err := lifecycle.Advance(lifecycle.Step("Polijsten")); err == nil {
		t.Fatal("expected error for unknown step")
	}
}

func TestParseStep(t *testing.T) {
	step, ok := lifecycle.ParseStep("  wikkelen ")
	if !ok || step != lifecycle.StepWikkelen {
		t.Fatalf("ParseStep: got %q ok=%v", step, ok)
	}
	if _, ok := lifecycle.ParseStep("Montage"); ok {
		t.Fatal("expected unknown step to fail parsing")
	}
	if _, ok := lifecycle.ParseStep(""); ok {
		t.Fatal("expected empty step to fail parsing")
	}
}

func TestStepClassification(t *testing.T) {
	if !lifecycle.StepFinished.IsTerminal() || !lifecycle.StepRejected.IsTerminal() {
		t.Fatal("Finished and REJECTED must be terminal")
	}
	if lifecycle.StepHold.IsTerminal() {
		t.Fatal("Hold is recoverable, not terminal")
	}
	if !lifecycle.StepHold.IsActive() {
		t.Fatal("Hold lots still count as active work")
	}
	for _, step := range lifecycle.AllSteps() {
		if !step.IsKnown() {
			t.Fatalf("AllSteps returned unknown step %q", step)
		}
	}
}
