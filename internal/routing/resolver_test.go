package routing_test

import (
	"testing"

	"fitlot/internal/lifecycle"
	"fitlot/internal/routing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		item     string
		expected routing.Classification
	}{
		{"FL-200-CB", routing.ClassFlange},
		{"flange DN80", routing.ClassFlange},
		{"ELBOW-CB", routing.ClassCB},
		{"bocht tb-90", routing.ClassTB},
		{"PIPE-STRAIGHT", routing.ClassGeneric},
	}
	for _, tc := range cases {
		if got := routing.Classify(tc.item); got != tc.expected {
			t.Errorf("Classify(%q) = %s, expected %s", tc.item, got, tc.expected)
		}
	}
}

func TestEffectiveClassificationPrefersTag(t *testing.T) {
	got := routing.EffectiveClassification(routing.ClassTB, "FL-200-CB")
	if got != routing.ClassTB {
		t.Fatalf("expected explicit tag to win, got %s", got)
	}
	got = routing.EffectiveClassification("", "FL-200-CB")
	if got != routing.ClassFlange {
		t.Fatalf("expected heuristic fallback flange, got %s", got)
	}
}

func TestResolveDestinationRejectBypassesClassification(t *testing.T) {
	dest := routing.ResolveDestination(routing.ClassFlange, "BH17", routing.DispositionReject)
	if dest.Step != lifecycle.StepRejected || dest.Station != routing.StationScrap {
		t.Fatalf("unexpected reject destination: %+v", dest)
	}

	dest = routing.ResolveDestination(routing.ClassGeneric, "BH16", routing.DispositionTempReject)
	if dest.Step != lifecycle.StepHold || dest.Station != routing.StationHold {
		t.Fatalf("unexpected temp reject destination: %+v", dest)
	}
}

func TestResolveDestinationOriginGroups(t *testing.T) {
	// Flange from a split-group machine goes to CNC machining.
	dest := routing.ResolveDestination(routing.Classify("FL-200-CB"), "BH17", routing.DispositionOK)
	if dest.Step != lifecycle.StepMazak {
		t.Fatalf("FL-200-CB from BH17: expected Mazak, got %s", dest.Step)
	}

	// Finishing-only machines ignore classification.
	dest = routing.ResolveDestination(routing.Classify("ELBOW-CB"), "BH16", routing.DispositionOK)
	if dest.Step != lifecycle.StepNabewerken {
		t.Fatalf("ELBOW-CB from BH16: expected Nabewerken, got %s", dest.Step)
	}
	dest = routing.ResolveDestination(routing.ClassFlange, "BH31", routing.DispositionOK)
	if dest.Step != lifecycle.StepNabewerken {
		t.Fatalf("flange from BH31: expected Nabewerken, got %s", dest.Step)
	}

	// Non-flange from a split-group machine skips Mazak.
	dest = routing.ResolveDestination(routing.ClassCB, "BH12", routing.DispositionOK)
	if dest.Step != lifecycle.StepNabewerken {
		t.Fatalf("CB from BH12: expected Nabewerken, got %s", dest.Step)
	}

	// Unknown origins default to finishing.
	dest = routing.ResolveDestination(routing.ClassFlange, "BH99", routing.DispositionOK)
	if dest.Step != lifecycle.StepNabewerken {
		t.Fatalf("unknown origin: expected Nabewerken, got %s", dest.Step)
	}
	dest = routing.ResolveDestination(routing.ClassFlange, "", routing.DispositionOK)
	if dest.Step != lifecycle.StepNabewerken {
		t.Fatalf("empty origin: expected Nabewerken, got %s", dest.Step)
	}
}

func TestParseOverride(t *testing.T) {
	dest, ok := routing.ParseOverride("mazak")
	if !ok || dest.Step != lifecycle.StepMazak {
		t.Fatalf("ParseOverride(mazak): got %+v ok=%v", dest, ok)
	}
	if _, ok := routing.ParseOverride("Finished"); ok {
		t.Fatal("Finished must not be an allowed override")
	}
	if _, ok := routing.ParseOverride("Hold"); ok {
		t.Fatal("Hold must not be an allowed override")
	}
}

func TestParseDisposition(t *testing.T) {
	if d, ok := routing.ParseDisposition(" OK "); !ok || d != routing.DispositionOK {
		t.Fatalf("ParseDisposition(OK): got %q ok=%v", d, ok)
	}
	if _, ok := routing.ParseDisposition("maybe"); ok {
		t.Fatal("expected unknown disposition to fail")
	}
}
