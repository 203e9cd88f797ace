package production_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fitlot/internal/config"
	"fitlot/internal/identity"
	"fitlot/internal/lifecycle"
	"fitlot/internal/logging"
	"fitlot/internal/lotid"
	"fitlot/internal/production"
	"fitlot/internal/quality"
	"fitlot/internal/routing"
	"fitlot/internal/store"
	"fitlot/internal/testsupport"
)

func newService(t *testing.T, opts ...testsupport.ConfigOption) (*production.Service, *store.Store, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	st := testsupport.MustOpenStore(t, cfg)
	return production.New(st, cfg, logging.NewNop()), st, cfg
}

func TestStartProductionGeneratesLotNumber(t *testing.T) {
	svc, st, _ := newService(t, testsupport.WithStation("BH11"))
	ctx := context.Background()
	testsupport.SeedOrder(t, st, "PO-100", "FL-200-CB", 10)

	lot, err := svc.StartProduction(ctx, "PO-100", "")
	if err != nil {
		t.Fatalf("StartProduction: %v", err)
	}

	prefix, err := lotid.Prefix("BH11", time.Now())
	if err != nil {
		t.Fatalf("Prefix: %v", err)
	}
	if !strings.HasPrefix(lot.LotNumber, prefix) || len(lot.LotNumber) != lotid.GeneratedLength {
		t.Fatalf("lot number %q does not match prefix %q", lot.LotNumber, prefix)
	}
	if lot.CurrentStep != lifecycle.StepWikkelen || lot.OriginMachine != "BH11" {
		t.Fatalf("new lot state wrong: %+v", lot)
	}
	if lot.Classification != routing.ClassFlange {
		t.Fatalf("classification not derived from item: %s", lot.Classification)
	}

	second, err := svc.StartProduction(ctx, "PO-100", "")
	if err != nil {
		t.Fatalf("StartProduction: %v", err)
	}
	if second.LotNumber == lot.LotNumber {
		t.Fatalf("sequence did not advance: %s", second.LotNumber)
	}
}

func TestStartProductionUnknownOrder(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.StartProduction(context.Background(), "PO-NOPE", "")
	if !errors.Is(err, production.ErrLookup) {
		t.Fatalf("expected ErrLookup, got %v", err)
	}
}

func TestStartProductionManualID(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	testsupport.SeedOrder(t, st, "PO-100", "FL-200-CB", 10)

	if _, err := svc.StartProduction(ctx, "PO-100", "short"); !errors.Is(err, production.ErrValidation) {
		t.Fatalf("expected ErrValidation for short manual id, got %v", err)
	}

	lot, err := svc.StartProduction(ctx, "PO-100", "CUSTOM-LOT-0001")
	if err != nil {
		t.Fatalf("StartProduction: %v", err)
	}
	if lot.LotNumber != "CUSTOM-LOT-0001" {
		t.Fatalf("manual id not used: %s", lot.LotNumber)
	}
}

func TestStartProductionStampsOperator(t *testing.T) {
	svc, st, _ := newService(t, testsupport.WithOperator("fallback@fitlot.local"))
	testsupport.SeedOrder(t, st, "PO-100", "FL-200-CB", 10)

	ctx := identity.WithOperator(context.Background(), "jan@fitlot.local")
	lot, err := svc.StartProduction(ctx, "PO-100", "")
	if err != nil {
		t.Fatalf("StartProduction: %v", err)
	}
	if lot.LastOperator != "jan@fitlot.local" {
		t.Fatalf("operator stamp = %q", lot.LastOperator)
	}

	lot, err = svc.StartProduction(context.Background(), "PO-100", "")
	if err != nil {
		t.Fatalf("StartProduction: %v", err)
	}
	if lot.LastOperator != "fallback@fitlot.local" {
		t.Fatalf("fallback operator stamp = %q", lot.LastOperator)
	}
}

func TestAdvanceMovesThroughFlow(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	testsupport.SeedOrder(t, st, "PO-100", "FL-200-CB", 10)
	started, err := svc.StartProduction(ctx, "PO-100", "")
	if err != nil {
		t.Fatalf("StartProduction: %v", err)
	}

	lot, err := svc.Advance(ctx, started.LotNumber)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if lot.CurrentStep != lifecycle.StepLossen {
		t.Fatalf("Wikkelen should advance to Lossen, got %s", lot.CurrentStep)
	}

	// Lossen exits through the quality gate, not plain advancement.
	if _, err := svc.Advance(ctx, started.LotNumber); !errors.Is(err, production.ErrValidation) {
		t.Fatalf("expected ErrValidation at Lossen, got %v", err)
	}
}

func TestAdvanceRecordsInspectionArrival(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	testsupport.SeedOrder(t, st, "PO-100", "FL-200-CB", 10)
	seeded := testsupport.SeedLot(t, st, "402505411400001", "PO-100")
	seeded.CurrentStep = lifecycle.StepMazak
	if err := st.UpdateLot(ctx, seeded); err != nil {
		t.Fatalf("UpdateLot: %v", err)
	}

	lot, err := svc.Advance(ctx, seeded.LotNumber)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if lot.CurrentStep != lifecycle.StepEindinspectie {
		t.Fatalf("Mazak should advance to Eindinspectie, got %s", lot.CurrentStep)
	}
	if lot.ArrivedAtInspectionAt == nil {
		t.Fatal("inspection arrival timestamp not recorded")
	}

	lot, err = svc.Advance(ctx, seeded.LotNumber)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if lot.CurrentStep != lifecycle.StepFinished {
		t.Fatalf("Eindinspectie should advance to Finished, got %s", lot.CurrentStep)
	}
}

func TestAdvanceUnknownCodeLeavesStateIntact(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	testsupport.SeedOrder(t, st, "PO-100", "FL-200-CB", 10)
	testsupport.SeedLot(t, st, "402505411400001", "PO-100")

	// A short typed code is only an advisory mismatch; the lookup still
	// runs and its miss mutates nothing.
	if _, err := svc.Advance(ctx, "999"); !errors.Is(err, production.ErrLookup) {
		t.Fatalf("expected ErrLookup, got %v", err)
	}

	lot, err := st.GetLot(ctx, "402505411400001")
	if err != nil {
		t.Fatalf("GetLot: %v", err)
	}
	if lot.CurrentStep != lifecycle.StepWikkelen {
		t.Fatalf("failed lookup mutated a lot: %s", lot.CurrentStep)
	}
}

func TestSubmitDispositionRejectBlocksWithoutReason(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	testsupport.SeedOrder(t, st, "PO-100", "FL-200-CB", 10)
	seeded := testsupport.SeedLot(t, st, "402505411400001", "PO-100")
	seeded.CurrentStep = lifecycle.StepLossen
	if err := st.UpdateLot(ctx, seeded); err != nil {
		t.Fatalf("UpdateLot: %v", err)
	}

	_, err := svc.SubmitDisposition(ctx, seeded.LotNumber, quality.Submission{
		Disposition: routing.DispositionReject,
	})
	if !errors.Is(err, production.ErrMissingReason) {
		t.Fatalf("expected ErrMissingReason, got %v", err)
	}

	lot, err := st.GetLot(ctx, seeded.LotNumber)
	if err != nil {
		t.Fatalf("GetLot: %v", err)
	}
	if lot.CurrentStep != lifecycle.StepLossen {
		t.Fatalf("blocked disposition persisted a change: %s", lot.CurrentStep)
	}
}

func TestSubmitDispositionOKRoutes(t *testing.T) {
	svc, st, _ := newService(t, testsupport.WithStation("BH17"))
	ctx := context.Background()
	testsupport.SeedOrder(t, st, "PO-100", "FL-200-CB", 10)
	started, err := svc.StartProduction(ctx, "PO-100", "")
	if err != nil {
		t.Fatalf("StartProduction: %v", err)
	}
	if _, err := svc.Advance(ctx, started.LotNumber); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	lot, err := svc.SubmitDisposition(ctx, started.LotNumber, quality.Submission{
		Disposition:  routing.DispositionOK,
		Measurements: map[string]string{"tf": "12.5"},
	})
	if err != nil {
		t.Fatalf("SubmitDisposition: %v", err)
	}
	if lot.CurrentStep != lifecycle.StepMazak {
		t.Fatalf("flange from BH17 should route to Mazak, got %s", lot.CurrentStep)
	}
}

func TestSubmitDispositionUsesConfiguredStations(t *testing.T) {
	svc, st, _ := newService(t, func(c *config.Config) {
		c.Station.HoldStation = "HOLD-NORTH"
	})
	ctx := context.Background()
	testsupport.SeedOrder(t, st, "PO-100", "FL-200-CB", 10)
	seeded := testsupport.SeedLot(t, st, "402505411400001", "PO-100")
	seeded.CurrentStep = lifecycle.StepLossen
	if err := st.UpdateLot(ctx, seeded); err != nil {
		t.Fatalf("UpdateLot: %v", err)
	}

	lot, err := svc.SubmitDisposition(ctx, seeded.LotNumber, quality.Submission{
		Disposition: routing.DispositionTempReject,
		Reason:      "TF te dun",
	})
	if err != nil {
		t.Fatalf("SubmitDisposition: %v", err)
	}
	if lot.CurrentStation != "HOLD-NORTH" {
		t.Fatalf("configured hold station ignored: %s", lot.CurrentStation)
	}
	if !lot.IsTempRejected() {
		t.Fatalf("sentinel missing: %+v", lot.Inspection)
	}
}

func TestPatchOrderFields(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	testsupport.SeedOrder(t, st, "PO-100", "FL-200-CB", 10)

	urgency := "spoed"
	notes := "klant wacht"
	order, err := svc.PatchOrder(ctx, "PO-100", production.Fields{Urgency: &urgency, Notes: &notes})
	if err != nil {
		t.Fatalf("PatchOrder: %v", err)
	}
	if order.Urgency != store.UrgencySpoed || order.Notes != "klant wacht" {
		t.Fatalf("patch not applied: %+v", order)
	}

	bad := "ASAP"
	if _, err := svc.PatchOrder(ctx, "PO-100", production.Fields{Urgency: &bad}); !errors.Is(err, production.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown urgency, got %v", err)
	}
}

func TestPatchLotResumeFromHold(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	testsupport.SeedOrder(t, st, "PO-100", "FL-200-CB", 10)
	seeded := testsupport.SeedLot(t, st, "402505411400001", "PO-100")
	seeded.CurrentStep = lifecycle.StepLossen
	if err := st.UpdateLot(ctx, seeded); err != nil {
		t.Fatalf("UpdateLot: %v", err)
	}
	if _, err := svc.SubmitDisposition(ctx, seeded.LotNumber, quality.Submission{
		Disposition: routing.DispositionTempReject,
		Reason:      "TF te dun",
	}); err != nil {
		t.Fatalf("SubmitDisposition: %v", err)
	}

	resume := "Nabewerken"
	lot, err := svc.PatchLot(ctx, seeded.LotNumber, production.Fields{ResumeTo: &resume})
	if err != nil {
		t.Fatalf("PatchLot: %v", err)
	}
	if lot.CurrentStep != lifecycle.StepNabewerken || lot.Status != lifecycle.LotActive {
		t.Fatalf("resume did not re-enter the flow: %+v", lot)
	}
	if !lot.IsTempRejected() {
		t.Fatal("resume should keep the inspection sentinel")
	}
}

func TestPatchLotResumeRequiresHold(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	testsupport.SeedOrder(t, st, "PO-100", "FL-200-CB", 10)
	testsupport.SeedLot(t, st, "402505411400001", "PO-100")

	resume := "Mazak"
	_, err := svc.PatchLot(ctx, "402505411400001", production.Fields{ResumeTo: &resume})
	if !errors.Is(err, production.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestPatchDispatchByKind(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	testsupport.SeedOrder(t, st, "PO-100", "FL-200-CB", 10)

	notes := "spoedklus"
	if err := svc.Patch(ctx, production.PatchOrderKind, "PO-100", production.Fields{Notes: &notes}); err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if err := svc.Patch(ctx, "invoice", "PO-100", production.Fields{Notes: &notes}); !errors.Is(err, production.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown kind, got %v", err)
	}
}

func TestMetricsReflectsPool(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	testsupport.SeedOrder(t, st, "PO-100", "FL-200-CB", 10)
	if _, err := svc.StartProduction(ctx, "PO-100", ""); err != nil {
		t.Fatalf("StartProduction: %v", err)
	}

	report, err := svc.Metrics(ctx)
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if report.TotalPlanned != 10 || report.ActiveCount != 1 {
		t.Fatalf("report wrong: %+v", report)
	}
}
