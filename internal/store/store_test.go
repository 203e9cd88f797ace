package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fitlot/internal/lifecycle"
	"fitlot/internal/routing"
	"fitlot/internal/store"
	"fitlot/internal/testsupport"
)

func TestUpsertOrderPreservesPatchedFields(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	order := testsupport.SeedOrder(t, st, "PO-100", "FL-200-CB", 10)

	order.Urgency = store.UrgencySpoed
	order.Notes = "klant wacht"
	order.IdentCode = "ID-7"
	if err := st.UpdateOrder(ctx, order); err != nil {
		t.Fatalf("UpdateOrder: %v", err)
	}

	// A re-import of the same row must not clobber manual bookkeeping.
	if _, err := st.UpsertOrder(ctx, &store.Order{
		OrderID: "PO-100",
		Item:    "FL-200-CB",
		Plan:    12,
		Machine: "BH12",
	}); err != nil {
		t.Fatalf("UpsertOrder: %v", err)
	}

	got, err := st.GetOrder(ctx, "PO-100")
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if got.Plan != 12 || got.Machine != "BH12" {
		t.Fatalf("import-owned fields not updated: plan=%d machine=%s", got.Plan, got.Machine)
	}
	if got.Urgency != store.UrgencySpoed || got.Notes != "klant wacht" || got.IdentCode != "ID-7" {
		t.Fatalf("patched fields lost on re-import: %+v", got)
	}
}

func TestGetOrderMissingReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	order, err := st.GetOrder(context.Background(), "PO-NOPE")
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if order != nil {
		t.Fatalf("expected nil for missing order, got %+v", order)
	}
}

func TestInsertLotRejectsDuplicateNumber(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	testsupport.SeedOrder(t, st, "PO-100", "FL-200-CB", 10)
	testsupport.SeedLot(t, st, "402505411400140", "PO-100")

	_, err := st.InsertLot(context.Background(), &store.Lot{
		LotNumber:   "402505411400140",
		OrderID:     "PO-100",
		CurrentStep: lifecycle.StepWikkelen,
		Status:      lifecycle.LotActive,
	})
	if err == nil {
		t.Fatal("expected duplicate lot number to fail")
	}
}

func TestLotRoundTripPreservesFields(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.SeedOrder(t, st, "PO-100", "FL-200-CB", 10)
	lot := testsupport.SeedLot(t, st, "402505411400140", "PO-100")

	unloaded := time.Now().UTC().Truncate(time.Second)
	lot.CurrentStep = lifecycle.StepMazak
	lot.CurrentStation = "MAZAK"
	lot.Classification = routing.ClassFlange
	lot.Measurements = map[string]string{"tf": "12.5"}
	lot.Inspection = store.Inspection{Status: store.InspectionTempReject, Note: "tf dun", Reason: "TF te dun"}
	lot.LastOperator = "jan@fitlot.local"
	lot.UnloadedAt = &unloaded
	if err := st.UpdateLot(ctx, lot); err != nil {
		t.Fatalf("UpdateLot: %v", err)
	}

	got, err := st.GetLot(ctx, "402505411400140")
	if err != nil {
		t.Fatalf("GetLot: %v", err)
	}
	if got.CurrentStep != lifecycle.StepMazak || got.CurrentStation != "MAZAK" {
		t.Fatalf("step/station not persisted: %s %s", got.CurrentStep, got.CurrentStation)
	}
	if got.Measurements["tf"] != "12.5" {
		t.Fatalf("measurements not persisted: %+v", got.Measurements)
	}
	if !got.IsTempRejected() {
		t.Fatalf("inspection status not persisted: %+v", got.Inspection)
	}
	if got.UnloadedAt == nil || !got.UnloadedAt.Equal(unloaded) {
		t.Fatalf("unloaded timestamp not persisted: %v", got.UnloadedAt)
	}
}

func TestListLotsFiltersBySteps(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.SeedOrder(t, st, "PO-100", "FL-200-CB", 10)
	for i, step := range []lifecycle.Step{lifecycle.StepWikkelen, lifecycle.StepMazak, lifecycle.StepFinished} {
		lot := testsupport.SeedLot(t, st, fmt.Sprintf("40250541140%04d", i+1), "PO-100")
		lot.CurrentStep = step
		if err := st.UpdateLot(ctx, lot); err != nil {
			t.Fatalf("UpdateLot: %v", err)
		}
	}

	lots, err := st.ListLots(ctx, lifecycle.StepWikkelen, lifecycle.StepMazak)
	if err != nil {
		t.Fatalf("ListLots: %v", err)
	}
	if len(lots) != 2 {
		t.Fatalf("expected 2 filtered lots, got %d", len(lots))
	}
}

func TestNextLotSequenceSeedsFromExistingLots(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.SeedOrder(t, st, "PO-100", "FL-200-CB", 10)
	prefix := "40250541140"
	for i := 1; i <= 3; i++ {
		testsupport.SeedLot(t, st, fmt.Sprintf("%s%04d", prefix, i), "PO-100")
	}

	seq, err := st.NextLotSequence(ctx, prefix)
	if err != nil {
		t.Fatalf("NextLotSequence: %v", err)
	}
	if seq != 4 {
		t.Fatalf("expected sequence 4 after 3 legacy lots, got %d", seq)
	}

	seq, err = st.NextLotSequence(ctx, prefix)
	if err != nil {
		t.Fatalf("NextLotSequence: %v", err)
	}
	if seq != 5 {
		t.Fatalf("expected sequence 5, got %d", seq)
	}
}

func TestNextLotSequenceIsolatedPerPrefix(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first, err := st.NextLotSequence(ctx, "40250541140")
	if err != nil {
		t.Fatalf("NextLotSequence: %v", err)
	}
	other, err := st.NextLotSequence(ctx, "40250541240")
	if err != nil {
		t.Fatalf("NextLotSequence: %v", err)
	}
	if first != 1 || other != 1 {
		t.Fatalf("prefixes should count independently: %d %d", first, other)
	}
}

func TestWatchChangesSeesLocalWrites(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := st.WatchChanges(ctx, 50*time.Millisecond)
	testsupport.SeedOrder(t, st, "PO-100", "FL-200-CB", 10)
	testsupport.WaitForTick(t, feed, 2*time.Second)
}

func TestWatchChangesSeesOtherConnections(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	feed := st.WatchChanges(ctx, 20*time.Millisecond)

	// A second Store on the same file stands in for another terminal.
	other, err := store.OpenPath(st.Path())
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	defer other.Close()
	testsupport.SeedOrder(t, other, "PO-200", "ELBOW-TB", 5)

	testsupport.WaitForTick(t, feed, 2*time.Second)
}

func TestStatsGroupsByStep(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.SeedOrder(t, st, "PO-100", "FL-200-CB", 10)
	testsupport.SeedLot(t, st, "402505411400001", "PO-100")
	testsupport.SeedLot(t, st, "402505411400002", "PO-100")

	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats[lifecycle.StepWikkelen] != 2 {
		t.Fatalf("expected 2 lots at winding, got %d", stats[lifecycle.StepWikkelen])
	}
}
