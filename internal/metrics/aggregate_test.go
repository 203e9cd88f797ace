package metrics_test

import (
	"reflect"
	"testing"

	"fitlot/internal/lifecycle"
	"fitlot/internal/metrics"
	"fitlot/internal/store"
)

func lot(number, orderID, origin string, step lifecycle.Step) *store.Lot {
	return &store.Lot{
		LotNumber:     number,
		OrderID:       orderID,
		OriginMachine: origin,
		CurrentStep:   step,
	}
}

func TestAggregateLiveFigures(t *testing.T) {
	orders := []*store.Order{
		{OrderID: "PO-100", Machine: "BH11", Plan: 10},
		{OrderID: "PO-200", Machine: "BH16", Plan: 5},
	}
	lots := []*store.Lot{
		lot("L1", "PO-100", "BH11", lifecycle.StepWikkelen),
		lot("L2", "PO-100", "BH11", lifecycle.StepMazak),
		lot("L3", "PO-100", "BH11", lifecycle.StepFinished),
		lot("L4", "PO-100", "BH11", lifecycle.StepRejected),
	}

	report := metrics.Aggregate(orders, lots)

	if report.TotalPlanned != 15 {
		t.Fatalf("total planned = %d", report.TotalPlanned)
	}
	if report.ActiveCount != 2 || report.FinishedCount != 1 || report.RejectedCount != 1 {
		t.Fatalf("global counts wrong: %+v", report)
	}

	var po100 *metrics.OrderProgress
	for i := range report.PerOrder {
		if report.PerOrder[i].OrderID == "PO-100" {
			po100 = &report.PerOrder[i]
		}
	}
	if po100 == nil {
		t.Fatal("PO-100 missing from per-order figures")
	}
	if po100.Started != 4 || po100.LiveToDo != 6 || po100.LiveFinish != 1 {
		t.Fatalf("PO-100 figures wrong: %+v", po100)
	}
}

func TestAggregateLiveToDoNeverNegative(t *testing.T) {
	orders := []*store.Order{{OrderID: "PO-100", Machine: "BH11", Plan: 1}}
	lots := []*store.Lot{
		lot("L1", "PO-100", "BH11", lifecycle.StepWikkelen),
		lot("L2", "PO-100", "BH11", lifecycle.StepWikkelen),
		lot("L3", "PO-100", "BH11", lifecycle.StepWikkelen),
	}

	report := metrics.Aggregate(orders, lots)
	if report.PerOrder[0].LiveToDo != 0 {
		t.Fatalf("liveToDo went negative: %d", report.PerOrder[0].LiveToDo)
	}
}

func TestAggregateCountsTempRejectBySentinel(t *testing.T) {
	// The sentinel counts regardless of where the lot sits now.
	held := lot("L1", "PO-100", "BH11", lifecycle.StepHold)
	held.Inspection.Status = store.InspectionTempReject
	resumed := lot("L2", "PO-100", "BH11", lifecycle.StepNabewerken)
	resumed.Inspection.Status = store.InspectionTempReject

	report := metrics.Aggregate(
		[]*store.Order{{OrderID: "PO-100", Machine: "BH11", Plan: 5}},
		[]*store.Lot{held, resumed},
	)
	if report.TempRejectedCount != 2 {
		t.Fatalf("temp rejected = %d", report.TempRejectedCount)
	}
	if report.ActiveCount != 2 {
		t.Fatalf("held lots should still be active: %d", report.ActiveCount)
	}
}

func TestAggregateMachineDrillDown(t *testing.T) {
	orders := []*store.Order{
		{OrderID: "PO-100", Machine: "BH11", Plan: 10},
		{OrderID: "PO-150", Machine: "BH11", Plan: 4},
		{OrderID: "PO-200", Machine: "BH16", Plan: 5},
	}
	lots := []*store.Lot{
		lot("L1", "PO-100", "BH11", lifecycle.StepWikkelen),
		lot("L2", "PO-150", "BH11", lifecycle.StepFinished),
		lot("L3", "PO-200", "BH16", lifecycle.StepLossen),
	}

	report := metrics.Aggregate(orders, lots)
	if len(report.PerMachine) != 2 {
		t.Fatalf("expected 2 machines, got %d", len(report.PerMachine))
	}

	bh11 := report.PerMachine[0]
	if bh11.Machine != "BH11" || bh11.Running != 1 || bh11.Finished != 1 {
		t.Fatalf("BH11 figures wrong: %+v", bh11)
	}
	if len(bh11.Orders) != 2 {
		t.Fatalf("BH11 drill-down should list 2 orders, got %d", len(bh11.Orders))
	}
}

func TestAggregateBucketsByOwnKeysOnly(t *testing.T) {
	// A lot whose order is gone still counts under its own keys and never
	// leaks into a sibling bucket.
	orders := []*store.Order{{OrderID: "PO-100", Machine: "BH11", Plan: 2}}
	lots := []*store.Lot{
		lot("L1", "PO-100", "BH11", lifecycle.StepWikkelen),
		lot("L2", "PO-GONE", "BH31", lifecycle.StepWikkelen),
	}

	report := metrics.Aggregate(orders, lots)
	if report.ActiveCount != 2 {
		t.Fatalf("orphan lot dropped: %d", report.ActiveCount)
	}
	if report.PerOrder[0].Started != 1 {
		t.Fatalf("orphan lot leaked into PO-100: %+v", report.PerOrder[0])
	}

	var bh31 bool
	for _, machine := range report.PerMachine {
		if machine.Machine == "BH31" && machine.Running == 1 {
			bh31 = true
		}
	}
	if !bh31 {
		t.Fatal("orphan lot missing from BH31 machine bucket")
	}
}

func TestAggregateIsIdempotent(t *testing.T) {
	orders := []*store.Order{{OrderID: "PO-100", Machine: "BH11", Plan: 3}}
	lots := []*store.Lot{
		lot("L1", "PO-100", "BH11", lifecycle.StepWikkelen),
		lot("L2", "PO-100", "BH11", lifecycle.StepFinished),
	}

	first := metrics.Aggregate(orders, lots)
	second := metrics.Aggregate(orders, lots)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical input produced different reports")
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	report := metrics.Aggregate(nil, nil)
	if report.TotalPlanned != 0 || len(report.PerOrder) != 0 || len(report.PerMachine) != 0 {
		t.Fatalf("empty input should yield zero report: %+v", report)
	}
}
