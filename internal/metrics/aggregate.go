package metrics

import (
	"sort"

	"fitlot/internal/lifecycle"
	"fitlot/internal/store"
)

// OrderProgress is the live figure set for one order.
type OrderProgress struct {
	OrderID    string
	Machine    string
	Item       string
	Plan       int
	Started    int
	Finished   int
	LiveToDo   int
	LiveFinish int
	Urgency    store.Urgency
}

// MachineProgress is the live figure set for one origin machine, with the
// orders assigned to it for the drill-down view.
type MachineProgress struct {
	Machine  string
	Running  int
	Finished int
	Orders   []OrderProgress
}

// Report is the full dashboard payload.
type Report struct {
	TotalPlanned      int
	ActiveCount       int
	RejectedCount     int
	TempRejectedCount int
	FinishedCount     int
	PerMachine        []MachineProgress
	PerOrder          []OrderProgress
}

type lotCounts struct {
	started  int
	finished int
}

type machineCounts struct {
	running  int
	finished int
}

// Aggregate computes live progress figures from the full order and lot
// sets. It is pure and runs in O(|orders| + |lots|): one pass over lots
// builds per-order and per-machine maps, one pass over orders enriches
// them with constant-time lookups. Every lot lands in exactly one order
// bucket and one machine bucket, keyed by its own orderId and
// originMachine, so nothing is double counted.
func Aggregate(orders []*store.Order, lots []*store.Lot) *Report {
	report := &Report{}
	byOrder := make(map[string]*lotCounts, len(orders))
	byMachine := make(map[string]*machineCounts)

	for _, lot := range lots {
		if lot == nil {
			continue
		}
		oc := byOrder[lot.OrderID]
		if oc == nil {
			oc = &lotCounts{}
			byOrder[lot.OrderID] = oc
		}
		mc := byMachine[lot.OriginMachine]
		if mc == nil {
			mc = &machineCounts{}
			byMachine[lot.OriginMachine] = mc
		}

		oc.started++
		switch {
		case lot.CurrentStep.IsTerminal():
			if lot.CurrentStep == lifecycle.StepRejected {
				report.RejectedCount++
			} else {
				oc.finished++
				mc.finished++
				report.FinishedCount++
			}
		default:
			mc.running++
			report.ActiveCount++
		}
		if lot.IsTempRejected() {
			report.TempRejectedCount++
		}
	}

	machineOrders := make(map[string][]OrderProgress)
	for _, order := range orders {
		if order == nil {
			continue
		}
		report.TotalPlanned += order.Plan

		counts := byOrder[order.OrderID]
		if counts == nil {
			counts = &lotCounts{}
		}
		toDo := order.Plan - counts.started
		if toDo < 0 {
			toDo = 0
		}
		progress := OrderProgress{
			OrderID:    order.OrderID,
			Machine:    order.Machine,
			Item:       order.Item,
			Plan:       order.Plan,
			Started:    counts.started,
			Finished:   counts.finished,
			LiveToDo:   toDo,
			LiveFinish: counts.finished,
			Urgency:    order.Urgency,
		}
		report.PerOrder = append(report.PerOrder, progress)
		machineOrders[order.Machine] = append(machineOrders[order.Machine], progress)
	}

	machines := make([]string, 0, len(byMachine))
	seen := make(map[string]struct{}, len(byMachine))
	for machine := range byMachine {
		machines = append(machines, machine)
		seen[machine] = struct{}{}
	}
	// Machines with orders but no lots yet still get a dashboard row.
	for machine := range machineOrders {
		if _, ok := seen[machine]; !ok {
			machines = append(machines, machine)
		}
	}
	sort.Strings(machines)

	for _, machine := range machines {
		counts := byMachine[machine]
		if counts == nil {
			counts = &machineCounts{}
		}
		report.PerMachine = append(report.PerMachine, MachineProgress{
			Machine:  machine,
			Running:  counts.running,
			Finished: counts.finished,
			Orders:   machineOrders[machine],
		})
	}
	return report
}
