package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fitlot/internal/metrics"
	"fitlot/internal/production"
	"fitlot/internal/store"
)

func newStatusCommand(cctx *commandContext) *cobra.Command {
	var jsonOut bool
	var drillDown bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show live production progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withService(func(ctx context.Context, svc *production.Service, _ *store.Store) error {
				report, err := svc.Metrics(ctx)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, report)
				}
				renderReport(cmd, report, drillDown)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the report as JSON")
	cmd.Flags().BoolVar(&drillDown, "machines", false, "Expand per-machine order drill-down")
	return cmd
}

func renderReport(cmd *cobra.Command, report *metrics.Report, drillDown bool) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Planned %d | Active %d | Finished %d | Rejected %d | Temp rejected %d\n\n",
		report.TotalPlanned, report.ActiveCount, report.FinishedCount,
		report.RejectedCount, report.TempRejectedCount)

	orderRows := make([][]string, 0, len(report.PerOrder))
	for _, order := range report.PerOrder {
		orderRows = append(orderRows, []string{
			order.OrderID,
			order.Machine,
			formatCount(order.Plan),
			formatCount(order.Started),
			formatCount(order.LiveToDo),
			formatCount(order.LiveFinish),
			colorUrgency(order.Urgency),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Order", "Machine", "Plan", "Started", "To do", "Finished", "Urgency"},
		orderRows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
	))

	machineRows := make([][]string, 0, len(report.PerMachine))
	for _, machine := range report.PerMachine {
		machineRows = append(machineRows, []string{
			machine.Machine,
			formatCount(machine.Running),
			formatCount(machine.Finished),
			formatCount(len(machine.Orders)),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Machine", "Running", "Finished", "Orders"},
		machineRows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	))

	if !drillDown {
		return
	}
	for _, machine := range report.PerMachine {
		if len(machine.Orders) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%s\n", machine.Machine)
		rows := make([][]string, 0, len(machine.Orders))
		for _, order := range machine.Orders {
			rows = append(rows, []string{
				order.OrderID,
				formatCount(order.Plan),
				formatCount(order.Started),
				formatCount(order.LiveToDo),
				formatCount(order.LiveFinish),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Order", "Plan", "Started", "To do", "Finished"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
		))
	}
}
