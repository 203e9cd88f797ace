package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"fitlot/internal/config"
	"fitlot/internal/lifecycle"
	"fitlot/internal/store"
)

func newLotsCommand(cctx *commandContext) *cobra.Command {
	lotsCmd := &cobra.Command{
		Use:   "lots",
		Short: "Lot pool utilities",
	}

	lotsCmd.AddCommand(newLotsListCommand(cctx))
	lotsCmd.AddCommand(newLotsShowCommand(cctx))
	return lotsCmd
}

func newLotsListCommand(cctx *commandContext) *cobra.Command {
	var stepFlags []string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List lots, optionally filtered by step",
		RunE: func(cmd *cobra.Command, args []string) error {
			var steps []lifecycle.Step
			for _, value := range stepFlags {
				step, ok := lifecycle.ParseStep(value)
				if !ok {
					return fmt.Errorf("unknown step %q", value)
				}
				steps = append(steps, step)
			}

			return cctx.withStore(func(ctx context.Context, _ *config.Config, st *store.Store) error {
				lots, err := st.ListLots(ctx, steps...)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, lots)
				}

				rows := make([][]string, 0, len(lots))
				for _, lot := range lots {
					rows = append(rows, []string{
						lot.LotNumber,
						lot.OrderID,
						lot.Item,
						colorStep(lot.CurrentStep),
						lot.CurrentStation,
						colorUrgency(lot.Urgency),
						formatTime(lot.UpdatedAt),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Lot", "Order", "Item", "Step", "Station", "Urgency", "Updated"},
					rows,
					nil,
				))
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVar(&stepFlags, "step", nil, "Filter by step (repeatable)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit lots as JSON")
	return cmd
}

func newLotsShowCommand(cctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <lot-number>",
		Short: "Show one lot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStore(func(ctx context.Context, _ *config.Config, st *store.Store) error {
				lot, err := st.GetLot(ctx, args[0])
				if err != nil {
					return err
				}
				if lot == nil {
					return fmt.Errorf("no lot with number %q", args[0])
				}
				if jsonOut {
					return writeJSON(cmd, lot)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Lot:            %s\n", lot.LotNumber)
				fmt.Fprintf(out, "Order:          %s\n", lot.OrderID)
				fmt.Fprintf(out, "Item:           %s\n", lot.Item)
				fmt.Fprintf(out, "Classification: %s\n", lot.Classification)
				fmt.Fprintf(out, "Origin:         %s\n", lot.OriginMachine)
				fmt.Fprintf(out, "Step:           %s\n", colorStep(lot.CurrentStep))
				fmt.Fprintf(out, "Station:        %s\n", lot.CurrentStation)
				fmt.Fprintf(out, "Status:         %s\n", lot.Status)
				if len(lot.Measurements) > 0 {
					keys := make([]string, 0, len(lot.Measurements))
					for key := range lot.Measurements {
						keys = append(keys, key)
					}
					sort.Strings(keys)
					pairs := make([]string, 0, len(keys))
					for _, key := range keys {
						pairs = append(pairs, fmt.Sprintf("%s=%s", key, lot.Measurements[key]))
					}
					fmt.Fprintf(out, "Measurements:   %s\n", strings.Join(pairs, " "))
				}
				if lot.RejectionReason != "" {
					fmt.Fprintf(out, "Reject reason:  %s\n", lot.RejectionReason)
				}
				if lot.Inspection.Status != "" {
					fmt.Fprintf(out, "Inspection:     %s (%s)\n", lot.Inspection.Status, lot.Inspection.Reason)
				}
				if lot.Comments != "" {
					fmt.Fprintf(out, "Comments:       %s\n", lot.Comments)
				}
				if lot.Notes != "" {
					fmt.Fprintf(out, "Notes:          %s\n", lot.Notes)
				}
				fmt.Fprintf(out, "Operator:       %s\n", lot.LastOperator)
				fmt.Fprintf(out, "Created:        %s\n", formatTime(lot.CreatedAt))
				fmt.Fprintf(out, "Updated:        %s\n", formatTime(lot.UpdatedAt))
				fmt.Fprintf(out, "Unloaded:       %s\n", formatTimePtr(lot.UnloadedAt))
				fmt.Fprintf(out, "At inspection:  %s\n", formatTimePtr(lot.ArrivedAtInspectionAt))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the lot as JSON")
	return cmd
}
