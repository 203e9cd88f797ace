package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fitlot/internal/config"
	"fitlot/internal/importer"
	"fitlot/internal/logging"
	"fitlot/internal/store"
)

func newOrdersCommand(cctx *commandContext) *cobra.Command {
	ordersCmd := &cobra.Command{
		Use:   "orders",
		Short: "Planning order utilities",
	}

	ordersCmd.AddCommand(newOrdersListCommand(cctx))
	ordersCmd.AddCommand(newOrdersShowCommand(cctx))
	ordersCmd.AddCommand(newOrdersImportCommand(cctx))
	return ordersCmd
}

func newOrdersListCommand(cctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List planning orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStore(func(ctx context.Context, _ *config.Config, st *store.Store) error {
				orders, err := st.ListOrders(ctx)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, orders)
				}

				rows := make([][]string, 0, len(orders))
				for _, order := range orders {
					rows = append(rows, []string{
						order.OrderID,
						order.Machine,
						order.Item,
						formatCount(order.Plan),
						order.DeliveryDate,
						colorUrgency(order.Urgency),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Order", "Machine", "Item", "Plan", "Delivery", "Urgency"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit orders as JSON")
	return cmd
}

func newOrdersShowCommand(cctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <order-id>",
		Short: "Show one planning order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStore(func(ctx context.Context, _ *config.Config, st *store.Store) error {
				order, err := st.GetOrder(ctx, args[0])
				if err != nil {
					return err
				}
				if order == nil {
					return fmt.Errorf("no order with id %q", args[0])
				}
				if jsonOut {
					return writeJSON(cmd, order)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Order:          %s\n", order.OrderID)
				fmt.Fprintf(out, "Machine:        %s\n", order.Machine)
				fmt.Fprintf(out, "Item:           %s\n", order.Item)
				fmt.Fprintf(out, "Classification: %s\n", order.Classification)
				fmt.Fprintf(out, "Plan:           %d\n", order.Plan)
				fmt.Fprintf(out, "Delivery:       %s\n", order.DeliveryDate)
				fmt.Fprintf(out, "Drawing:        %s\n", order.Drawing)
				fmt.Fprintf(out, "Project:        %s\n", order.Project)
				fmt.Fprintf(out, "Status:         %s\n", order.Status)
				if order.Urgency != "" {
					fmt.Fprintf(out, "Urgency:        %s\n", colorUrgency(order.Urgency))
				}
				if order.Notes != "" {
					fmt.Fprintf(out, "Notes:          %s\n", order.Notes)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the order as JSON")
	return cmd
}

func newOrdersImportCommand(cctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import planning orders from a CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withStore(func(ctx context.Context, cfg *config.Config, st *store.Store) error {
				logger, err := logging.NewFileOnly(cfg)
				if err != nil {
					logger = logging.NewNop()
				}
				summary, err := importer.New(st, logger).ImportFile(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d orders (%d duplicates, %d skipped)\n",
					summary.Imported, summary.Duplicates, summary.Skipped)
				return nil
			})
		},
	}
	return cmd
}
