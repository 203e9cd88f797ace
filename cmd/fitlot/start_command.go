package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fitlot/internal/production"
	"fitlot/internal/store"
)

func newStartCommand(cctx *commandContext) *cobra.Command {
	var manualLotID string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "start <order-id>",
		Short: "Start production of a new lot for an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withService(func(ctx context.Context, svc *production.Service, _ *store.Store) error {
				lot, err := svc.StartProduction(ctx, args[0], manualLotID)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, lot)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Started lot %s for order %s at %s\n", lot.LotNumber, lot.OrderID, lot.OriginMachine)
				fmt.Fprintf(out, "Step: %s\n", colorStep(lot.CurrentStep))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&manualLotID, "lot-id", "", "Manually entered lot identifier (minimum 10 characters)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the created lot as JSON")
	return cmd
}
