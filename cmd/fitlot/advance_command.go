package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fitlot/internal/production"
	"fitlot/internal/store"
)

func newAdvanceCommand(cctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "advance <lot-code>",
		Short: "Advance a scanned lot to its next production step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.withService(func(ctx context.Context, svc *production.Service, _ *store.Store) error {
				lot, err := svc.Advance(ctx, args[0])
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, lot)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Lot %s advanced to %s (%s)\n",
					lot.LotNumber, colorStep(lot.CurrentStep), lot.CurrentStation)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the updated lot as JSON")
	return cmd
}
