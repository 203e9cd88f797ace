package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fitlot/internal/production"
	"fitlot/internal/store"
)

func newPatchCommand(cctx *commandContext) *cobra.Command {
	var (
		urgency  string
		notes    string
		ident    string
		resumeTo string
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:   "patch <order|lot> <id>",
		Short: "Apply manual corrections to an order or lot",
		Long: "Patch urgency (SPOED, HOLD, NORMAAL), notes, or an identification " +
			"code on an order or lot. --resume-to re-enters a held lot into the " +
			"flow at Nabewerken, Mazak, or Eindinspectie.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := production.ParsePatchKind(args[0])
			if !ok {
				return fmt.Errorf("unknown record kind %q (use order or lot)", args[0])
			}

			fields := production.Fields{}
			if cmd.Flags().Changed("urgency") {
				fields.Urgency = &urgency
			}
			if cmd.Flags().Changed("notes") {
				fields.Notes = &notes
			}
			if cmd.Flags().Changed("ident") {
				fields.IdentCode = &ident
			}
			if cmd.Flags().Changed("resume-to") {
				fields.ResumeTo = &resumeTo
			}

			return cctx.withService(func(ctx context.Context, svc *production.Service, _ *store.Store) error {
				switch kind {
				case production.PatchOrderKind:
					order, err := svc.PatchOrder(ctx, args[1], fields)
					if err != nil {
						return err
					}
					if jsonOut {
						return writeJSON(cmd, order)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Order %s patched\n", order.OrderID)
				case production.PatchLotKind:
					lot, err := svc.PatchLot(ctx, args[1], fields)
					if err != nil {
						return err
					}
					if jsonOut {
						return writeJSON(cmd, lot)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Lot %s patched, now at %s\n",
						lot.LotNumber, colorStep(lot.CurrentStep))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&urgency, "urgency", "", "Urgency label: SPOED, HOLD, or NORMAAL")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-text notes")
	cmd.Flags().StringVar(&ident, "ident", "", "Identification code")
	cmd.Flags().StringVar(&resumeTo, "resume-to", "", "Re-enter a held lot at this step")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the patched record as JSON")
	return cmd
}
