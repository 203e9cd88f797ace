package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fitlot/internal/production"
	"fitlot/internal/quality"
	"fitlot/internal/routing"
	"fitlot/internal/store"
)

func newUnloadCommand(cctx *commandContext) *cobra.Command {
	var (
		dispositionFlag string
		reason          string
		comments        string
		overrideFlag    string
		measurements    []string
		jsonOut         bool
	)

	cmd := &cobra.Command{
		Use:   "unload <lot-code>",
		Short: "Record the unloading disposition for a lot",
		Long: "Record the quality decision at the unloading checkpoint. " +
			"Dispositions: ok, temp_reject, reject. Reject paths require a --reason " +
			"from the fixed list; measurement fields depend on the product family.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			disposition, ok := routing.ParseDisposition(dispositionFlag)
			if !ok {
				return fmt.Errorf("unknown disposition %q (use ok, temp_reject, or reject)", dispositionFlag)
			}

			sub := quality.Submission{
				Disposition: disposition,
				Comments:    comments,
				Reason:      reason,
			}
			if len(measurements) > 0 {
				sub.Measurements = make(map[string]string, len(measurements))
				for _, pair := range measurements {
					key, value, found := strings.Cut(pair, "=")
					if !found {
						return fmt.Errorf("measurement %q must be field=value", pair)
					}
					sub.Measurements[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
				}
			}
			if overrideFlag != "" {
				dest, ok := routing.ParseOverride(overrideFlag)
				if !ok {
					return fmt.Errorf("cannot override destination to %q (use Nabewerken, Mazak, or Eindinspectie)", overrideFlag)
				}
				sub.Override = &dest
			}

			return cctx.withService(func(ctx context.Context, svc *production.Service, _ *store.Store) error {
				lot, err := svc.SubmitDisposition(ctx, args[0], sub)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, lot)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Lot %s: %s\n", lot.LotNumber, disposition)
				fmt.Fprintf(out, "Now at %s (%s)\n", colorStep(lot.CurrentStep), lot.CurrentStation)
				if lot.RejectionReason != "" {
					fmt.Fprintf(out, "Reason: %s\n", lot.RejectionReason)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&dispositionFlag, "disposition", "d", "ok", "Quality decision: ok, temp_reject, or reject")
	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Rejection reason (required for reject and temp_reject)")
	cmd.Flags().StringVar(&comments, "comments", "", "Free-text comments recorded on the lot")
	cmd.Flags().StringVar(&overrideFlag, "override", "", "Override the routed destination (ok disposition only)")
	cmd.Flags().StringArrayVarP(&measurements, "measure", "m", nil, "Measurement as field=value (repeatable), e.g. -m tf=12.5")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the updated lot as JSON")
	return cmd
}

func newReasonsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "reasons",
		Short:       "List the fixed rejection reasons",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, reason := range quality.RejectionReasons {
				fmt.Fprintln(cmd.OutOrStdout(), reason)
			}
			return nil
		},
	}
}
