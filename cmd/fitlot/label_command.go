package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fitlot/internal/config"
	"fitlot/internal/labels"
	"fitlot/internal/store"
)

func newLabelCommand(cctx *commandContext) *cobra.Command {
	var templatePath string

	cmd := &cobra.Command{
		Use:   "label <lot-number>",
		Short: "Render the identification label for a lot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := ""
			if templatePath != "" {
				data, err := os.ReadFile(templatePath)
				if err != nil {
					return fmt.Errorf("read label template: %w", err)
				}
				source = string(data)
			}
			renderer, err := labels.NewRenderer(source)
			if err != nil {
				return err
			}

			return cctx.withStore(func(ctx context.Context, _ *config.Config, st *store.Store) error {
				lot, err := st.GetLot(ctx, args[0])
				if err != nil {
					return err
				}
				if lot == nil {
					return fmt.Errorf("no lot with number %q", args[0])
				}
				text, err := renderer.Render(lot)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "Custom label template file")
	return cmd
}
