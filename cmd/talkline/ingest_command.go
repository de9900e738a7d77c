package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"talkline/internal/ingest"
	"talkline/internal/store"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Convert every annotation document in the incoming directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			return ctx.withStore(func(st *store.Store) error {
				svc := ingest.NewService(cfg, st, ctx.commandLogger())
				summary, err := svc.Run(cmd.Context(), dir)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run %s: %d converted, %d failed\n", summary.RunID, summary.Converted, summary.Failed)
				for _, failure := range summary.Failures {
					fmt.Fprintf(out, "  %s: %v\n", failure.Path, failure.Err)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Directory to scan instead of the configured incoming directory")
	return cmd
}
