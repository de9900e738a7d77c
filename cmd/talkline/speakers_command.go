package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"talkline/internal/render"
	"talkline/internal/store"
)

func newSpeakersCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "speakers <source-id>",
		Short: "List the speakers of a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				tl, err := st.LoadTimeline(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				if jsonOut {
					return writeJSON(cmd, tl.Speakers)
				}

				rows := make([][]string, 0, len(tl.Speakers))
				for i, sp := range tl.Speakers {
					rows = append(rows, []string{
						fmt.Sprintf("%d", i),
						sp.ID,
						render.SpeakerName(sp),
						sp.Gender,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Column", "Identifier", "Name", "Gender"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit speakers as JSON")
	return cmd
}
