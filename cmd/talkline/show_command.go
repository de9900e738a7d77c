package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"talkline/internal/render"
	"talkline/internal/store"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				docs, err := st.ListDocuments(cmd.Context())
				if err != nil {
					return err
				}

				if jsonOut {
					return writeJSON(cmd, docs)
				}

				rows := make([][]string, 0, len(docs))
				for _, doc := range docs {
					rows = append(rows, []string{
						doc.SourceID,
						fmt.Sprintf("%d", doc.PerSec),
						fmt.Sprintf("%d", doc.SpeakerCount),
						fmt.Sprintf("%d", doc.SegmentCount),
						render.Clock(doc.MaxEndTick, doc.PerSec),
						doc.UpdatedAt.Format("2006-01-02 15:04:05"),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Source", "Ticks/s", "Speakers", "Segments", "Length", "Updated"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit documents as JSON")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <source-id>",
		Short: "Show the stored timeline for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				tl, err := st.LoadTimeline(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				if jsonOut {
					return writeJSON(cmd, tl)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Source: %s (%d ticks/s)\n", tl.SourceID, tl.PerSec)

				rows := make([][]string, 0, len(tl.Segments))
				for _, seg := range tl.Segments {
					active := strings.Join(render.ActiveNames(seg, tl.Speakers), ", ")
					if active == "" {
						active = "-"
					}
					rows = append(rows, []string{
						render.Clock(seg.Start, tl.PerSec),
						render.Clock(seg.End, tl.PerSec),
						active,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Start", "End", "Active"},
					rows,
					[]columnAlignment{alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the timeline as JSON")
	return cmd
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <source-id>",
		Short: "Remove a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				if err := st.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}
