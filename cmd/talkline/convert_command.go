package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"talkline/internal/ingest"
	"talkline/internal/render"
	"talkline/internal/store"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOut bool
		save    bool
	)

	cmd := &cobra.Command{
		Use:   "convert <file.xml>",
		Short: "Convert one annotation document and print its timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			svc := ingest.NewService(cfg, nil, ctx.commandLogger())
			conversion, err := svc.ConvertFile(args[0])
			if err != nil {
				return fmt.Errorf("convert %s: %w", args[0], err)
			}

			if save {
				err := ctx.withStore(func(st *store.Store) error {
					_, err := st.SaveTimeline(cmd.Context(), conversion.Timeline, args[0], "")
					return err
				})
				if err != nil {
					return fmt.Errorf("save timeline: %w", err)
				}
			}

			if jsonOut {
				return writeJSON(cmd, conversion.Timeline)
			}

			printConversion(cmd, conversion)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the timeline as JSON")
	cmd.Flags().BoolVar(&save, "save", false, "Persist the timeline to the document store")
	return cmd
}

func printConversion(cmd *cobra.Command, conversion *ingest.Conversion) {
	out := cmd.OutOrStdout()
	tl := conversion.Timeline

	fmt.Fprintf(out, "Source: %s (%d ticks/s, %d speakers, %d segments)\n",
		tl.SourceID, tl.PerSec, len(tl.Speakers), len(tl.Segments))
	if len(conversion.Issues) > 0 {
		fmt.Fprintf(out, "Skipped %d segment(s) with unusable annotations\n", len(conversion.Issues))
	}

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
}
