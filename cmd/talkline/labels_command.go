package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"talkline/internal/render"
	"talkline/internal/store"
	"talkline/internal/timeline"
)

func newLabelsCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOut bool
		perSec  int64
	)

	cmd := &cobra.Command{
		Use:   "labels <source-id> <tick>...",
		Short: "Report which speakers are active at the given tick offsets",
		Long: "Report which speakers are active at the given tick offsets.\n" +
			"Ticks are interpreted at the stored timeline resolution unless\n" +
			"--per-sec overrides it, in which case the query resolution must\n" +
			"exactly express every segment boundary.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ticks := make([]int64, 0, len(args)-1)
			for _, raw := range args[1:] {
				tick, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid tick %q: %w", raw, err)
				}
				ticks = append(ticks, tick)
			}

			return ctx.withStore(func(st *store.Store) error {
				tl, err := st.LoadTimeline(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				queryPerSec := perSec
				if queryPerSec == 0 {
					queryPerSec = tl.PerSec
				}

				vectors, err := tl.LabelsAt(ticks, queryPerSec)
				if err != nil {
					return err
				}

				if jsonOut {
					type labelResult struct {
						Tick   int64 `json:"tick"`
						Active []int `json:"active"`
					}
					results := make([]labelResult, len(ticks))
					for i := range ticks {
						results[i] = labelResult{Tick: ticks[i], Active: vectors[i]}
					}
					return writeJSON(cmd, results)
				}

				rows := make([][]string, 0, len(ticks))
				for i, tick := range ticks {
					seg := timeline.Segment{Active: vectors[i]}
					active := strings.Join(render.ActiveNames(seg, tl.Speakers), ", ")
					if active == "" {
						active = "-"
					}
					rows = append(rows, []string{
						fmt.Sprintf("%d", tick),
						render.Clock(tick, queryPerSec),
						active,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Tick", "Time", "Active"},
					rows,
					[]columnAlignment{alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit label vectors as JSON")
	cmd.Flags().Int64Var(&perSec, "per-sec", 0, "Resolution the query ticks are expressed in")
	return cmd
}
