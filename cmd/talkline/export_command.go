package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"talkline/internal/store"
	"talkline/internal/timeline"
)

type exportSpeaker struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name,omitempty"`
	Gender string `yaml:"gender,omitempty"`
}

type exportSegment struct {
	Start  int64 `yaml:"start"`
	End    int64 `yaml:"end"`
	Active []int `yaml:"active,flow"`
}

type exportDocument struct {
	SourceID string          `yaml:"source_id"`
	PerSec   int64           `yaml:"per_sec"`
	Speakers []exportSpeaker `yaml:"speakers"`
	Segments []exportSegment `yaml:"segments"`
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export <source-id>",
		Short: "Export a stored timeline as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				tl, err := st.LoadTimeline(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				doc := exportTimeline(tl)
				data, err := yaml.Marshal(doc)
				if err != nil {
					return fmt.Errorf("encode timeline: %w", err)
				}

				if outPath == "" {
					_, err := cmd.OutOrStdout().Write(data)
					return err
				}
				if err := os.WriteFile(outPath, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", outPath, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", args[0], outPath)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write YAML to this file instead of stdout")
	return cmd
}

func exportTimeline(tl *timeline.Timeline) exportDocument {
	doc := exportDocument{
		SourceID: tl.SourceID,
		PerSec:   tl.PerSec,
		Speakers: make([]exportSpeaker, 0, len(tl.Speakers)),
		Segments: make([]exportSegment, 0, len(tl.Segments)),
	}
	for _, sp := range tl.Speakers {
		doc.Speakers = append(doc.Speakers, exportSpeaker{ID: sp.ID, Name: sp.DisplayName, Gender: sp.Gender})
	}
	for _, seg := range tl.Segments {
		doc.Segments = append(doc.Segments, exportSegment{Start: seg.Start, End: seg.End, Active: seg.Active})
	}
	return doc
}
