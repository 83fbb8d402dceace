package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dailies/internal/tracking"
)

func newHistoryCommand(cmdCtx *commandContext) *cobra.Command {
	var project string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently published versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := tracking.OpenStore(cfg.Paths.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), project, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No published versions")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, record := range records {
				rows = append(rows, []string{
					record.CreatedAt.Local().Format("2006-01-02 15:04"),
					record.Project,
					record.VersionName,
					record.Engine,
					fmt.Sprintf("%d-%d", record.FrameStart, record.FrameEnd),
					record.Duration.Round(time.Second).String(),
					record.OutputPath,
				})
			}
			fmt.Fprintln(out, formatTable([]column{
				{title: "Published"},
				{title: "Project"},
				{title: "Version"},
				{title: "Engine"},
				{title: "Frames", numeric: true},
				{title: "Took", numeric: true},
				{title: "Output"},
			}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Filter by project")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum rows to show (0 for all)")
	return cmd
}
