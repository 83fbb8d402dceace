package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dailies/internal/deps"
)

func newDepsCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of the external engine binaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.CheckBinaries(deps.Requirements(cfg))

			rows := make([][]string, 0, len(statuses))
			missingRequired := false
			for _, status := range statuses {
				state := "ok"
				if !status.Available {
					if status.Optional {
						state = "missing (optional)"
					} else {
						state = "MISSING"
						missingRequired = true
					}
					if status.Detail != "" {
						state += ": " + status.Detail
					}
				}
				rows = append(rows, []string{status.Name, status.Command, state, status.Description})
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatTable([]column{
				{title: "Dependency"},
				{title: "Command"},
				{title: "Status"},
				{title: "Used For"},
			}, rows))
			if missingRequired {
				return fmt.Errorf("required engine binaries are missing")
			}
			return nil
		},
	}
}
