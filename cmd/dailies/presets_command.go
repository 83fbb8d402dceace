package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"dailies/internal/render"
)

func newPresetsCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List render presets and their settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			names, err := render.ListPresets(cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintf(out, "No presets found in %s\n", cfg.Paths.PresetDir)
				return nil
			}

			rows := make([][]string, 0, len(names))
			for _, name := range names {
				settings, err := render.ResolveSettings(cfg, name, render.Overlay{})
				if err != nil {
					rows = append(rows, []string{name, "invalid: " + err.Error(), "", "", ""})
					continue
				}
				resolution := settings.Resolution.String()
				if settings.Resolution.IsZero() {
					resolution = "source"
				}
				rows = append(rows, []string{
					name,
					string(settings.Engine),
					strconv.Itoa(settings.FPS),
					resolution,
					settings.Codec + "/" + settings.Extension,
				})
			}
			fmt.Fprintln(out, formatTable([]column{
				{title: "Preset"},
				{title: "Engine"},
				{title: "FPS", numeric: true},
				{title: "Resolution"},
				{title: "Format"},
			}, rows))
			return nil
		},
	}
}
