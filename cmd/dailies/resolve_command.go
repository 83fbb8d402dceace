package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dailies/internal/media"
)

func newResolveCommand(cmdCtx *commandContext) *cobra.Command {
	var probe bool

	cmd := &cobra.Command{
		Use:   "resolve <path>",
		Short: "Inspect how an input path resolves to a media descriptor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			resolver := media.NewResolver(cfg.FFprobeBinary(), cmdCtx.ensureLogger())
			descriptor, err := resolver.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if probe {
				if err := resolver.Probe(cmd.Context(), descriptor); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if descriptor.IsSequence {
				fmt.Fprintf(out, "Sequence: %s\n", descriptor.PrintfPattern())
				fmt.Fprintf(out, "Frames:   %d-%d (%d frames, padding %d)\n",
					descriptor.FrameStart, descriptor.FrameEnd, descriptor.FrameCount(), descriptor.Padding)
			} else {
				fmt.Fprintf(out, "File:     %s\n", descriptor.BasePath)
			}
			if descriptor.Probed() {
				fmt.Fprintf(out, "Size:     %dx%d @ %.3f fps\n", descriptor.Width, descriptor.Height, descriptor.FPS)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&probe, "probe", false, "Probe resolution and frame rate")
	return cmd
}
