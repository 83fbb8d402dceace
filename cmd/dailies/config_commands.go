package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"dailies/internal/config"
)

func newConfigCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigValidateCommand(cmdCtx))
	return cmd
}

// configInitTarget resolves where `config init` writes: an explicit --path
// (tilde-expanded) or the default config location.
func configInitTarget(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return config.DefaultConfigPath()
	}
	return config.ExpandPath(raw)
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a starter configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := configInitTarget(targetPath)
			if err != nil {
				return fmt.Errorf("resolve config path: %w", err)
			}
			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("%s already exists; pass --overwrite to replace it", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("write sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote starter configuration to %s\n", target)
			fmt.Fprintln(out, "Point preset_dir, template_dir, and the engine binaries at your pipeline before rendering.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing configuration")
	return cmd
}

func newConfigValidateCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Check that the configuration loads cleanly",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var flagPath string
			if cmdCtx.configFlag != nil {
				flagPath = strings.TrimSpace(*cmdCtx.configFlag)
			}
			cfg, path, exists, err := config.Load(flagPath)
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if exists {
				fmt.Fprintf(out, "%s: configuration valid\n", path)
			} else {
				fmt.Fprintf(out, "%s: no config file found, defaults are valid\n", path)
			}
			return nil
		},
	}
}
