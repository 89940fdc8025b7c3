// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/risbas/internal/exponent"
)

func newTableCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the parsed exponent table",
		Long: `Table parses the configured exponent table the same way the converter
does and prints one record per data line (source line, element, theta) as
YAML, or as JSON with --json. Theta values are printed exactly as written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			t, err := exponent.ReadFile(a.v.GetString(keyInput))
			if err != nil {
				return err
			}
			if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
				return t.ExportJSON(a.stdout)
			}
			return t.ExportYAML(a.stdout)
		},
	}
	cmd.Flags().Bool("json", false, "output records as JSON")
	return cmd
}
