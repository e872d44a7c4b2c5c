package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			data, err := cfg.Encode("config." + format)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	showCmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: yaml or toml")

	configCmd.AddCommand(showCmd)
	return configCmd
}
