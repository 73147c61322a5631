package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/crosshair/internal/chart"
)

func newValidateCmd(root *rootFlags) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a chart document and load its series",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateConfigPath(configPath); err != nil {
				return err
			}

			log, err := root.newLogger(cmd.ErrOrStderr(), "validate")
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}

			c, err := chart.Load(configPath, chart.WithLogger(log))
			if err != nil {
				return fmt.Errorf("%s is invalid: %w", configPath, err)
			}

			points := 0
			for _, s := range c.Series {
				points += s.Len()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✔ %s is valid (%d series, %d points)\n", configPath, len(c.Series), points)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the chart document")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
