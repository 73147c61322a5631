package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/crosshair/internal/logger"
)

type rootFlags struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "crosshair",
		Short:         "Crosshair explores chart documents with crosshairs and aggregated tooltips",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newExploreCmd(flags))
	cmd.AddCommand(newProbeCmd(flags))
	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// newLogger builds the command logger. Verbose switches to debug.
func (f *rootFlags) newLogger(w io.Writer, component string) (*logger.Logger, error) {
	level := "info"
	if f.verbose {
		level = "debug"
	}
	return logger.New(logger.Options{
		Level:         level,
		HumanReadable: true,
		Writer:        w,
		Component:     component,
	})
}
