package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/crosshair/internal/chart"
	"github.com/alexisbeaulieu97/crosshair/internal/chart/geometry"
	"github.com/alexisbeaulieu97/crosshair/internal/chart/interaction"
)

type probeOptions struct {
	ConfigPath string
	X, Y       float64
	Width      float64
	Height     float64
	JSON       bool
}

func newProbeCmd(root *rootFlags) *cobra.Command {
	opts := probeOptions{}

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Press the pointer at one plot pixel and print the tooltip",
		Long: `Probe builds the chart at the given plot size, presses the pointer at
(--x, --y) in plot-local pixels and prints the crosshair and tooltip.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateConfigPath(opts.ConfigPath); err != nil {
				return err
			}
			return runProbe(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the chart document")
	cmd.Flags().Float64Var(&opts.X, "x", 0, "Pointer x in plot pixels")
	cmd.Flags().Float64Var(&opts.Y, "y", 0, "Pointer y in plot pixels")
	cmd.Flags().Float64Var(&opts.Width, "width", 800, "Plot width in pixels")
	cmd.Flags().Float64Var(&opts.Height, "height", 400, "Plot height in pixels")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output the snapshot as JSON")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runProbe(cmd *cobra.Command, root *rootFlags, opts probeOptions) error {
	log, err := root.newLogger(cmd.ErrOrStderr(), "probe")
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	c, err := chart.Load(opts.ConfigPath, chart.WithLogger(log))
	if err != nil {
		return err
	}

	snap, err := c.Probe(opts.X, opts.Y, geometry.PlotBounds{Width: opts.Width, Height: opts.Height})
	if err != nil {
		return err
	}
	log.Debug("probe complete", "entries", len(snap.Tooltip.Entries), "version", snap.Version)

	if opts.JSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(snap)
	}
	printProbe(cmd.OutOrStdout(), c, snap)
	return nil
}

func printProbe(w io.Writer, c *chart.Chart, snap interaction.Snapshot) {
	fmt.Fprintf(w, "%s\n", c.Name)
	fmt.Fprintln(w, strings.Repeat("─", 40))

	p := snap.Pointer
	if p.HasData {
		fmt.Fprintf(w, "Pointer:   (%g, %g) → data (%.4g, %.4g)\n", p.X, p.Y, p.Data.X, p.Data.Y)
	} else {
		fmt.Fprintf(w, "Pointer:   (%g, %g) → no data\n", p.X, p.Y)
	}

	if ch := snap.Crosshair; ch.Visible {
		mode := ""
		if ch.Snapped {
			mode = " snapped"
		}
		fmt.Fprintf(w, "Crosshair: (%g, %g)%s\n", ch.PixelX, ch.PixelY, mode)
	} else {
		fmt.Fprintln(w, "Crosshair: hidden")
	}

	if snap.Tooltip.Empty() {
		fmt.Fprintln(w, "Tooltip:   no data")
		return
	}

	fmt.Fprintln(w, "Tooltip:")
	for _, e := range snap.Tooltip.Entries {
		fmt.Fprintf(w, "  %-12s %s\n", e.Label, e.Value)
	}
}
