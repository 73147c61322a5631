package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/crosshair/internal/tui/explorer"
)

type exploreOptions struct {
	ConfigPath string
	LogFile    string
}

func newExploreCmd(root *rootFlags) *cobra.Command {
	opts := exploreOptions{}

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Explore a chart interactively in the terminal",
		Long: `Explore opens a chart document in a full-screen terminal view. Move the
mouse or the arrow keys over the plot to drive the crosshair and tooltip.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateConfigPath(opts.ConfigPath); err != nil {
				return err
			}
			if !isTerminal(cmd.OutOrStdout()) {
				return fmt.Errorf("explore needs an interactive terminal; use probe for scripted output")
			}
			return runExplore(root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the chart document")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "Write logs to this file while the explorer runs")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runExplore(root *rootFlags, opts exploreOptions) error {
	// the alternate screen owns stdout, so logs go to a file or nowhere
	var w io.Writer = io.Discard
	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		w = f
	}
	log, err := root.newLogger(w, "explore")
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	m := explorer.NewModel(explorer.Options{Path: opts.ConfigPath, Logger: log})
	defer m.Close()

	log.Info("launching explorer", "config", opts.ConfigPath)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	final, err := p.Run()
	if err != nil {
		log.Error(err, "explorer execution failed")
		return fmt.Errorf("failed to run explorer: %w", err)
	}
	if fm, ok := final.(explorer.Model); ok {
		fm.Close()
		if fm.Err() != nil {
			return fm.Err()
		}
	}

	log.Info("explorer closed")
	return nil
}

func isTerminal(writer any) bool {
	if file, ok := writer.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
