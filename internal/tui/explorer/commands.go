package explorer

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/crosshair/internal/chart"
	"github.com/alexisbeaulieu97/crosshair/internal/chart/interaction"
	"github.com/alexisbeaulieu97/crosshair/internal/logger"
	"github.com/alexisbeaulieu97/crosshair/internal/progress"
)

// loadChartCmd loads the chart document asynchronously, reporting through ctrl
func loadChartCmd(path string, ctrl *progress.Controller, log *logger.Logger) tea.Cmd {
	return func() tea.Msg {
		c, err := chart.Load(path, chart.WithProgress(ctrl), chart.WithLogger(log))
		return chartLoadedMsg{chart: c, err: err}
	}
}

// waitForSnapshot blocks until the context publishes a snapshot
func waitForSnapshot(ch <-chan interaction.Snapshot) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg{snapshot: snap}
	}
}

// waitForProgress blocks until the progress controller changes
func waitForProgress(ch <-chan progress.State) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		state, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg{state: state}
	}
}

// offer delivers v on a one-slot channel without blocking. A value nobody
// has read yet is replaced, so readers always see the latest state.
func offer[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
