package explorer

import (
	"github.com/alexisbeaulieu97/crosshair/internal/chart"
	"github.com/alexisbeaulieu97/crosshair/internal/chart/interaction"
	"github.com/alexisbeaulieu97/crosshair/internal/progress"
)

// chartLoadedMsg carries the result of loading the chart document.
type chartLoadedMsg struct {
	chart *chart.Chart
	err   error
}

// snapshotMsg delivers a snapshot published outside of Update, such as a
// sticky crosshair release.
type snapshotMsg struct {
	snapshot interaction.Snapshot
}

// progressMsg delivers a progress controller state change.
type progressMsg struct {
	state progress.State
}
