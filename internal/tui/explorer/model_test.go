package explorer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/crosshair/internal/chart"
	"github.com/alexisbeaulieu97/crosshair/internal/clock"
	"github.com/alexisbeaulieu97/crosshair/internal/config"
)

const testDocument = `
version: "1.0"
name: latency
description: request latency by percentile
interaction:
  sticky_crosshair: true
  sticky_timeout: 1s
y_axis:
  min: 0
  max: 30
series:
  - id: p50
    label: Median
    color: "#4c6ef5"
    points: [[0, 0], [5, 10], [10, 20]]
  - id: p99
    points: [[0, 5], [5, 15], [10, 25]]
`

func testChart(t *testing.T) *chart.Chart {
	t.Helper()
	doc, err := config.ParseDocument([]byte(testDocument), "latency.yaml")
	require.NoError(t, err)
	c, err := chart.Build(doc, t.TempDir())
	require.NoError(t, err)
	return c
}

// newSizedModel returns a model whose plot area is 65x26 cells, so x pixels
// 0..64 span the data range 0..10.
func newSizedModel(t *testing.T, clk clock.Clock) Model {
	t.Helper()
	m := NewModel(Options{Chart: testChart(t), Clock: clk})
	t.Cleanup(m.Close)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	out, ok := updated.(Model)
	require.True(t, ok)
	return out
}

func TestNewModelAttachesChart(t *testing.T) {
	m := NewModel(Options{Chart: testChart(t)})
	defer m.Close()

	require.NoError(t, m.Err())
	require.NotNil(t, m.ctx)
	assert.Equal(t, "latency", m.chart.Name)
	assert.Len(t, m.spotlight.State().Results, 2+1+len(toggleActions))
}

func TestLayoutFollowsWindowSize(t *testing.T) {
	m := newSizedModel(t, nil)

	w, h := m.plotSize()
	assert.Equal(t, 65, w)
	assert.Equal(t, 26, h)
	assert.Equal(t, 64.0, m.Snapshot().Bounds.Width)
	assert.Equal(t, 25.0, m.Snapshot().Bounds.Height)
	assert.Equal(t, float64(headerHeight), m.Snapshot().Offset.Y)
}

func TestTinyWindowHasDegenerateBounds(t *testing.T) {
	m := NewModel(Options{Chart: testChart(t)})
	defer m.Close()

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 3})
	out := updated.(Model)
	assert.True(t, out.Snapshot().Bounds.IsDegenerate())
	assert.NotPanics(t, func() { _ = out.View() })
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "latency.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDocument), 0o644))

	fake := clock.NewFake(time.Unix(0, 0))
	m := NewModel(Options{Path: path, Clock: fake})
	defer m.Close()
	assert.Contains(t, m.View(), "Loading")

	msg := loadChartCmd(path, m.progress, nil)()
	loaded, ok := msg.(chartLoadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.err)

	updated, cmd := m.Update(loaded)
	out := updated.(Model)
	require.NotNil(t, cmd)
	require.NotNil(t, out.ctx)

	updated, _ = out.Update(progressMsg{state: <-out.progressCh})
	out = updated.(Model)
	assert.Equal(t, 100.0, out.progressState.Percent)
	assert.True(t, out.progressState.Completed)
	assert.Contains(t, out.View(), "100%")
}

func TestLoadFailure(t *testing.T) {
	m := NewModel(Options{Path: filepath.Join(t.TempDir(), "missing.yaml")})
	defer m.Close()

	msg := loadChartCmd(m.path, m.progress, nil)()
	updated, _ := m.Update(msg)
	out := updated.(Model)

	require.Error(t, out.Err())
	assert.Contains(t, out.View(), "Error")
}

func TestOfferKeepsLatest(t *testing.T) {
	ch := make(chan int, 1)
	offer(ch, 1)
	offer(ch, 2)
	offer(ch, 3)
	assert.Equal(t, 3, <-ch)
	select {
	case v := <-ch:
		t.Fatalf("unexpected value %d", v)
	default:
	}
}
