package components

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// Progress renders a percentage as a labelled bar.
type Progress struct {
	bar progress.Model
}

// NewProgress creates a progress component of the given bar width.
func NewProgress(width int) Progress {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	if width <= 0 {
		width = 30
	}
	bar.Width = width
	return Progress{bar: bar}
}

// View renders the bar for a percentage in [0, 100]. Out of range values are
// clamped.
func (p Progress) View(percent float64) string {
	if math.IsNaN(percent) {
		percent = 0
	}
	percent = math.Max(0, math.Min(100, percent))
	label := lipgloss.NewStyle().Bold(true).Width(4).Align(lipgloss.Right).Render(fmt.Sprintf("%.0f%%", percent))
	return lipgloss.JoinHorizontal(lipgloss.Left, label, " ", p.bar.ViewAs(percent/100))
}
