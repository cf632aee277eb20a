package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/onboard/internal/stats"
)

const heatmapGlyph = "■"

// RenderProgressBar draws p as a bar of the given width.
func RenderProgressBar(p stats.Progress, width int) string {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(width))
	return bar.ViewAs(float64(p.Percentage) / 100)
}

// RenderHeatmap draws a grid from stats.Heatmap with weekday labels on the
// left and one column per week. Days after today are left blank.
func RenderHeatmap(grid [][]stats.Cell, today time.Time) string {
	if len(grid) == 0 {
		return ""
	}
	labels := []string{"Mon", "   ", "Wed", "   ", "Fri", "   ", "Sun"}

	var sb strings.Builder
	for day := 0; day < 7; day++ {
		sb.WriteString(mutedStyle.Render(labels[day]))
		sb.WriteByte(' ')
		for _, week := range grid {
			c := week[day]
			if c.Date.After(today) {
				sb.WriteString("  ")
				continue
			}
			sb.WriteString(levelStyle(c.Level).Render(heatmapGlyph))
			sb.WriteByte(' ')
		}
		if day < 6 {
			sb.WriteByte('\n')
		}
	}

	legend := []string{mutedStyle.Render("Less")}
	for level := range heatmapLevels {
		legend = append(legend, levelStyle(level).Render(heatmapGlyph))
	}
	legend = append(legend, mutedStyle.Render("More"))
	return lipgloss.JoinVertical(lipgloss.Left, sb.String(), "", strings.Join(legend, " "))
}

func levelStyle(level int) lipgloss.Style {
	if level < 0 {
		level = 0
	}
	if level >= len(heatmapLevels) {
		level = len(heatmapLevels) - 1
	}
	return heatmapLevels[level]
}
