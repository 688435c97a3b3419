// ABOUTME: Loyalty progress bar showing advancement toward the next level
// ABOUTME: Renders a filled bar with bean counts and a gold state at max level

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// LevelBarConfig holds configuration for the loyalty progress bar
type LevelBarConfig struct {
	Width      int
	FillColor  lipgloss.Color
	FullColor  lipgloss.Color // Used when the bar is complete (max level)
	EmptyColor lipgloss.Color
}

// DefaultLevelBarConfig returns sensible defaults
func DefaultLevelBarConfig() LevelBarConfig {
	return LevelBarConfig{
		Width:      20,
		FillColor:  lipgloss.Color("#D4A373"), // Bean gold
		FullColor:  lipgloss.Color("#F59E0B"), // Amber - level complete
		EmptyColor: lipgloss.Color("#374151"), // Dark gray
	}
}

// LevelBar renders progress toward the next loyalty level. earned is the
// beans collected within the current level, goal the beans needed to
// advance. A zero or negative goal means the account is at max level and
// the bar renders full.
func LevelBar(earned, goal int64, config LevelBarConfig) string {
	if config.Width <= 0 {
		config.Width = 20
	}

	percent := 100.0
	atMax := goal <= 0
	if !atMax {
		percent = float64(earned) / float64(goal) * 100.0
		if percent < 0 {
			percent = 0
		}
		if percent > 100 {
			percent = 100
		}
	}

	filled := int(percent / 100.0 * float64(config.Width))
	if filled > config.Width {
		filled = config.Width
	}

	fillColor := config.FillColor
	if atMax || filled == config.Width {
		fillColor = config.FullColor
	}

	var bar strings.Builder
	bar.WriteString("[")
	bar.WriteString(lipgloss.NewStyle().Foreground(fillColor).Render(strings.Repeat("█", filled)))
	bar.WriteString(lipgloss.NewStyle().Foreground(config.EmptyColor).Render(strings.Repeat("░", config.Width-filled)))
	bar.WriteString("]")
	return bar.String()
}

// LevelBarWithLabel renders the bar followed by an earned/goal counter,
// or a max-level marker when there is no next level.
func LevelBarWithLabel(earned, goal int64, config LevelBarConfig) string {
	bar := LevelBar(earned, goal, config)

	if goal <= 0 {
		label := lipgloss.NewStyle().Foreground(config.FullColor).Bold(true).Render("MAX")
		return fmt.Sprintf("%s %s", bar, label)
	}

	label := lipgloss.NewStyle().Foreground(config.FillColor).Render(fmt.Sprintf("%d/%d", earned, goal))
	return fmt.Sprintf("%s %s", bar, label)
}

// QuizBar renders answered/total question progress in a compact form
func QuizBar(answered, total, width int, color lipgloss.Color) string {
	if width <= 0 {
		width = 10
	}
	if total <= 0 {
		total = 1
	}
	if answered < 0 {
		answered = 0
	}
	if answered > total {
		answered = total
	}

	filled := answered * width / total
	filledStr := strings.Repeat("▓", filled)
	emptyStr := strings.Repeat("░", width-filled)

	return lipgloss.NewStyle().Foreground(color).Render(filledStr) +
		lipgloss.NewStyle().Foreground(lipgloss.Color("#374151")).Render(emptyStr)
}
