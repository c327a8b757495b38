package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Gritquest theme (CLI + TUI).
// Kept intentionally small: reusable styles and a few emojis.

const (
	IconQuest   = "🗺️"
	IconSparkle = "✨"
	IconDone    = "✅"
	IconTrophy  = "🏆"
	IconBolt    = "⚡"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconSword   = "⚔️"
	IconShield  = "🛡️"
	IconSkull   = "💀"
	IconScroll  = "📜"
	IconGem     = "💎"
	IconLock    = "🔒"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel      = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// ProgressBar renders a fixed-width bar for level and quest progress.
func ProgressBar(ratio float64, width int) string {
	if width < 2 {
		width = 10
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	return Gold.Render(strings.Repeat("█", filled)) + Muted.Render(strings.Repeat("░", width-filled))
}

// LogIcon maps activity log types to display icons.
func LogIcon(logType string) string {
	switch logType {
	case "level_up":
		return IconSparkle
	case "stat_up":
		return IconBolt
	case "quest_complete":
		return IconDone
	case "battle":
		return IconSword
	case "achievement":
		return IconTrophy
	case "loot":
		return IconGem
	case "perk":
		return IconScroll
	default:
		return "•"
	}
}
