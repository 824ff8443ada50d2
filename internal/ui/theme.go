package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// tally theme (CLI + TUI).

const (
	IconDay      = "📅"
	IconSparkle  = "✨"
	IconPlus     = "➕"
	IconMinus    = "➖"
	IconDone     = "✅"
	IconTrophy   = "🏆"
	IconFire     = "🔥"
	IconWarn     = "⚠️"
	IconError    = "🧨"
	IconLoop     = "🔁"
	IconTask     = "▪️"
	IconTemplate = "📜"
	IconTrash    = "🗑️"
	IconUndo     = "↩️"
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

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)
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

// KindIcon marks templates and routines apart from one-shot tasks.
func KindIcon(isTemplate bool, isRoutine bool) string {
	if isTemplate {
		return IconTemplate
	}
	if isRoutine {
		return IconLoop
	}
	return IconTask
}

// Flags renders the presentation-only markers of a task.
func Flags(isCritical bool, isOptional bool) string {
	var parts []string
	if isCritical {
		parts = append(parts, Bad.Render("!"))
	}
	if isOptional {
		parts = append(parts, Muted.Render("?"))
	}
	return strings.Join(parts, "")
}

// Points formats a decimal point value without trailing zeros.
func Points(d decimal.Decimal) string {
	return d.String()
}

// Count renders completed/target with the max in parentheses when it differs.
func Count(completed, target, max int) string {
	s := fmt.Sprintf("%d/%d", completed, target)
	if max != target {
		s += fmt.Sprintf(" (max %d)", max)
	}
	switch {
	case completed >= target:
		return Good.Render(s)
	case completed > 0:
		return Warn.Render(s)
	default:
		return Muted.Render(s)
	}
}

// ProgressBar renders ratio in [0,1] as a fixed-width bar.
func ProgressBar(ratio float64, width int) string {
	if width <= 3 {
		width = 3
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// Percent renders ratio as a whole percentage.
func Percent(ratio float64) string {
	return fmt.Sprintf("%d%%", int(ratio*100+0.5))
}
