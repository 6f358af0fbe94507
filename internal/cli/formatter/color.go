package formatter

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/janmeier/studyplan/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusStyle returns the style for a semester status.
func StatusStyle(status domain.SemesterStatus) lipgloss.Style {
	switch status {
	case domain.SemesterCurrent:
		return StyleGreen
	case domain.SemesterFuture:
		return StyleBlue
	case domain.SemesterCompleted:
		return StyleDim
	default:
		return StyleFg
	}
}

// StatusIndicator returns a colored status marker such as "● current".
func StatusIndicator(status domain.SemesterStatus) string {
	return StatusStyle(status).Render("● " + string(status))
}

// ECTS formats a decimal credit value, dropping a trailing ".0".
func ECTS(credits float64) string {
	if credits == float64(int(credits)) {
		return fmt.Sprintf("%d ECTS", int(credits))
	}
	return fmt.Sprintf("%.1f ECTS", credits)
}

// Grade formats a grade average, or a dash when no graded credits exist.
func Grade(avg float64) string {
	if avg == 0 {
		return StyleDim.Render("–")
	}
	return fmt.Sprintf("%.2f", avg)
}

// Rating formats an optional course rating.
func Rating(r *float64) string {
	if r == nil {
		return StyleDim.Render("–")
	}
	style := StyleYellow
	switch {
	case *r >= 4:
		style = StyleGreen
	case *r < 3:
		style = StyleRed
	}
	return style.Render(fmt.Sprintf("%.1f", *r))
}
