package formatter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/charmbracelet/lipgloss"
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

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)

// Swatch renders a block in the activity's own color followed by the hex
// code. Anything that is not a hex color is shown dimmed as-is.
func Swatch(color string) string {
	if !hexColor.MatchString(color) {
		return Dim(color)
	}
	block := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("■")
	return block + " " + color
}

// ScaleBadge returns a colored label for a goal scale.
func ScaleBadge(scale domain.GoalScale) string {
	switch scale {
	case domain.GoalDaily:
		return StyleGreen.Render("daily")
	case domain.GoalWeekly:
		return StyleBlue.Render("weekly")
	case domain.GoalMonthly:
		return StylePurple.Render("monthly")
	case domain.GoalYearly:
		return StyleYellow.Render("yearly")
	default:
		return StyleDim.Render(string(scale))
	}
}

// DeletedPill marks tombstoned rows in --all listings.
func DeletedPill(deleted bool) string {
	if deleted {
		return StyleRed.Render("✖ deleted")
	}
	return StyleGreen.Render("● live")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
