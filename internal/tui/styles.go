package tui

import "github.com/charmbracelet/lipgloss"

// Color palette - keeping it minimal and accessible.
var (
	ColorPrimary   = lipgloss.Color("39")  // Blue
	ColorSecondary = lipgloss.Color("245") // Gray
	ColorSuccess   = lipgloss.Color("34")  // Green
	ColorMuted     = lipgloss.Color("240") // Dark gray
)

var (
	DirStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	FileStyle = lipgloss.NewStyle()

	ModeStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	BranchStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	// Marks entries that existed before and will not be removed.
	KeptStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Italic(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)
)

// SymbolCheck prefixes styled success lines.
const SymbolCheck = "✓"
