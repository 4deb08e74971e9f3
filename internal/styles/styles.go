package styles

import "github.com/charmbracelet/lipgloss"

// Color constants
const (
	ColorAccent     = "205" // Magenta - titles, headers, emphasis
	ColorSuccess    = "171" // Purple - success messages
	ColorError      = "196" // Red - error messages
	ColorWarning    = "214" // Orange - warnings
	ColorFaint      = "238" // Gray - borders, separators, help text
	ColorCellNormal = "252" // Light Gray - normal cell text
	ColorNull       = "244" // Mid Gray - NULL cells
)

// Common reusable styles
var (
	Title, Success, Error, Warning, Faint          lipgloss.Style
	TableHeader, TableCell, TableNull, TableBorder lipgloss.Style
)

func init() {
	InitScheme("")
}

// InitScheme rebuilds the styles with accent as the title and header
// color. An empty accent keeps the default.
func InitScheme(accent string) {
	if accent == "" {
		accent = ColorAccent
	}

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(accent))

	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSuccess)).
		Bold(true)

	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorError)).
		Bold(true)

	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWarning))

	Faint = lipgloss.NewStyle().
		Faint(true)

	TableHeader = lipgloss.NewStyle().
		Foreground(lipgloss.Color(accent)).
		Bold(true)

	TableCell = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorCellNormal))

	TableNull = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorNull)).
		Italic(true)

	TableBorder = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorFaint))
}
