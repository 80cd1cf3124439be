package styles

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/sqve/gitscope/internal/config"
)

var (
	Success  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	Error    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	Warning  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	Info     = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	Dimmed   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	Worktree = lipgloss.NewStyle().Bold(true)
	Path     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

func Render(style *lipgloss.Style, text string) string {
	if config.IsPlain() {
		return text
	}

	// lipgloss drops colors when stdout is not a terminal, which includes
	// tests.
	if os.Getenv("GITSCOPE_TEST_COLORS") == "true" {
		lipgloss.SetColorProfile(termenv.ANSI256)
	}

	return style.Render(text)
}

// RenderPath shortens paths under the home directory to ~ and styles them.
func RenderPath(path string) string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		if rest, ok := strings.CutPrefix(path, home); ok && rest != "" && os.IsPathSeparator(rest[0]) {
			path = "~" + rest
		}
	}
	return Render(&Path, path)
}
