package output

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	isatty "github.com/mattn/go-isatty"
)

var (
	styleStatus  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true) // green
	stylePath    = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true) // bright white
	styleNote    = lipgloss.NewStyle().Foreground(lipgloss.Color("45")).Faint(true) // teal dim
	colorEnabled = true
)

// InitConsole configures color output based on noColor flag and TTY detection
func InitConsole(noColor bool) {
	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	colorEnabled = tty && !noColor
}

func r(st lipgloss.Style, s string) string {
	if !colorEnabled {
		return s
	}
	return st.Render(s)
}

// StatusLine returns the one-line result summary printed after a run, e.g.
// "✓ merged .github/workflows/pipeline.yaml".
func StatusLine(status, path string) string {
	return fmt.Sprintf("%s %s", r(styleStatus, "✓ "+status), r(stylePath, path))
}

// Notef returns a faint informational line.
func Notef(format string, a ...interface{}) string {
	return r(styleNote, fmt.Sprintf(format, a...))
}
