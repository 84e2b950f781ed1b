// Package printer writes styled status lines for the stamp commands.
package printer

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Tone selects the style of a line.
type Tone int

const (
	Plain Tone = iota
	Faint
	Heading
	Success
	Failure
	Warning
	Info
)

var styles = map[Tone]lipgloss.Style{
	Plain:   lipgloss.NewStyle(),
	Faint:   lipgloss.NewStyle().Faint(true),
	Heading: lipgloss.NewStyle().Bold(true),
	Success: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1E7A3C", Dark: "#5FD787"}),
	Failure: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B3261E", Dark: "#FF6B6B"}),
	Warning: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#A15C00", Dark: "#FFB454"}),
	Info:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#006C80", Dark: "#5FD7FF"}),
}

// marks prefix checklist items.
var marks = map[Tone]string{
	Success: "✓",
	Failure: "✗",
	Warning: "!",
	Info:    "·",
}

var out io.Writer = os.Stdout

// SetOutput redirects printed lines and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	prev := out
	out = w
	return prev
}

// SetNoColor drops ANSI styling from everything rendered afterwards.
func SetNoColor(disabled bool) {
	if disabled {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// Render styles text without printing it. Unknown tones render plain.
func Render(t Tone, text string) string {
	style, ok := styles[t]
	if !ok {
		return text
	}
	return style.Render(text)
}

// Print writes text in tone t followed by a newline.
func Print(t Tone, text string) {
	fmt.Fprintln(out, Render(t, text))
}

// Printf formats according to format and prints the result in tone t.
func Printf(t Tone, format string, args ...any) {
	Print(t, fmt.Sprintf(format, args...))
}

// Item prints an indented checklist entry with the mark for t.
func Item(t Tone, text string) {
	mark, ok := marks[t]
	if !ok {
		mark = "-"
	}
	Print(t, "  "+mark+" "+text)
}
