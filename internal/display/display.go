package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
)

// Printer writes user-facing output. Status lines carry an icon; tables are
// drawn with lipgloss. Write errors are ignored.
type Printer interface {
	Print(a ...any)
	Println(a ...any)
	Printf(format string, a ...any)

	// Status lines with icons
	Successf(format string, a ...any)
	Warningf(format string, a ...any)
	Infof(format string, a ...any)
	Errorf(format string, a ...any)

	// Inline styles
	Bold(text string) string
	Faint(text string) string
	Activity(name string) string

	// Table renders rows under headers
	Table(headers []string, rows [][]string)
}

type writer struct {
	out      io.Writer
	success  *color.Color
	warning  *color.Color
	info     *color.Color
	failure  *color.Color
	bold     *color.Color
	faint    *color.Color
	activity *color.Color
}

// New creates a Printer that writes to w
func New(w io.Writer) Printer {
	return &writer{
		out:      w,
		success:  color.New(color.FgGreen),
		warning:  color.New(color.FgYellow),
		info:     color.New(color.FgCyan),
		failure:  color.New(color.FgRed),
		bold:     color.New(color.Bold),
		faint:    color.New(color.Faint),
		activity: color.New(color.FgMagenta, color.Bold),
	}
}

// NewStderr creates a Printer for messages and errors
func NewStderr() Printer {
	return New(os.Stderr)
}

// NewStdout creates a Printer for results that may be piped
func NewStdout() Printer {
	return New(os.Stdout)
}

func (w *writer) Print(a ...any) {
	_, _ = fmt.Fprint(w.out, a...)
}

func (w *writer) Println(a ...any) {
	_, _ = fmt.Fprintln(w.out, a...)
}

func (w *writer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(w.out, format, a...)
}

func (w *writer) status(c *color.Color, icon, format string, a ...any) {
	_, _ = fmt.Fprintf(w.out, "%s %s\n", c.Sprint(icon), fmt.Sprintf(format, a...))
}

// Successf prints a line with a green checkmark
func (w *writer) Successf(format string, a ...any) {
	w.status(w.success, "✓", format, a...)
}

// Warningf prints a line with a yellow warning sign
func (w *writer) Warningf(format string, a ...any) {
	w.status(w.warning, "⚠", format, a...)
}

// Infof prints a line with a cyan info sign
func (w *writer) Infof(format string, a ...any) {
	w.status(w.info, "ℹ", format, a...)
}

// Errorf prints a line with a red cross
func (w *writer) Errorf(format string, a ...any) {
	w.status(w.failure, "✗", format, a...)
}

func (w *writer) Bold(text string) string {
	return w.bold.Sprint(text)
}

func (w *writer) Faint(text string) string {
	return w.faint.Sprint(text)
}

// Activity quotes and highlights an activity name
func (w *writer) Activity(name string) string {
	return w.activity.Sprint(`"` + name + `"`)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (w *writer) Table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, _ = fmt.Fprintln(w.out, strings.TrimRight(t.Render(), "\n"))
}
