// Package styles provides the lipgloss styles used for CLI status lines.
package styles

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Status symbols prefixed to user facing lines.
const (
	SymbolSuccess = "✔"
	SymbolWarning = "⚠"
	SymbolError   = "✖"
)

// Palette defines the semantic colors for status output.
type Palette struct {
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

// DefaultPalette is the tokyo-night palette.
var DefaultPalette = Palette{
	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),
}

var (
	SuccessStyle = lipgloss.NewStyle().Foreground(DefaultPalette.Success).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(DefaultPalette.Warning).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(DefaultPalette.Error).Bold(true)
)

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Printer writes status lines. Symbols are colored only when the
// destination is a terminal, so piped output stays plain text.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, color: IsTerminal(w)}
}

// Success prints a line prefixed with the success symbol.
func (p *Printer) Success(format string, args ...any) {
	p.line(SuccessStyle, SymbolSuccess, format, args...)
}

// Warning prints a line prefixed with the warning symbol.
func (p *Printer) Warning(format string, args ...any) {
	p.line(WarningStyle, SymbolWarning, format, args...)
}

// Error prints a line prefixed with the error symbol.
func (p *Printer) Error(format string, args ...any) {
	p.line(ErrorStyle, SymbolError, format, args...)
}

func (p *Printer) line(style lipgloss.Style, symbol, format string, args ...any) {
	if p.color {
		symbol = style.Render(symbol)
	}
	_, _ = fmt.Fprintf(p.w, "%s %s\n", symbol, fmt.Sprintf(format, args...))
}
