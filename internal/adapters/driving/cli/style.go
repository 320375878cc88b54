package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/docshelf/internal/core/domain"
)

// palette holds the styles for one output stream.
type palette struct {
	title  lipgloss.Style
	muted  lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
	bad    lipgloss.Style
	header lipgloss.Style
	color  bool
}

// paletteFor returns coloured styles for terminals and plain styles otherwise.
func paletteFor(w io.Writer) palette {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		plain := lipgloss.NewStyle()
		return palette{title: plain, muted: plain, ok: plain, warn: plain, bad: plain, header: plain}
	}

	return palette{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		ok:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		bad:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		color:  true,
	}
}

// state renders a summary state label.
func (p palette) state(s domain.SummaryState) string {
	label := s.Description()
	switch s {
	case domain.SummaryDone:
		return p.ok.Render(label)
	case domain.SummaryInFlight:
		return p.warn.Render(label)
	case domain.SummaryFailed:
		return p.bad.Render(label)
	default:
		return p.muted.Render(label)
	}
}
