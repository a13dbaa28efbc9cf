package patch

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Reporter receives per-file results and the end-of-run summary.
type Reporter interface {
	Report(res Result)
	Done(summary Summary)
}

type discardReporter struct{}

func (discardReporter) Report(Result) {}
func (discardReporter) Done(Summary)  {}

// Console status colours.
const (
	colorOK   = lipgloss.Color("42")
	colorInfo = lipgloss.Color("33")
	colorWarn = lipgloss.Color("214")
	colorErr  = lipgloss.Color("196")
)

// ConsoleReporter writes one line per file and a final "Done!".
type ConsoleReporter struct {
	out     io.Writer
	styled  bool
	summary bool
}

// NewConsoleReporter returns a reporter writing to out. styled enables
// coloured status words and should only be set for terminals. summary adds
// a count line after "Done!".
func NewConsoleReporter(out io.Writer, styled, summary bool) *ConsoleReporter {
	return &ConsoleReporter{out: out, styled: styled, summary: summary}
}

// Report writes the status line for res.
func (r *ConsoleReporter) Report(res Result) {
	switch res.Outcome {
	case OutcomeNotFound:
		r.line(colorErr, "File not found:", res.FullPath)
	case OutcomeAlreadyPatched:
		r.line(colorInfo, "Already updated:", res.Path)
	case OutcomeUpdated:
		r.line(colorOK, "Updated:", res.Path)
	case OutcomeSkipped:
		r.line(colorWarn, "Skipped:", fmt.Sprintf("%s (%s anchor not found)", res.Path, res.MissingRule))
	case OutcomeWouldUpdate:
		r.line(colorInfo, "Would update:", res.Path)
	}
}

// Done writes the completion line.
func (r *ConsoleReporter) Done(s Summary) {
	_, _ = fmt.Fprintln(r.out, "Done!")
	if !r.summary {
		return
	}
	p := message.NewPrinter(language.English)
	_, _ = p.Fprintf(r.out, "%d updated, %d already updated, %d not found, %d skipped of %d files (%s)\n",
		s.Count(OutcomeUpdated)+s.Count(OutcomeWouldUpdate),
		s.Count(OutcomeAlreadyPatched),
		s.Count(OutcomeNotFound),
		s.Count(OutcomeSkipped),
		s.Total,
		s.Elapsed.Round(time.Millisecond).String(),
	)
}

func (r *ConsoleReporter) line(color lipgloss.Color, status, subject string) {
	if r.styled {
		status = lipgloss.NewStyle().Bold(true).Foreground(color).Render(status)
	}
	_, _ = fmt.Fprintf(r.out, "%s %s\n", status, subject)
}
