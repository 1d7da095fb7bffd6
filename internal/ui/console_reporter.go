package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const (
	noColorEnvironmentVariable    = "NO_COLOR"
	forceColorEnvironmentVariable = "FORCE_COLOR"
	successColorConstant          = "10"
	warningColorConstant          = "9"
	lineBreakConstant             = "\n"
)

// ConsoleReporter prints operator-facing lines, colouring successes and warnings when styled.
// Workers share one reporter; every line is written under a lock.
type ConsoleReporter struct {
	writer       io.Writer
	mutex        *sync.Mutex
	styled       bool
	successStyle lipgloss.Style
	warningStyle lipgloss.Style
}

// NewConsoleReporter constructs a reporter writing to writer.
func NewConsoleReporter(writer io.Writer, styled bool) *ConsoleReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &ConsoleReporter{
		writer:       writer,
		mutex:        &sync.Mutex{},
		styled:       styled,
		successStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(successColorConstant)),
		warningStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(warningColorConstant)),
	}
}

// ColorEnabled honours NO_COLOR and FORCE_COLOR before falling back to terminal detection.
func ColorEnabled(output *os.File) bool {
	if len(os.Getenv(noColorEnvironmentVariable)) > 0 {
		return false
	}
	if len(os.Getenv(forceColorEnvironmentVariable)) > 0 {
		return true
	}
	return output != nil && term.IsTerminal(int(output.Fd()))
}

// Printf writes an unstyled line.
func (reporter *ConsoleReporter) Printf(format string, args ...any) {
	reporter.write(fmt.Sprintf(format, args...), nil)
}

// Successf writes a line in the success colour.
func (reporter *ConsoleReporter) Successf(format string, args ...any) {
	reporter.write(fmt.Sprintf(format, args...), &reporter.successStyle)
}

// Warnf writes a line in the warning colour.
func (reporter *ConsoleReporter) Warnf(format string, args ...any) {
	reporter.write(fmt.Sprintf(format, args...), &reporter.warningStyle)
}

func (reporter *ConsoleReporter) write(message string, style *lipgloss.Style) {
	rendered := message
	if reporter.styled && style != nil {
		rendered = renderKeepingLineBreaks(message, *style)
	}
	reporter.mutex.Lock()
	defer reporter.mutex.Unlock()
	_, _ = io.WriteString(reporter.writer, rendered)
}

// renderKeepingLineBreaks styles the text between leading and trailing line breaks.
func renderKeepingLineBreaks(message string, style lipgloss.Style) string {
	trimmedLeading := strings.TrimLeft(message, lineBreakConstant)
	body := strings.TrimRight(trimmedLeading, lineBreakConstant)
	if len(body) == 0 {
		return message
	}
	leading := message[:len(message)-len(trimmedLeading)]
	trailing := trimmedLeading[len(body):]
	return leading + style.Render(body) + trailing
}
