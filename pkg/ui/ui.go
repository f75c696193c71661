// Package ui handles terminal interaction: output format detection and
// interactive selection among manifest candidates.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/jassielof/typm/pkg/errors"
)

// Format represents the output format type
type Format int

const (
	// FormatAuto automatically detects the appropriate format based on terminal capabilities
	FormatAuto Format = iota
	// FormatTerminal renders rich terminal output with colors and styling
	FormatTerminal
	// FormatText renders plain text output without any styling
	FormatText
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTerminal:
		return "term"
	case FormatText:
		return "text"
	default:
		return "unknown"
	}
}

// DetectFormat determines the appropriate output format based on environment and terminal capabilities
func DetectFormat(output *os.File) Format {
	// Check if NO_COLOR is set
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}

	// Check if we're being piped or redirected
	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return FormatText
	}

	// Check terminal color support
	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}

	return FormatTerminal
}

// Selector chooses among discovered manifest candidates. Implementations
// return a zero-based index; range checking is the caller's concern so
// scripted selectors stay trivial.
type Selector interface {
	Select(candidates []string) (int, error)
}

// ConsoleSelector enumerates candidates and reads the choice from the
// terminal.
type ConsoleSelector struct {
	In  io.Reader
	Out io.Writer
}

// NewConsoleSelector returns a selector wired to stdin and stdout.
func NewConsoleSelector() *ConsoleSelector {
	return &ConsoleSelector{In: os.Stdin, Out: os.Stdout}
}

// Select prints the numbered candidates, prompts for a number, and
// returns it zero-based.
func (s *ConsoleSelector) Select(candidates []string) (int, error) {
	for i, candidate := range candidates {
		fmt.Fprintf(s.Out, "  %d: %s\n", i+1, candidate)
	}
	fmt.Fprintf(s.Out, "Enter number (1-%d): ", len(candidates))

	var choice int
	if _, err := fmt.Fscanln(s.In, &choice); err != nil {
		return 0, errors.Wrap(err, errors.ErrInvalidInput, "failed to read selection")
	}
	return choice - 1, nil
}
