package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/hashicorp/go-multierror"
)

// Color palette shared by every command.
const (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorMuted     = lipgloss.Color("#6B7280")
	colorSuccess   = lipgloss.Color("#10B981")
	colorError     = lipgloss.Color("#EF4444")
	colorWarning   = lipgloss.Color("#F59E0B")
	colorHighlight = lipgloss.Color("#3B82F6")
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	successStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
	addedStyle     = lipgloss.NewStyle().Foreground(colorSuccess)
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	removedStyle   = lipgloss.NewStyle().Foreground(colorError)
	warningStyle   = lipgloss.NewStyle().Foreground(colorWarning)
	highlightStyle = lipgloss.NewStyle().Foreground(colorHighlight)
)

func printWarnings(w io.Writer, warnings []string) {
	for _, msg := range warnings {
		fmt.Fprintf(w, "%s %s\n", warningStyle.Render("WARNING:"), msg)
	}
}

func printErrorList(w io.Writer, header string, msgs []string) {
	fmt.Fprintln(w, errorStyle.Render(header))
	for _, msg := range msgs {
		fmt.Fprintf(w, "  %s\n", removedStyle.Render(msg))
	}
}

// errReported marks failures whose details were already printed by the
// command; Execute only needs to set the exit status for them.
var errReported = errors.New("reported")

func reported(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", errReported, err)
}

func printError(w io.Writer, err error) {
	if errors.Is(err, errReported) {
		return
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		printErrorList(w, fmt.Sprintf("%d error(s):", len(merr.Errors)), errorStrings(merr.Errors))
		return
	}
	fmt.Fprintf(w, "%s %v\n", errorStyle.Render("Error:"), err)
}

func errorStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}
