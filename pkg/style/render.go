package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// Status classifies a rendered line.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusWarning Status = "warning"
	StatusInfo    Status = "info"
)

// StatusStyle returns the pterm style for a status.
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusSuccess:
		return pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	case StatusError:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	case StatusWarning:
		return pterm.NewStyle(pterm.FgYellow, pterm.Bold)
	default:
		return pterm.NewStyle(pterm.FgCyan)
	}
}

// Indicator returns the glyph for a status.
func Indicator(status Status) string {
	switch status {
	case StatusSuccess:
		return "✓"
	case StatusError:
		return "✗"
	case StatusWarning:
		return "!"
	default:
		return "•"
	}
}

// StatusLine renders a message prefixed with its styled status glyph.
func StatusLine(status Status, message string) string {
	return StatusStyle(status).Sprint(Indicator(status)) + " " + message
}

// PackageSpec renders "@namespace/name:version" with each part styled.
func PackageSpec(namespace, name, version string) string {
	return "@" + Get("Namespace").Render(namespace) +
		"/" + Get("PackageName").Render(name) +
		":" + Get("Version").Render(version)
}

// ImportHint renders the import statement users paste into their
// documents.
func ImportHint(spec string) string {
	return Get("ImportHint").Render(`#import "` + spec + `": ...`)
}

// DisableColors forces plain output for pipes and NO_COLOR terminals.
func DisableColors() {
	pterm.DisableColor()
	lipgloss.SetColorProfile(termenv.Ascii)
}

// EnableColors restores styled output.
func EnableColors() {
	pterm.EnableColor()
}
