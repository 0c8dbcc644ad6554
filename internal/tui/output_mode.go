package tui

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// OutputMode is how results are presented.
type OutputMode int

const (
	// OutputModePlain writes unstyled text.
	OutputModePlain OutputMode = iota
	// OutputModeStyled writes colored text without taking over the terminal.
	OutputModeStyled
	// OutputModeInteractive runs a full-screen program.
	OutputModeInteractive
)

// String returns the mode name.
func (m OutputMode) String() string {
	switch m {
	case OutputModePlain:
		return "plain"
	case OutputModeStyled:
		return "styled"
	case OutputModeInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}

// Default terminal size when it cannot be measured.
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// DetectOutputMode picks the output mode for stdout.
// forcePlain and noColor come from flags; noInteractive disables the full-screen program.
func DetectOutputMode(forcePlain, noColor, noInteractive bool) OutputMode {
	return detectOutputMode(forcePlain, noColor, noInteractive,
		term.IsTerminal(int(os.Stdout.Fd())), termenv.EnvColorProfile())
}

func detectOutputMode(forcePlain, noColor, noInteractive, isTTY bool, profile termenv.Profile) OutputMode {
	if forcePlain || !isTTY {
		return OutputModePlain
	}
	if os.Getenv("CI") != "" || os.Getenv("TERM") == "dumb" {
		return OutputModePlain
	}
	if noInteractive {
		if noColor || profile == termenv.Ascii {
			return OutputModePlain
		}
		return OutputModeStyled
	}
	return OutputModeInteractive
}

// TerminalSize returns the size of the terminal on stdout, or the defaults.
func TerminalSize() (int, int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return DefaultWidth, DefaultHeight
	}
	return w, h
}
