// Package output picks the color profile of terminal output and builds writers using it.
package output

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// EnvColor forces colors on ("always") or off ("never").
const EnvColor = "FORGE_COLOR"

// ColorProfile returns the color profile for terminal output.
func ColorProfile() termenv.Profile {
	return profileFrom(os.Getenv, termenv.EnvColorProfile)
}

// profileFrom applies, in order: FORGE_COLOR, NO_COLOR, CI (basic ANSI), then detection.
func profileFrom(getenv func(string) string, detect func() termenv.Profile) termenv.Profile {
	switch strings.ToLower(getenv(EnvColor)) {
	case "always":
		return termenv.TrueColor
	case "never":
		return termenv.Ascii
	}
	if getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	if getenv("CI") != "" {
		return termenv.ANSI
	}
	return detect()
}

// New creates a termenv output writing to w, stderr when w is nil.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	opts = append(opts, termenv.WithProfile(ColorProfile()), termenv.WithTTY(true))
	return termenv.NewOutput(w, opts...)
}

// NewRenderer creates a lipgloss renderer writing to w, stdout when w is nil.
func NewRenderer(w io.Writer) *lipgloss.Renderer {
	if w == nil {
		w = os.Stdout
	}
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(ColorProfile())
	return r
}
