package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/forge/internal/ui/output"
	"go.trai.ch/forge/internal/ui/style"
)

func TestColorProfile_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, output.ColorProfile())
}

func TestNew_PlainWithNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	out := output.New(buf)
	styled := out.String("hello").Foreground(termenv.RGBColor("#FF0000")).Bold()
	_, err := out.WriteString(styled.String())

	assert.NoError(t, err)
	assert.Equal(t, "hello", buf.String())
}

func TestNewRenderer_PlainWithNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	r := output.NewRenderer(&bytes.Buffer{})
	assert.Equal(t, "key", style.Header(r).Render("key"))
	assert.Equal(t, style.Check+" converged", style.Status(r, true, "converged"))
	assert.Equal(t, style.Cross+" diverged", style.Status(r, false, "diverged"))
}

func TestProfileFrom(t *testing.T) {
	detected := func() termenv.Profile { return termenv.ANSI256 }

	tests := []struct {
		name string
		env  map[string]string
		want termenv.Profile
	}{
		{name: "detected", env: nil, want: termenv.ANSI256},
		{name: "no color", env: map[string]string{"NO_COLOR": "1"}, want: termenv.Ascii},
		{name: "ci", env: map[string]string{"CI": "true"}, want: termenv.ANSI},
		{name: "no color wins over ci", env: map[string]string{"CI": "true", "NO_COLOR": "1"}, want: termenv.Ascii},
		{name: "forced on", env: map[string]string{output.EnvColor: "always", "NO_COLOR": "1"}, want: termenv.TrueColor},
		{name: "forced off", env: map[string]string{output.EnvColor: "Never"}, want: termenv.Ascii},
		{name: "unknown override", env: map[string]string{output.EnvColor: "sometimes", "CI": "1"}, want: termenv.ANSI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(key string) string { return tt.env[key] }
			assert.Equal(t, tt.want, output.ProfileFrom(getenv, detected))
		})
	}
}
