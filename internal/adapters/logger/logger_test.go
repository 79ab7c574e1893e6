package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/logger"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger writing to a buffer without ANSI escape codes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New()
	lg.SetOutput(buf)
	return lg, buf
}

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Logger = (*logger.Logger)(nil)
}

func TestLogger_Golden(t *testing.T) {
	tests := []struct {
		name string
		log  func(l *logger.Logger)
	}{
		{
			name: "info_basic",
			log:  func(l *logger.Logger) { l.Info("built matrix_3f2a") },
		},
		{
			name: "warn_basic",
			log:  func(l *logger.Logger) { l.Warn("manifest not stored") },
		},
		{
			name: "error_simple",
			log:  func(l *logger.Logger) { l.Error(errors.New("permission denied")) },
		},
		{
			name: "error_chain_zerr",
			log: func(l *logger.Logger) {
				l.Error(zerr.Wrap(errors.New("no such file or directory"), "failed to read config file"))
			},
		},
		{
			name: "error_metadata",
			log: func(l *logger.Logger) {
				err := zerr.With(zerr.Wrap(errors.New("unexpected end"), "failed to parse config file"), "path", "forge.yaml")
				l.Error(err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			tt.log(lg)

			g := goldie.New(t)
			g.Assert(t, tt.name, buf.Bytes())
		})
	}
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_StdlibChainIsNotSplit(t *testing.T) {
	lg, buf := newTestLogger(t)

	inner := errors.New("connection refused")
	lg.Error(fmt.Errorf("failed to initialize: %w", inner))

	assert.Equal(t, "✗ Error: failed to initialize: connection refused\n", buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Info("hello")
	lg.Error(errors.New("boom"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var info map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &info))
	assert.Equal(t, "INFO", info["level"])
	assert.Equal(t, "hello", info["msg"])

	var failed map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &failed))
	assert.Equal(t, "ERROR", failed["level"])
	assert.Equal(t, "boom", failed["error"])
}

func TestLogger_SetOutputPreservesJSON(t *testing.T) {
	lg, first := newTestLogger(t)
	lg.SetJSON(true)

	second := &bytes.Buffer{}
	lg.SetOutput(second)
	lg.Info("moved")

	assert.Empty(t, first.String())
	assert.Contains(t, second.String(), `"msg":"moved"`)
}

func TestLogger_SetLevel(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetLevel(domain.LogLevelWarn)

	lg.Info("hidden")
	lg.Warn("shown")

	assert.Equal(t, "! shown\n", buf.String())
}

func TestLogger_Debug(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Debug("hidden")
	assert.Empty(t, buf.String())

	lg.SetLevel(domain.LogLevelDebug)
	lg.Debug("reusing manifest")
	assert.Equal(t, "~ reusing manifest\n", buf.String())
}

func TestNewFromEnv(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "unset", value: "", want: "shown info\n! shown warn\n"},
		{name: "debug", value: "debug", want: "~ shown debug\nshown info\n! shown warn\n"},
		{name: "warn", value: "WARN", want: "! shown warn\n"},
		{name: "unknown", value: "loud", want: "shown info\n! shown warn\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")
			lg := logger.NewFromEnv(func(key string) string {
				assert.Equal(t, logger.EnvLogLevel, key)
				return tt.value
			})
			buf := &bytes.Buffer{}
			lg.SetOutput(buf)

			lg.Debug("shown debug")
			lg.Info("shown info")
			lg.Warn("shown warn")
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
