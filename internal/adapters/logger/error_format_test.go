package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/forge/internal/adapters/logger"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries(t *testing.T) {
	diag := errors.New("istl/solvers not in dependency set")
	tests := []struct {
		name         string
		err          error
		wantMessages []string
	}{
		{
			name:         "plain sentinel text",
			err:          errors.New("matrix is still in build mode"),
			wantMessages: []string{"matrix is still in build mode"},
		},
		{
			name: "zerr wrapped chain",
			err: zerr.Wrap(
				zerr.Wrap(errors.New("singular diagonal block"), "ssor setup"),
				"solve",
			),
			wantMessages: []string{"solve", "ssor setup", "singular diagonal block"},
		},
		{
			name: "typed build failure ends the walk",
			err: zerr.Wrap(
				domain.NewBuildFailure("solver_factory<op>", domain.CacheKey("solverfactory_00"), diag),
				"resolve solver factory",
			),
			wantMessages: []string{
				"resolve solver factory",
				"artifact build failed for solver_factory<op>: istl/solvers not in dependency set",
			},
		},
		{
			name:         "nil error",
			err:          nil,
			wantMessages: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := logger.CollectErrorEntries(tt.err)
			if tt.wantMessages == nil {
				assert.Empty(t, entries)
				return
			}

			got := make([]string, 0, len(entries))
			for _, e := range entries {
				got = append(got, e.Message)
			}
			assert.Equal(t, tt.wantMessages, got)
		})
	}
}

func TestCollectErrorEntries_Metadata(t *testing.T) {
	err := zerr.With(zerr.Wrap(errors.New("unknown solver type"), "create solver"), "type", "lusolver")

	entries := logger.CollectErrorEntries(err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "lusolver", entries[0].Metadata["type"])
	assert.Nil(t, entries[1].Metadata)
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "single entry",
			entries: []logger.ErrorEntry{{Message: "build cache is shut down"}},
			want:    "Error: build cache is shut down",
		},
		{
			name:    "three entries",
			entries: []logger.ErrorEntry{{Message: "solve"}, {Message: "ssor setup"}, {Message: "singular diagonal block"}},
			want:    "Error: solve\n\n  Caused by:\n    → ssor setup\n    → singular diagonal block",
		},
		{
			name: "metadata sorted alphabetically",
			entries: []logger.ErrorEntry{{
				Message:  "invalid solver configuration",
				Metadata: map[string]any{"value": -1, "key": "maxit"},
			}},
			want: "Error: invalid solver configuration\n       key: maxit\n       value: -1",
		},
		{
			name: "multiline cause with metadata",
			entries: []logger.ErrorEntry{
				{Message: "main"},
				{Message: "cause line1\ncause line2", Metadata: map[string]any{"key": 1}},
			},
			want: "Error: main\n\n  Caused by:\n    → cause line1\n      cause line2\n      key: 1",
		},
		{
			name:    "empty entries",
			entries: []logger.ErrorEntry{},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntries(tt.entries))
		})
	}
}
