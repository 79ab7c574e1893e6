// Package progrock records artifact builds on a progrock tape.
package progrock

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

// Recorder implements ports.BuildRecorder using the progrock library.
type Recorder struct {
	w    progrock.Writer
	rec  *progrock.Recorder
	tape *progrock.Tape
}

// New creates a Recorder writing to a tape and forwarding every finished vertex
// and its output to logger.
func New(logger ports.Logger) *Recorder {
	tape := progrock.NewTape()
	r := NewRecorder(progrock.MultiWriter{tape, newForwarder(logger)})
	r.tape = tape
	return r
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Record starts a vertex for a unit of work. Vertices are addressed by the
// digest of id, so recording the same id twice updates one vertex.
func (r *Recorder) Record(_ context.Context, id, name string) ports.Vertex {
	return buildVertex{rec: r.rec.Vertex(digest.FromString(id), name)}
}

// Summary counts the vertices on the tape. A Recorder without a tape reports nothing.
func (r *Recorder) Summary() domain.BuildSummary {
	if r.tape == nil {
		return domain.BuildSummary{}
	}
	failed := r.tape.ErroredCount()
	return domain.BuildSummary{
		Total:  r.tape.TotalCount(),
		Built:  r.tape.UncachedCount() - failed,
		Cached: r.tape.CachedCount(),
		Failed: failed,
	}
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	return r.w.Close()
}

// buildVertex is one artifact build on the tape.
type buildVertex struct {
	rec *progrock.VertexRecorder
}

func (v buildVertex) Stdout() io.Writer {
	return v.rec.Stdout()
}

// Log writes warnings and errors to the vertex's stderr and everything else to its stdout.
func (v buildVertex) Log(level domain.LogLevel, msg string) {
	w := v.rec.Stdout()
	if level >= domain.LogLevelWarn {
		w = v.rec.Stderr()
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n", strings.ToLower(level.String()), msg)
}

func (v buildVertex) Complete(err error) {
	v.rec.Done(err)
}

func (v buildVertex) Cached() {
	v.rec.Cached()
}
