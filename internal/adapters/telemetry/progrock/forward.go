package progrock

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vito/progrock"
	"go.trai.ch/forge/internal/core/ports"
)

// forwarder is a progrock.Writer relaying finished vertices and their output lines to a logger.
// Completions and stdout lines are logged at debug level, stderr lines as warnings.
type forwarder struct {
	logger ports.Logger

	mu      sync.Mutex
	names   map[string]string
	partial map[string][]byte
}

func newForwarder(logger ports.Logger) *forwarder {
	return &forwarder{
		logger:  logger,
		names:   make(map[string]string),
		partial: make(map[string][]byte),
	}
}

func (f *forwarder) WriteStatus(update *progrock.StatusUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, v := range update.Vertexes {
		f.names[v.Id] = v.Name
		if v.Completed != nil {
			f.logger.Debug(completion(v))
		}
	}
	for _, l := range update.Logs {
		f.relay(l)
	}
	return nil
}

// Close logs output that never ended with a newline.
func (f *forwarder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for key, rest := range f.partial {
		vertex, stream, _ := strings.Cut(key, "\x00")
		f.emit(vertex, stream == progrock.LogStream_STDERR.String(), string(rest))
	}
	clear(f.partial)
	return nil
}

func (f *forwarder) relay(l *progrock.VertexLog) {
	key := l.Vertex + "\x00" + l.Stream.String()
	buf := append(f.partial[key], l.Data...)

	for {
		line, rest, found := bytes.Cut(buf, []byte{'\n'})
		if !found {
			break
		}
		f.emit(l.Vertex, l.Stream == progrock.LogStream_STDERR, string(line))
		buf = rest
	}

	if len(buf) == 0 {
		delete(f.partial, key)
		return
	}
	f.partial[key] = bytes.Clone(buf)
}

func (f *forwarder) emit(vertex string, stderr bool, line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	msg := f.names[vertex] + ": " + line
	if stderr {
		f.logger.Warn(msg)
		return
	}
	f.logger.Debug(msg)
}

func completion(v *progrock.Vertex) string {
	switch {
	case v.Error != nil:
		return fmt.Sprintf("%s failed: %s", v.Name, v.GetError())
	case v.Cached:
		return v.Name + " cached"
	case v.Started != nil:
		took := v.Completed.AsTime().Sub(v.Started.AsTime())
		return fmt.Sprintf("%s done in %s", v.Name, took.Round(time.Microsecond))
	default:
		return v.Name + " done"
	}
}
