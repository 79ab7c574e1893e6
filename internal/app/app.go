// Package app implements the application layer for forge.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/buildcache"
	"go.trai.ch/forge/internal/engine/dispatcher"
	"go.trai.ch/forge/internal/ui/output"
	"go.trai.ch/forge/internal/ui/style"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	dispatcher   *dispatcher.Dispatcher
	cache        *buildcache.Cache
	store        ports.ArtifactStore
	configLoader ports.ConfigLoader
	logger       ports.Logger
	recorder     ports.BuildRecorder
	out          io.Writer
}

// New creates a new App instance.
func New(
	d *dispatcher.Dispatcher,
	cache *buildcache.Cache,
	store ports.ArtifactStore,
	loader ports.ConfigLoader,
	log ports.Logger,
	recorder ports.BuildRecorder,
) *App {
	return &App{
		dispatcher:   d,
		cache:        cache,
		store:        store,
		configLoader: loader,
		logger:       log,
		recorder:     recorder,
		out:          os.Stdout,
	}
}

// WithOutput redirects command output, which goes to stdout by default.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// Close shuts the build cache down and flushes the build recording.
func (a *App) Close(ctx context.Context) error {
	err := a.cache.Shutdown(ctx)
	if s := a.recorder.Summary(); s.Total > 0 {
		a.logger.Debug(fmt.Sprintf("recorded %d artifact builds: %d built, %d cached, %d failed",
			s.Total, s.Built, s.Cached, s.Failed))
	}
	return errors.Join(err, a.recorder.Close())
}

// Warm builds the artifacts for every request concurrently.
// It returns the first failure after all builds have finished.
func (a *App) Warm(ctx context.Context, reqs ...domain.Request) error {
	return warm(ctx, a.dispatcher, reqs...)
}

func warm(ctx context.Context, d *dispatcher.Dispatcher, reqs ...domain.Request) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, req := range reqs {
		g.Go(func() error {
			_, err := d.Artifact(ctx, req)
			return err
		})
	}
	return g.Wait()
}

func (a *App) renderer() *lipgloss.Renderer {
	return output.NewRenderer(a.out)
}

// printFields writes aligned label and value rows.
func (a *App) printFields(rows [][2]string) {
	r := a.renderer()
	width := 0
	for _, row := range rows {
		width = max(width, len(row[0]))
	}
	for _, row := range rows {
		label := style.Header(r).Render(fmt.Sprintf("%-*s", width, row[0]))
		_, _ = fmt.Fprintf(a.out, "%s  %s\n", label, row[1])
	}
}

func (a *App) printList(title string, items []string) {
	if len(items) == 0 {
		return
	}
	r := a.renderer()
	_, _ = fmt.Fprintln(a.out, style.Header(r).Render(title))
	for _, item := range items {
		_, _ = fmt.Fprintln(a.out, "  "+style.Muted(r).Render(item))
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func parseExtra(extra []string) domain.DependencySet {
	var ids []string
	for _, e := range extra {
		for id := range strings.SplitSeq(e, ",") {
			ids = append(ids, id)
		}
	}
	return domain.NewDependencySet(ids...)
}

// loadConfig reads forge.yaml from the working directory.
func (a *App) loadConfig() (*domain.Config, error) {
	cfg, err := a.configLoader.Load(".")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}
