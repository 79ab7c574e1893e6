package app

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/ui/style"
	"go.trai.ch/zerr"
)

// ListArtifacts prints the persisted artifact manifests ordered by key.
func (a *App) ListArtifacts(_ context.Context) ([]domain.ArtifactManifest, error) {
	manifests, err := a.store.List()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to list artifact manifests")
	}

	r := a.renderer()
	if len(manifests) == 0 {
		_, _ = fmt.Fprintln(a.out, style.Muted(r).Render("no artifacts"))
		return nil, nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "KEY\tROLE\tBUILT\tTARGET\tDESCRIPTOR")
	for _, m := range manifests {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			m.Key, m.Role, m.BuiltAt.Local().Format(time.DateTime), m.Target, m.Descriptor)
	}
	if err := tw.Flush(); err != nil {
		return nil, zerr.Wrap(err, "failed to write artifact list")
	}
	return manifests, nil
}

// Clean removes every persisted artifact manifest. Artifacts loaded by this process stay usable.
func (a *App) Clean(_ context.Context) error {
	a.logger.Info("removing artifact manifests...")
	n, err := a.store.Clear()
	if err != nil {
		return zerr.Wrap(err, "failed to clean artifact store")
	}
	a.logger.Info(fmt.Sprintf("removed %d artifact manifests", n))
	return nil
}
