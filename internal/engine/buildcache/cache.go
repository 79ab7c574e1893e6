// Package buildcache implements the process-wide artifact cache.
package buildcache

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// BuildFunc produces the artifact for one key.
type BuildFunc func(ctx context.Context) (ports.Artifact, error)

// Cache maps cache keys to loaded artifacts for the lifetime of the process.
// Entries are inserted once and never evicted or replaced.
type Cache struct {
	tracer ports.Tracer

	entries sync.Map // domain.CacheKey -> ports.Artifact
	group   singleflight.Group
	builds  atomic.Int64

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// New creates an empty Cache.
func New(tracer ports.Tracer) *Cache {
	return &Cache{tracer: tracer}
}

// GetOrBuild returns the artifact cached for key, invoking build only on a genuine miss.
// Concurrent callers for the same key wait for the single in-flight build and share its result.
// Callers for other keys are never blocked by it.
// A failed build is not stored, so a later call retries it.
// Builds are detached from the caller's cancellation and always run to completion.
func (c *Cache) GetOrBuild(ctx context.Context, key domain.CacheKey, build BuildFunc) (ports.Artifact, error) {
	if v, ok := c.entries.Load(key); ok {
		return v.(ports.Artifact), nil
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, zerr.With(zerr.Wrap(domain.ErrCacheShutdown, "cannot build artifact"), "key", key.String())
	}
	c.inflight.Add(1)
	c.mu.Unlock()
	defer c.inflight.Done()

	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		// A previous flight may have stored the entry after our first lookup.
		if v, ok := c.entries.Load(key); ok {
			return v, nil
		}
		return c.build(context.WithoutCancel(ctx), key, build)
	})
	if err != nil {
		return nil, err
	}
	return v.(ports.Artifact), nil
}

func (c *Cache) build(ctx context.Context, key domain.CacheKey, build BuildFunc) (ports.Artifact, error) {
	ctx, span := c.tracer.Start(ctx, "build "+key.String(), ports.WithAttribute("forge.cache_key", key.String()))
	defer span.End()

	artifact, err := build(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if artifact == nil {
		err := zerr.With(zerr.Wrap(domain.ErrUnexpectedInstance, "builder returned no artifact"), "key", key.String())
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("forge.descriptor", artifact.Descriptor().String())
	c.entries.Store(key, artifact)
	c.builds.Add(1)
	return artifact, nil
}

// Get returns the cached artifact for key without building.
func (c *Cache) Get(key domain.CacheKey) (ports.Artifact, bool) {
	v, ok := c.entries.Load(key)
	if !ok {
		return nil, false
	}
	return v.(ports.Artifact), true
}

// Len returns the number of cached artifacts.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Keys returns the cached keys in sorted order.
func (c *Cache) Keys() []domain.CacheKey {
	var keys []domain.CacheKey
	c.entries.Range(func(k, _ any) bool {
		keys = append(keys, k.(domain.CacheKey))
		return true
	})
	slices.Sort(keys)
	return keys
}

// Builds returns how many builds completed successfully.
func (c *Cache) Builds() int64 {
	return c.builds.Load()
}

// Shutdown rejects new builds and waits for in-flight builds to finish or for ctx to end.
// Once they have finished it shuts the tracer down.
// Cached artifacts stay readable.
func (c *Cache) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		c.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		if err := c.tracer.Shutdown(ctx); err != nil {
			return zerr.Wrap(err, "failed to shut down build tracer")
		}
		return nil
	case <-ctx.Done():
		return zerr.Wrap(ctx.Err(), "build cache shutdown interrupted")
	}
}
