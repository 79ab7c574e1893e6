package domain

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// cacheKeyVersion is mixed into every key. Bump it when the encoding below changes so
// that on-disk artifacts addressed by older keys are not reused.
const cacheKeyVersion = "forge/key/v1"

// CacheKey deterministically identifies one compiled artifact.
type CacheKey string

// String returns the key.
func (k CacheKey) String() string {
	return string(k)
}

// Prefix returns the role prefix of the key.
func (k CacheKey) Prefix() string {
	prefix, _, _ := strings.Cut(string(k), "_")
	return prefix
}

// DeriveCacheKey computes the cache key for a descriptor, its aggregated dependencies
// and extra caller supplied dependencies that change the compiled shape.
// Both sets are canonical, so the key does not depend on insertion order.
// Extra is hashed in its own section: moving an identifier between deps and extra changes the key.
func DeriveCacheKey(descriptor TypeDescriptor, deps, extra DependencySet) CacheKey {
	hasher := xxhash.New()

	_, _ = hasher.WriteString(cacheKeyVersion)
	_, _ = hasher.Write([]byte{0})

	_, _ = hasher.WriteString(descriptor.Role.String())
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.WriteString(descriptor.Name.String())
	_, _ = hasher.Write([]byte{0})

	for _, id := range deps.ids {
		_, _ = hasher.WriteString(id)
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0}) // Section separator

	for _, id := range extra.ids {
		_, _ = hasher.WriteString(id)
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})

	return CacheKey(fmt.Sprintf("%s_%016x", descriptor.Role.keyPrefix(), hasher.Sum64()))
}
