package domain

import "time"

// ArtifactManifest records a compiled artifact in the builder's on-disk store.
type ArtifactManifest struct {
	Key          CacheKey  `json:"key,omitzero"`
	Role         string    `json:"role,omitzero"`
	Descriptor   string    `json:"descriptor,omitzero"`
	Dependencies []string  `json:"dependencies,omitempty"`
	UnitDigest   string    `json:"unit_digest,omitzero"`
	Builder      string    `json:"builder,omitzero"`
	Target       string    `json:"target,omitzero"`
	BuiltAt      time.Time `json:"built_at,omitzero"`
}
