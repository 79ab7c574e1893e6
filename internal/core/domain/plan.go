package domain

// BuildPlan is everything the build cache and the artifact builder need for one artifact.
type BuildPlan struct {
	// Descriptor carries the aggregated dependencies of the type and its operands.
	Descriptor TypeDescriptor
	// Extra holds caller supplied dependencies that are part of the key.
	Extra DependencySet
	// Key is derived from Descriptor, its dependencies and Extra.
	Key CacheKey
}

// Dependencies returns every source fragment the builder must make available.
func (p BuildPlan) Dependencies() DependencySet {
	return UnionDependencies(p.Descriptor.Dependencies, p.Extra)
}

// NewBuildPlan derives the key for the descriptor and extra dependencies.
func NewBuildPlan(descriptor TypeDescriptor, extra DependencySet) BuildPlan {
	return BuildPlan{
		Descriptor: descriptor,
		Extra:      extra,
		Key:        DeriveCacheKey(descriptor, descriptor.Dependencies, extra),
	}
}
