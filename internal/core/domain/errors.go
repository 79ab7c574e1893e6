package domain

import "go.trai.ch/zerr"

var (
	// ErrUnsupportedShape is returned when semantic parameters cannot be canonicalized into a descriptor.
	ErrUnsupportedShape = zerr.New("unsupported shape")

	// ErrBuildFailure is returned when an artifact could not be produced for a valid descriptor.
	ErrBuildFailure = zerr.New("artifact build failed")

	// ErrMissingDependency is returned when a build request lacks a dependency its role requires.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrUnknownRole is returned when a descriptor names a role the builder cannot instantiate.
	ErrUnknownRole = zerr.New("unknown role")

	// ErrDuplicateFastPath is returned when a fast-path entry is registered twice for the same key.
	ErrDuplicateFastPath = zerr.New("fast path already registered")

	// ErrInvalidArgument is returned when an artifact constructor receives arguments it cannot accept.
	ErrInvalidArgument = zerr.New("invalid construction argument")

	// ErrUnexpectedInstance is returned when an artifact constructs an instance of the wrong kind.
	ErrUnexpectedInstance = zerr.New("artifact returned an unexpected instance type")

	// ErrDimensionMismatch is returned when operands of a numeric operation disagree in size.
	ErrDimensionMismatch = zerr.New("dimension mismatch")

	// ErrIndexOutOfRange is returned when a row or column index lies outside the object.
	ErrIndexOutOfRange = zerr.New("index out of range")

	// ErrEntryNotInPattern is returned when writing an entry that is not part of a compressed sparsity pattern.
	ErrEntryNotInPattern = zerr.New("entry is not part of the sparsity pattern")

	// ErrMatrixNotCompressed is returned when a matrix operation requires a compressed matrix.
	ErrMatrixNotCompressed = zerr.New("matrix is still in build mode")

	// ErrMatrixAlreadyBuilt is returned when build mode parameters are changed after compression.
	ErrMatrixAlreadyBuilt = zerr.New("matrix has already been built")

	// ErrImplicitOverflowExhausted is returned when implicit build mode runs out of overflow slots.
	ErrImplicitOverflowExhausted = zerr.New("implicit build mode overflow exhausted")

	// ErrSingularBlock is returned when a diagonal block cannot be inverted.
	ErrSingularBlock = zerr.New("singular diagonal block")

	// ErrUnknownSolver is returned when a solver configuration names an unknown solver type.
	ErrUnknownSolver = zerr.New("unknown solver type")

	// ErrUnknownPreconditioner is returned when a solver configuration names an unknown preconditioner.
	ErrUnknownPreconditioner = zerr.New("unknown preconditioner type")

	// ErrInvalidSolverConfig is returned when a recognized solver configuration key has an invalid value.
	ErrInvalidSolverConfig = zerr.New("invalid solver configuration")

	// ErrBreakdown is returned when an iterative method encounters a numerical breakdown.
	ErrBreakdown = zerr.New("iterative solver breakdown")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrStoreCreateFailed is returned when the artifact store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create artifact store directory")

	// ErrStoreReadFailed is returned when an artifact manifest cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read artifact manifest")

	// ErrStoreUnmarshalFailed is returned when an artifact manifest cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal artifact manifest")

	// ErrStoreMarshalFailed is returned when an artifact manifest cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal artifact manifest")

	// ErrStoreWriteFailed is returned when an artifact manifest cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write artifact manifest")

	// ErrStoreInvalidKey is returned when a cache key cannot be mapped to a manifest file.
	ErrStoreInvalidKey = zerr.New("invalid artifact store key")

	// ErrStoreRemoveFailed is returned when stored manifests cannot be removed.
	ErrStoreRemoveFailed = zerr.New("failed to remove artifact manifests")

	// ErrNotConverged is returned by the solve command when the solver stopped before reaching the reduction.
	ErrNotConverged = zerr.New("solver did not converge")

	// ErrCacheShutdown is returned when a build is requested after the build cache was shut down.
	ErrCacheShutdown = zerr.New("build cache is shut down")
)

// UnsupportedShapeError reports semantic parameters that cannot be resolved to a descriptor.
// It matches ErrUnsupportedShape with errors.Is.
type UnsupportedShapeError struct {
	Role   Role
	Reason string
}

// NewUnsupportedShape creates an UnsupportedShapeError for the given role.
func NewUnsupportedShape(role Role, reason string) *UnsupportedShapeError {
	return &UnsupportedShapeError{Role: role, Reason: reason}
}

func (e *UnsupportedShapeError) Error() string {
	return ErrUnsupportedShape.Error() + " for " + e.Role.String() + ": " + e.Reason
}

// Unwrap exposes the sentinel so errors.Is(err, ErrUnsupportedShape) holds.
func (e *UnsupportedShapeError) Unwrap() error {
	return ErrUnsupportedShape
}

// BuildFailureError carries the descriptor and the builder diagnostic of a failed build.
// It matches both ErrBuildFailure and the diagnostic with errors.Is.
type BuildFailureError struct {
	Descriptor string
	Key        CacheKey
	Diagnostic error
}

// NewBuildFailure wraps a builder diagnostic for the given descriptor.
func NewBuildFailure(descriptor string, key CacheKey, diagnostic error) *BuildFailureError {
	return &BuildFailureError{Descriptor: descriptor, Key: key, Diagnostic: diagnostic}
}

func (e *BuildFailureError) Error() string {
	msg := ErrBuildFailure.Error() + " for " + e.Descriptor
	if e.Diagnostic != nil {
		msg += ": " + e.Diagnostic.Error()
	}
	return msg
}

// Unwrap returns the sentinel and the diagnostic.
func (e *BuildFailureError) Unwrap() []error {
	if e.Diagnostic == nil {
		return []error{ErrBuildFailure}
	}
	return []error{ErrBuildFailure, e.Diagnostic}
}
