package domain

import (
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// Recognized solver configuration keys.
const (
	KeyType           = "type"
	KeyReduction      = "reduction"
	KeyVerbose        = "verbose"
	KeyMaxIt          = "maxit"
	KeyRestart        = "restart"
	KeyPreconditioner = "preconditioner"
	KeyIterations     = "iterations"
	KeyRelaxation     = "relaxation"
)

// SolverConfig is a nested parameter tree handed to a solver factory at call time.
// Values may be numbers, booleans, strings holding numbers, or nested SolverConfig / map values.
// Keys the factory does not recognize are carried along untouched.
type SolverConfig map[string]any

// Clone returns a deep copy of the tree.
func (c SolverConfig) Clone() SolverConfig {
	if c == nil {
		return nil
	}
	out := make(SolverConfig, len(c))
	for k, v := range c {
		if sub, ok := asTree(v); ok {
			out[k] = sub.Clone()
			continue
		}
		out[k] = v
	}
	return out
}

// Merge returns a copy of c with the keys of override replacing its own.
func (c SolverConfig) Merge(override SolverConfig) SolverConfig {
	out := c.Clone()
	if out == nil {
		out = SolverConfig{}
	}
	maps.Copy(out, override.Clone())
	return out
}

// Has reports whether key is set.
func (c SolverConfig) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// Type returns the algorithm id, empty if unset.
func (c SolverConfig) Type() string {
	v, ok := c[KeyType]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// RequiredType returns the algorithm id, failing when it is unset.
func (c SolverConfig) RequiredType() (string, error) {
	t := c.Type()
	if t == "" {
		return "", missingKey(KeyType)
	}
	return t, nil
}

// Float returns a float value, or def if the key is absent.
func (c SolverConfig) Float(key string, def float64) (float64, error) {
	v, ok := c[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, invalidValue(key, v)
		}
		return f, nil
	default:
		return 0, invalidValue(key, v)
	}
}

// Int returns an integer value, or def if the key is absent.
// Floats are accepted only when they hold a whole number.
func (c SolverConfig) Int(key string, def int) (int, error) {
	v, ok := c[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		return unsignedInt(key, uint64(n))
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return unsignedInt(key, uint64(n))
	case uint64:
		return unsignedInt(key, n)
	case float32:
		return wholeInt(key, float64(n))
	case float64:
		return wholeInt(key, n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, invalidValue(key, v)
		}
		return i, nil
	default:
		return 0, invalidValue(key, v)
	}
}

func unsignedInt(key string, n uint64) (int, error) {
	if n > math.MaxInt {
		return 0, invalidValue(key, n)
	}
	return int(n), nil
}

func wholeInt(key string, f float64) (int, error) {
	if f != math.Trunc(f) || f > math.MaxInt || f < math.MinInt {
		return 0, invalidValue(key, f)
	}
	return int(f), nil
}

// Sub returns the nested tree stored at key.
func (c SolverConfig) Sub(key string) (SolverConfig, bool) {
	v, ok := c[key]
	if !ok || v == nil {
		return nil, false
	}
	return asTree(v)
}

// Reduction returns the required relative defect reduction.
func (c SolverConfig) Reduction() (float64, error) {
	if !c.Has(KeyReduction) {
		return 0, missingKey(KeyReduction)
	}
	r, err := c.Float(KeyReduction, 0)
	if err != nil {
		return 0, err
	}
	if r <= 0 {
		return 0, invalidValue(KeyReduction, r)
	}
	return r, nil
}

// MaxIterations returns the iteration limit.
func (c SolverConfig) MaxIterations() (int, error) {
	if !c.Has(KeyMaxIt) {
		return 0, missingKey(KeyMaxIt)
	}
	n, err := c.Int(KeyMaxIt, 0)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, invalidValue(KeyMaxIt, n)
	}
	return n, nil
}

// Verbose returns the verbosity level, zero when unset.
func (c SolverConfig) Verbose() (int, error) {
	n, err := c.Int(KeyVerbose, 0)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, invalidValue(KeyVerbose, n)
	}
	return n, nil
}

func asTree(v any) (SolverConfig, bool) {
	switch t := v.(type) {
	case SolverConfig:
		return t, true
	case map[string]any:
		return SolverConfig(t), true
	case map[string]string:
		out := make(SolverConfig, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func invalidValue(key string, value any) error {
	return zerr.With(zerr.With(zerr.Wrap(ErrInvalidSolverConfig, "invalid value"), "key", key), "value", value)
}

func missingKey(key string) error {
	return zerr.With(zerr.Wrap(ErrInvalidSolverConfig, "missing required key"), "key", key)
}
