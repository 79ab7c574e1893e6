// export_test.go exports private hooks for white-box testing.
package native

import "time"

// SetClock replaces the builder's clock.
func SetClock(b *Builder, now func() time.Time) {
	b.now = now
}
