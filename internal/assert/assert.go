// Package assert checks invariants that span several data structures.
// Checks only run when built with the `cachesim_debug` tag;
// otherwise [Enabled] is false and callers' guarded blocks compile away.
package assert

import "fmt"

// True panics if predicate is false and checks are enabled.
func True(predicate bool, format string, args ...any) {
	if Enabled && !predicate {
		panic(fmt.Sprintf(format, args...))
	}
}

// False panics if predicate is true and checks are enabled.
func False(predicate bool, format string, args ...any) {
	if Enabled && predicate {
		panic(fmt.Sprintf(format, args...))
	}
}
