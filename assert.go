package shellopts

import "fmt"

// assertf panics on violated internal invariants when the shellopts_debug
// build tag is set. Release builds compile the checks away.
func assertf(cond bool, format string, args ...any) {
	if debugAsserts && !cond {
		panic(fmt.Sprintf("shellopts: "+format, args...))
	}
}
