//go:build !release

package archecs

// assert panics when an internal invariant is broken. Builds with the
// release tag compile it out.
func assert(cond bool, msg string) {
	if !cond {
		panic("archecs: " + msg)
	}
}
