package hooks

import "github.com/gobwas/glob"

// globMatch reports whether candidate satisfies the glob pattern. An
// uncompilable pattern never matches rather than erroring, since matcher
// evaluation has no error channel back to the caller.
func globMatch(pattern, candidate string) bool {
	g, err := glob.Compile(pattern)
	if err != nil {
		return false
	}
	return g.Match(candidate)
}
