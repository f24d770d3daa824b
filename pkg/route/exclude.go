package route

import "strings"

// DefaultExclusions are the path heads the guard never sees: API routes,
// bundled static assets, image optimisation assets, the favicon and the
// public folder.
func DefaultExclusions() []string {
	return []string{"api", "_next/static", "_next/image", "favicon.ico", "public"}
}

// Excluder matches a path whose remainder after the leading slash starts
// with one of the configured heads. "/" itself is never excluded.
type Excluder struct {
	heads []string
}

func NewExcluder(heads []string) *Excluder {
	return &Excluder{heads: append([]string(nil), heads...)}
}

func (e *Excluder) Excluded(path string) bool {
	rest := strings.TrimPrefix(path, "/")
	for _, h := range e.heads {
		if h != "" && strings.HasPrefix(rest, h) {
			return true
		}
	}
	return false
}
