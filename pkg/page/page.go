// Package page serves the dashboard pages behind the route guard.
package page

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/amiskov/spendahead/pkg/common"
)

// NewHandler serves an exported frontend build from dir. With an empty dir
// it answers known pages with a JSON stub naming the page, so the guard can
// be exercised without a frontend.
func NewHandler(dir string, pages []string) http.Handler {
	if dir != "" {
		return &static{root: dir, files: http.FileServer(http.Dir(dir))}
	}
	return &stub{pages: pages}
}

type static struct {
	root  string
	files http.Handler
}

// ServeHTTP maps /dashboard to dashboard.html when the exported build has
// no directory of that name.
func (s *static) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p := path.Clean("/" + r.URL.Path)
	if p != "/" && path.Ext(p) == "" {
		html := filepath.Join(s.root, filepath.FromSlash(p)+".html")
		if fi, err := os.Stat(html); err == nil && !fi.IsDir() {
			http.ServeFile(w, r, html)
			return
		}
	}
	s.files.ServeHTTP(w, r)
}

type stub struct {
	pages []string
}

func (s *stub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name, ok := s.match(r.URL.Path)
	if !ok {
		common.WriteMsg(w, "page not found", http.StatusNotFound)
		return
	}
	common.WriteRespJSON(w, map[string]string{"page": name, "path": r.URL.Path})
}

// match finds the configured page the path lives under.
func (s *stub) match(p string) (string, bool) {
	for _, pg := range s.pages {
		if p == pg || strings.HasPrefix(p, pg+"/") {
			return strings.TrimPrefix(pg, "/"), true
		}
	}
	return "", false
}
