// Package routing maps documentation URLs to page factories.
//
// A Table is built once from a list of routes and never changes afterwards.
// Routes are grouped into Modules, each mounted under a prefix the way a child
// routing module is attached to its parent. Paths are compared segment by
// segment with leading and trailing slashes ignored.
package routing

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/conneroisu/bifrostdocs/internal/errors"
	"github.com/conneroisu/bifrostdocs/internal/pages"
)

// PathMatch selects how a route path is compared to a request path.
type PathMatch int

const (
	// PathMatchFull requires the whole remaining path to equal the route path.
	PathMatchFull PathMatch = iota
	// PathMatchPrefix requires the route path to be a segment-wise prefix.
	PathMatchPrefix
)

// String returns the string representation of the match mode
func (m PathMatch) String() string {
	switch m {
	case PathMatchFull:
		return "full"
	case PathMatchPrefix:
		return "prefix"
	default:
		return "unknown"
	}
}

// Route is one entry of a routing table.
type Route struct {
	Path      string
	PathMatch PathMatch
	Name      string
	Component pages.Factory
}

// Table is an immutable, ordered list of routes.
type Table struct {
	routes []Route
}

// NewTable validates routes and builds a table. Paths are normalized; two
// routes with the same path and match mode are rejected.
func NewTable(routes ...Route) (*Table, error) {
	seen := make(map[string]bool, len(routes))
	normalized := make([]Route, 0, len(routes))
	for i, r := range routes {
		if r.Component == nil {
			return nil, errors.NewRoutingError(errors.CodeInvalidRoute,
				fmt.Sprintf("route %d has no component", i)).WithRoute(r.Path)
		}
		if strings.ContainsAny(r.Path, "?#") {
			return nil, errors.NewRoutingError(errors.CodeInvalidRoute,
				"route path must not contain a query or fragment").WithRoute(r.Path)
		}
		if r.PathMatch != PathMatchFull && r.PathMatch != PathMatchPrefix {
			return nil, errors.NewRoutingError(errors.CodeInvalidRoute,
				fmt.Sprintf("unknown path match %d", r.PathMatch)).WithRoute(r.Path)
		}
		r.Path = Clean(r.Path)
		key := r.PathMatch.String() + ":" + r.Path
		if seen[key] {
			return nil, errors.NewRoutingError(errors.CodeDuplicateRoute,
				"route declared twice").WithRoute(r.Path)
		}
		seen[key] = true
		normalized = append(normalized, r)
	}
	return &Table{routes: normalized}, nil
}

// MustTable is NewTable for static declarations.
func MustTable(routes ...Route) *Table {
	t, err := NewTable(routes...)
	if err != nil {
		panic(err)
	}
	return t
}

// Routes returns a copy of the routes in declaration order.
func (t *Table) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

// Len returns the number of routes.
func (t *Table) Len() int {
	return len(t.routes)
}

// Lookup returns the first declared route matching path.
func (t *Table) Lookup(path string) (Route, bool) {
	path = Clean(path)
	for _, r := range t.routes {
		if matches(r, path) {
			return r, true
		}
	}
	return Route{}, false
}

func matches(r Route, path string) bool {
	switch r.PathMatch {
	case PathMatchFull:
		return r.Path == path
	case PathMatchPrefix:
		if r.Path == "" {
			return true
		}
		return path == r.Path || strings.HasPrefix(path, r.Path+"/")
	default:
		return false
	}
}

// Clean trims surrounding slashes and collapses empty segments.
func Clean(path string) string {
	segments := strings.Split(path, "/")
	kept := segments[:0]
	for _, s := range segments {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "/")
}

// Module is a routing table mounted under a prefix.
type Module struct {
	Name   string
	Prefix string
	Table  *Table
}

// ForChild mounts routes under prefix.
func ForChild(name, prefix string, routes ...Route) (*Module, error) {
	table, err := NewTable(routes...)
	if err != nil {
		return nil, err
	}
	return &Module{Name: name, Prefix: Clean(prefix), Table: table}, nil
}

// FullPath returns the absolute URL path of r inside the module.
func (m *Module) FullPath(r Route) string {
	return "/" + joinPath(m.Prefix, r.Path)
}

// Lookup strips the module prefix from path and looks the rest up in the table.
func (m *Module) Lookup(path string) (Route, bool) {
	path = Clean(path)
	switch {
	case m.Prefix == "":
	case path == m.Prefix:
		path = ""
	case strings.HasPrefix(path, m.Prefix+"/"):
		path = strings.TrimPrefix(path, m.Prefix+"/")
	default:
		return Route{}, false
	}
	return m.Table.Lookup(path)
}

func joinPath(prefix, path string) string {
	switch {
	case prefix == "":
		return path
	case path == "":
		return prefix
	default:
		return prefix + "/" + path
	}
}

// HandlerFor builds the HTTP handler serving route r of module m.
type HandlerFor func(m *Module, r Route) http.HandlerFunc

// Mount registers every route of m on router. Full-match routes answer their
// exact path with and without a trailing slash; prefix routes also answer
// everything below them.
func Mount(router chi.Router, m *Module, handlerFor HandlerFor) {
	for _, r := range m.Table.Routes() {
		h := handlerFor(m, r)
		full := m.FullPath(r)
		router.Get(full, h)
		if full != "/" {
			router.Get(full+"/", h)
		}
		if r.PathMatch == PathMatchPrefix {
			router.Get(strings.TrimSuffix(full, "/")+"/*", h)
		}
	}
}
