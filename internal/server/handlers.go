package server

import (
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/angelofallars/htmx-go"
	"github.com/go-chi/chi/v5"

	"github.com/conneroisu/bifrostdocs/internal/errors"
	"github.com/conneroisu/bifrostdocs/internal/routing"
	"github.com/conneroisu/bifrostdocs/internal/shell"
	"github.com/conneroisu/bifrostdocs/internal/version"
)

// pageHandler mounts a fresh instance of the route's page for every request.
func (s *DocsServer) pageHandler(m *routing.Module, route routing.Route) http.HandlerFunc {
	full := m.FullPath(route)
	return func(w http.ResponseWriter, r *http.Request) {
		mounted, err := s.app.Renderer.Mount(r.Context(), route.Component)
		if err != nil {
			s.renderFailure(w, r, full, err)
			return
		}
		s.mounts.Add(1)

		content := templ.Raw(mounted.View.String())
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		if htmx.IsHTMX(r) {
			if err := htmx.NewResponse().PushURL(full).Write(w); err != nil {
				s.logger.Warn(r.Context(), err, "Writing htmx headers")
			}
			if err := content.Render(r.Context(), w); err != nil {
				s.logger.Error(r.Context(), err, "Writing page fragment", "route", full)
				return
			}
			if err := s.app.NavComponent(full, true).Render(r.Context(), w); err != nil {
				s.logger.Error(r.Context(), err, "Writing navigation", "route", full)
			}
			return
		}

		layout := shell.Layout{
			Title:   mounted.Page.Title(),
			Current: full,
			Live:    s.config.Docs.Dev,
		}
		if s.config.Docs.Dev {
			layout.Overlay = s.errors.ErrorOverlay()
		}
		if err := s.app.AppComponent(layout, content).Render(r.Context(), w); err != nil {
			s.logger.Error(r.Context(), err, "Writing page", "route", full)
		}
	}
}

func (s *DocsServer) renderFailure(w http.ResponseWriter, r *http.Request, route string, err error) {
	s.errors.Record(route, err)
	s.logger.Error(r.Context(), err, "Page failed to render", "route", route)

	status := errors.HTTPStatus(err)
	if !s.config.Docs.Dev || htmx.IsHTMX(r) {
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	layout := shell.Layout{Title: "Error", Current: route, Overlay: s.errors.ErrorOverlay(), Live: true}
	if err := s.app.AppComponent(layout, nil).Render(r.Context(), w); err != nil {
		s.logger.Error(r.Context(), err, "Writing error page", "route", route)
	}
}

var notFoundTemplate = template.Must(template.New("not-found").Parse(
	`<article class="doc-page not-found"><h1>Page not found</h1>` +
		`<p>{{.}} is not part of the documentation.</p></article>`))

func (s *DocsServer) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if htmx.IsHTMX(r) {
		http.Error(w, "page not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	content := templ.FromGoHTML(notFoundTemplate, r.URL.Path)
	if err := s.app.AppComponent(shell.Layout{Title: "Not found"}, content).Render(r.Context(), w); err != nil {
		s.logger.Error(r.Context(), err, "Writing not found page")
	}
}

func (s *DocsServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.config.Docs.Home, http.StatusFound)
}

func (s *DocsServer) handleNav(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, map[string]interface{}{
		"sections":  s.app.Nav.Snapshot(),
		"timestamp": time.Now().Unix(),
	})
}

func (s *DocsServer) handlePages(w http.ResponseWriter, r *http.Request) {
	pages := s.app.Registry.GetAll()
	s.writeJSON(w, r, map[string]interface{}{
		"pages": pages,
		"count": len(pages),
	})
}

// Stats is the payload of /api/stats.
type Stats struct {
	HighlightScans    int64 `json:"highlight_scans"`
	HighlightedBlocks int64 `json:"highlighted_blocks"`
	Mounts            int64 `json:"mounts"`
	StableChecks      int   `json:"stable_checks"`
	WebSocketClients  int   `json:"websocket_clients"`
	RenderFailures    int   `json:"render_failures"`
}

func (s *DocsServer) stats() Stats {
	return Stats{
		HighlightScans:    s.app.Highlighter.Count(),
		HighlightedBlocks: s.app.Highlighter.Blocks(),
		Mounts:            s.mounts.Load(),
		StableChecks:      s.app.Renderer.StableChecks(),
		WebSocketClients:  s.hub.Count(),
		RenderFailures:    len(s.errors.Failures()),
	}
}

func (s *DocsServer) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, s.stats())
}

func (s *DocsServer) handleErrors(w http.ResponseWriter, r *http.Request) {
	failures := s.errors.Failures()
	s.writeJSON(w, r, map[string]interface{}{
		"errors": failures,
		"count":  len(failures),
	})
}

// handleHealth returns the server health status for health checks
func (s *DocsServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, map[string]interface{}{
		"status":     "healthy",
		"timestamp":  time.Now().UTC(),
		"version":    version.GetShortVersion(),
		"build_info": version.GetBuildInfo(),
		"checks": map[string]interface{}{
			"registry":  map[string]interface{}{"status": "healthy", "pages": s.app.Registry.Count()},
			"highlight": map[string]interface{}{"status": "healthy", "style": s.app.Highlighter.StyleName()},
			"websocket": map[string]interface{}{"status": "healthy", "clients": s.hub.Count()},
		},
	})
}

func (s *DocsServer) handleHighlightCSS(w http.ResponseWriter, r *http.Request) {
	css, err := s.app.Highlighter.Stylesheet()
	if err != nil {
		s.logger.Error(r.Context(), err, "Generating highlight stylesheet")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	writeCSS(w, css)
}

func (s *DocsServer) handleLibraryCSS(w http.ResponseWriter, r *http.Request) {
	css, ok := s.app.Stylesheet(chi.URLParam(r, "library"))
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	writeCSS(w, css)
}

func writeCSS(w http.ResponseWriter, css string) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(css))
}

func (s *DocsServer) writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(r.Context(), err, "Failed to encode response", "path", r.URL.Path)
	}
}
