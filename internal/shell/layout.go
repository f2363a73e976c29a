package shell

import (
	"context"
	"html/template"
	"io"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/bifrostdocs/internal/registry"
)

// MainID is the element id of the router outlet htmx swaps pages into.
const MainID = "main"

var sectionCaser = cases.Title(language.English)

// Layout is what the root component needs to know about the current request.
type Layout struct {
	Title   string
	Current string
	Overlay template.HTML
	Live    bool
}

var (
	documentHead = template.Must(template.New("head").Parse(
		`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">` +
			`<meta name="viewport" content="width=device-width, initial-scale=1">` +
			`<title>{{.Title}}</title>` +
			`{{range .Libraries}}<link rel="stylesheet" href="/static/{{.}}.css">{{end}}` +
			`<link rel="stylesheet" href="/static/highlight.css">` +
			`<script src="https://unpkg.com/htmx.org@1.9.12" defer></script></head><body>` +
			`<div class="main-container" data-component="{{.Component}}">` +
			`<header class="header"><a class="branding" href="/">Bifrost</a></header>` +
			`<div class="content-container">`))

	documentTail = template.Must(template.New("tail").Parse(
		`</div></div>{{.Overlay}}{{if .Live}}{{.Script}}{{end}}</body></html>`))

	navTemplate = template.Must(template.New("nav").Parse(
		`<nav class="sidenav" id="sidenav"{{if .OOB}} hx-swap-oob="true"{{end}}>` +
			`{{range .Groups}}<section class="{{.Class}}" data-section="{{.Section}}">` +
			`<div class="nav-group-label">{{.Label}}</div>` +
			`{{range .Links}}<a class="{{.Class}}" href="{{.Route}}" hx-get="{{.Route}}" hx-target="#{{$.Target}}" hx-push-url="true">{{.Title}}</a>{{end}}` +
			`</section>{{end}}</nav>`))
)

// AppComponent renders the full document: header, section navigation and the
// router outlet holding content.
func (a *App) AppComponent(layout Layout, content templ.Component) templ.Component {
	title := "Bifrost"
	if layout.Title != "" {
		title = layout.Title + " · Bifrost"
	}
	libraries := make([]string, 0, len(a.Module.Libraries))
	for _, lib := range a.Module.Libraries {
		libraries = append(libraries, lib.Name)
	}

	return templ.Join(
		templ.FromGoHTML(documentHead, map[string]any{
			"Title":     title,
			"Libraries": libraries,
			"Component": ComponentApp,
		}),
		a.NavComponent(layout.Current, false),
		a.MainComponent(content),
		templ.FromGoHTML(documentTail, map[string]any{
			"Overlay": layout.Overlay,
			"Live":    layout.Live,
			"Script":  liveReloadScript,
		}),
	)
}

// MainComponent is the router outlet.
func (a *App) MainComponent(content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<main id="`+MainID+`" class="content-area" data-component="`+ComponentMain+`">`); err != nil {
			return err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main>`)
		return err
	})
}

type navLink struct {
	Class, Route, Title string
}

type navGroup struct {
	Class, Section, Label string
	Links                 []navLink
}

// NavComponent renders the section navigation. Sections the nav store reports
// active are marked, as is the link to current. With oob set the element
// replaces the existing sidebar during an htmx swap.
func (a *App) NavComponent(current string, oob bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var groups []navGroup
		for _, group := range groupBySection(a.Registry.GetAll()) {
			g := navGroup{
				Class:   "nav-group",
				Section: group.section,
				Label:   sectionCaser.String(strings.ReplaceAll(group.section, "-", " ")),
			}
			if a.Nav.IsActive(group.section) {
				g.Class += " active"
			}
			for _, p := range group.pages {
				link := navLink{Class: "nav-link", Route: p.Route, Title: p.Title}
				if p.Route == current {
					link.Class += " active"
				}
				g.Links = append(g.Links, link)
			}
			groups = append(groups, g)
		}

		return templ.FromGoHTML(navTemplate, map[string]any{
			"OOB":    oob,
			"Groups": groups,
			"Target": MainID,
		}).Render(ctx, w)
	})
}

type sectionGroup struct {
	section string
	pages   []*registry.PageInfo
}

// groupBySection keeps sections in the order their first page appears.
func groupBySection(all []*registry.PageInfo) []sectionGroup {
	var groups []sectionGroup
	index := make(map[string]int)
	for _, p := range all {
		i, ok := index[p.Section]
		if !ok {
			i = len(groups)
			index[p.Section] = i
			groups = append(groups, sectionGroup{section: p.Section})
		}
		groups[i].pages = append(groups[i].pages, p)
	}
	return groups
}

const liveReloadScript template.HTML = `<script>
(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  ws.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    if (msg.type === "reload") { location.reload(); }
    if (msg.type === "nav" && msg.nav) {
      var el = document.querySelector('.sidenav [data-section="' + msg.nav.section + '"]');
      if (el) { el.classList.toggle("active", msg.nav.active); }
    }
  };
})();
</script>`
