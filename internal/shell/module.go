// Package shell is the composition root of the documentation site. An AppModule
// declares the layout components, the UI libraries and routing modules it
// imports, and the providers the pages depend on. Bootstrap turns that
// declaration into a wired App.
package shell

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/conneroisu/bifrostdocs/internal/config"
	"github.com/conneroisu/bifrostdocs/internal/di"
	"github.com/conneroisu/bifrostdocs/internal/errors"
	"github.com/conneroisu/bifrostdocs/internal/highlight"
	"github.com/conneroisu/bifrostdocs/internal/logging"
	"github.com/conneroisu/bifrostdocs/internal/nav"
	"github.com/conneroisu/bifrostdocs/internal/pages"
	"github.com/conneroisu/bifrostdocs/internal/registry"
	"github.com/conneroisu/bifrostdocs/internal/renderer"
	"github.com/conneroisu/bifrostdocs/internal/routing"
)

// Declared layout components.
const (
	ComponentApp  = "AppComponent"
	ComponentMain = "MainComponent"
)

// Provider names.
const (
	ProviderConfig      = "config"
	ProviderLogger      = "logger"
	ProviderNav         = "nav"
	ProviderHighlighter = "highlighter"
	ProviderSamples     = "samples"
	ProviderRenderer    = "renderer"
	ProviderRegistry    = "registry"
)

//go:embed static/uikit.css
var static embed.FS

// UILibrary is an imported component library contributing a stylesheet.
type UILibrary struct {
	Name       string
	Stylesheet string
}

// Provider registers one dependency in the container.
type Provider struct {
	Name      string
	Singleton bool
	Instance  interface{}
	Factory   di.FactoryFunc
}

// AppModule is the declarative description of the application.
type AppModule struct {
	Declarations []string
	Libraries    []UILibrary
	Routing      []*routing.Module
	Providers    []Provider
	Bootstrap    string
}

// UIKit returns the bundled UI component library.
func UIKit() UILibrary {
	css, err := static.ReadFile("static/uikit.css")
	if err != nil {
		panic(err)
	}
	return UILibrary{Name: "uikit", Stylesheet: string(css)}
}

// NewAppModule declares the documentation application for cfg.
func NewAppModule(cfg *config.Config, logger logging.Logger) *AppModule {
	return &AppModule{
		Declarations: []string{ComponentApp, ComponentMain},
		Libraries:    []UILibrary{UIKit()},
		Routing: []*routing.Module{
			routing.SewingMachineRoutes(),
			routing.BifrostDocsRoutes(),
		},
		Providers: []Provider{
			{Name: ProviderConfig, Instance: cfg},
			{Name: ProviderLogger, Instance: logger},
			{Name: ProviderNav, Singleton: true, Factory: func(r di.DependencyResolver) (interface{}, error) {
				return nav.NewStore(), nil
			}},
			{Name: ProviderHighlighter, Singleton: true, Factory: func(r di.DependencyResolver) (interface{}, error) {
				return highlight.NewService(highlight.Options{
					Style:       cfg.Highlight.Style,
					Classes:     cfg.Highlight.Classes,
					LineNumbers: cfg.Highlight.LineNumbers,
					TabWidth:    cfg.Highlight.TabWidth,
				}, logger), nil
			}},
			{Name: ProviderSamples, Singleton: true, Factory: func(r di.DependencyResolver) (interface{}, error) {
				return pages.Samples(cfg.Docs.SamplesDir), nil
			}},
			{Name: ProviderRenderer, Singleton: true, Factory: func(r di.DependencyResolver) (interface{}, error) {
				deps, err := resolveDeps(r)
				if err != nil {
					return nil, err
				}
				return renderer.NewPageRenderer(deps, cfg.Render.StableChecks, logger), nil
			}},
			{Name: ProviderRegistry, Singleton: true, Factory: func(r di.DependencyResolver) (interface{}, error) {
				return registry.NewPageRegistry(), nil
			}},
		},
		Bootstrap: ComponentApp,
	}
}

func resolveDeps(r di.DependencyResolver) (pages.Deps, error) {
	store, err := di.Resolve[*nav.Store](r, ProviderNav)
	if err != nil {
		return pages.Deps{}, err
	}
	hl, err := di.Resolve[*highlight.Service](r, ProviderHighlighter)
	if err != nil {
		return pages.Deps{}, err
	}
	samples, err := di.Resolve[fs.FS](r, ProviderSamples)
	if err != nil {
		return pages.Deps{}, err
	}
	return pages.Deps{Highlighter: hl, Nav: store, Samples: samples}, nil
}

// MountedRoute is a route together with the module it was mounted from.
type MountedRoute struct {
	Module   *routing.Module
	Route    routing.Route
	FullPath string
}

// App is a bootstrapped AppModule.
type App struct {
	Module      *AppModule
	Container   *di.ServiceContainer
	Config      *config.Config
	Logger      logging.Logger
	Nav         *nav.Store
	Highlighter *highlight.Service
	Renderer    *renderer.PageRenderer
	Registry    *registry.PageRegistry

	routes []MountedRoute
}

// Bootstrap validates m, registers its providers and resolves the services
// the layout and pages need. Every route is registered in the page registry.
func Bootstrap(m *AppModule) (*App, error) {
	if err := validate(m); err != nil {
		return nil, err
	}

	container := di.NewServiceContainer()
	for _, p := range m.Providers {
		switch {
		case p.Instance != nil:
			container.RegisterInstance(p.Name, p.Instance)
		case p.Singleton:
			container.RegisterSingleton(p.Name, p.Factory)
		default:
			container.Register(p.Name, p.Factory)
		}
	}

	app := &App{Module: m, Container: container}
	var err error
	if app.Config, err = di.Resolve[*config.Config](container, ProviderConfig); err != nil {
		return nil, err
	}
	if app.Logger, err = di.Resolve[logging.Logger](container, ProviderLogger); err != nil {
		return nil, err
	}
	if app.Nav, err = di.Resolve[*nav.Store](container, ProviderNav); err != nil {
		return nil, err
	}
	if app.Highlighter, err = di.Resolve[*highlight.Service](container, ProviderHighlighter); err != nil {
		return nil, err
	}
	if app.Renderer, err = di.Resolve[*renderer.PageRenderer](container, ProviderRenderer); err != nil {
		return nil, err
	}
	if app.Registry, err = di.Resolve[*registry.PageRegistry](container, ProviderRegistry); err != nil {
		return nil, err
	}

	seen := make(map[string]string)
	for _, module := range m.Routing {
		for _, r := range module.Table.Routes() {
			full := module.FullPath(r)
			if owner, dup := seen[full]; dup {
				return nil, errors.NewRoutingError(errors.CodeDuplicateRoute,
					fmt.Sprintf("declared by modules %s and %s", owner, module.Name)).WithRoute(full)
			}
			seen[full] = module.Name
			app.routes = append(app.routes, MountedRoute{Module: module, Route: r, FullPath: full})

			// A page built without collaborators has no side effects until mounted.
			page := r.Component(pages.Deps{})
			app.Registry.Register(&registry.PageInfo{
				Name:    page.Name(),
				Title:   page.Title(),
				Section: page.Section(),
				Route:   full,
				Module:  module.Name,
				Match:   r.PathMatch.String(),
				Samples: page.SampleFiles(),
			})
		}
	}

	app.Logger.Info(context.Background(), "Application bootstrapped",
		"routes", len(app.routes),
		"providers", len(container.Names()),
		"libraries", len(m.Libraries))
	return app, nil
}

func validate(m *AppModule) error {
	if m == nil {
		return errors.NewValidationError(errors.CodeInvalidDeclaration, "no application module")
	}
	declared := make(map[string]bool, len(m.Declarations))
	for _, d := range m.Declarations {
		if declared[d] {
			return errors.NewValidationError(errors.CodeInvalidDeclaration,
				fmt.Sprintf("component %s declared twice", d))
		}
		declared[d] = true
	}
	if !declared[m.Bootstrap] {
		return errors.NewValidationError(errors.CodeInvalidDeclaration,
			fmt.Sprintf("bootstrap component %q is not declared", m.Bootstrap))
	}
	for _, p := range m.Providers {
		if p.Instance == nil && p.Factory == nil {
			return errors.NewValidationError(errors.CodeProviderMissing,
				fmt.Sprintf("provider %s has neither an instance nor a factory", p.Name))
		}
	}
	return nil
}

// Routes returns every mounted route in declaration order.
func (a *App) Routes() []MountedRoute {
	return append([]MountedRoute(nil), a.routes...)
}

// Lookup finds the mounted route serving path.
func (a *App) Lookup(path string) (MountedRoute, bool) {
	for _, module := range a.Module.Routing {
		if r, ok := module.Lookup(path); ok {
			return MountedRoute{Module: module, Route: r, FullPath: module.FullPath(r)}, true
		}
	}
	return MountedRoute{}, false
}

// Stylesheet returns the stylesheet of the imported library called name.
func (a *App) Stylesheet(name string) (string, bool) {
	for _, lib := range a.Module.Libraries {
		if lib.Name == name {
			return lib.Stylesheet, true
		}
	}
	return "", false
}

// Shutdown releases the resources held by providers.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Container.Shutdown(ctx)
}
