package routing

import "github.com/conneroisu/bifrostdocs/internal/pages"

// Module names and mount prefixes.
const (
	ModuleSewingMachine = "sewing-machine"
	ModuleBifrostDocs   = "bifrost-docs"

	PrefixSewingMachine = "sewing-machine"
	PrefixBifrostDocs   = "bifrost"
)

// SewingMachineRoutes is the routing module of the sewing machine sample. Its
// only route is the module root.
func SewingMachineRoutes() *Module {
	return &Module{
		Name:   ModuleSewingMachine,
		Prefix: PrefixSewingMachine,
		Table: MustTable(
			Route{Path: "", PathMatch: PathMatchFull, Name: pages.NameHome, Component: pages.Home},
		),
	}
}

// BifrostDocsRoutes is the routing module of the TypeScript documentation.
func BifrostDocsRoutes() *Module {
	return &Module{
		Name:   ModuleBifrostDocs,
		Prefix: PrefixBifrostDocs,
		Table: MustTable(
			Route{Path: "ts/store-basics", Name: pages.NameTsStoreBasics, Component: pages.TsStoreBasics},
			Route{Path: "ts/logging", Name: pages.NameTsLogging, Component: pages.TsLogging},
			Route{Path: "ts/configuring-angular", Name: pages.NameTsConfiguringAngular, Component: pages.TsConfiguringAngular},
		),
	}
}
