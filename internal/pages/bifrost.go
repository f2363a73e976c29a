package pages

import "github.com/conneroisu/bifrostdocs/internal/nav"

// Page names as reported by Name().
const (
	NameTsStoreBasics        = "TsStoreBasicsComponent"
	NameTsLogging            = "TsLoggingComponent"
	NameTsConfiguringAngular = "ConfiguringAngularComponent"
	NameHome                 = "HomeComponent"
)

// TsStoreBasics documents creating and listening to stores.
func TsStoreBasics(deps Deps) Page {
	return newDoc(deps, NameTsStoreBasics, nav.SectionBifrostTsDocs, "store basics",
		"Stores are a simple way to cache and share state between components without wiring channels by hand.",
		[]Block{
			{
				Heading: "Creating a store",
				Text:    "Ask the bus for a new store by name, then put values into it with a state change type.",
				Sample:  "store-basics-create.ts",
			},
			{
				Heading: "Listening for changes",
				Text:    "Every mutation is streamed to subscribers. Use whenReady to wait for the initial population.",
				Sample:  "store-basics-listen.ts",
			},
		})
}

// TsLogging documents the bus logger.
func TsLogging(deps Deps) Page {
	return newDoc(deps, NameTsLogging, nav.SectionBifrostTsDocs, "logging",
		"The bus ships with a logger that colours output by level and tags every line with its source.",
		[]Block{
			{
				Heading: "Writing log lines",
				Text:    "Boot the bus with a log level and use the logger it exposes.",
				Sample:  "logging-basic.ts",
			},
			{
				Heading: "Changing the level",
				Text:    "The level can be raised, lowered or silenced at runtime.",
				Sample:  "logging-levels.ts",
			},
		})
}

// TsConfiguringAngular documents wiring the bus into an Angular application.
func TsConfiguringAngular(deps Deps) Page {
	return newDoc(deps, NameTsConfiguringAngular, nav.SectionBifrostTsDocs, "configuring angular",
		"Boot the bus before the application module loads and import the module into your root module.",
		[]Block{
			{
				Heading: "Root module",
				Sample:  "configuring-angular-module.ts",
			},
			{
				Heading: "Components",
				Text:    "Extend the abstract base to get a named logger and the bus on every component.",
				Sample:  "configuring-angular-component.ts",
			},
		})
}

// Home is the landing page of the sewing machine sample.
func Home(deps Deps) Page {
	return newDoc(deps, NameHome, nav.SectionSewingMachine, "sewing machine",
		"A small sample application that talks to a sewing machine service over the bus.",
		[]Block{
			{
				Heading: "Install",
				Sample:  "home-install.sh",
			},
			{
				Heading: "Boot the bus",
				Text:    "Send the machine a request once the bus is up.",
				Sample:  "home-boot.ts",
			},
		})
}
