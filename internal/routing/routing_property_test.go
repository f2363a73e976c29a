//go:build property
// +build property

package routing

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/conneroisu/bifrostdocs/internal/pages"
)

func TestLookupProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	segments := gen.SliceOfN(3, gen.Identifier())

	properties.Property("declared full-match paths are found with any slashes", prop.ForAll(
		func(parts []string) bool {
			path := strings.Join(parts, "/")
			table, err := NewTable(Route{Path: path, Name: "p", Component: pages.Home})
			if err != nil {
				return false
			}
			route, ok := table.Lookup("/" + path + "/")
			return ok && route.Name == "p"
		},
		segments,
	))

	properties.Property("the empty full-match route matches only the root", prop.ForAll(
		func(parts []string) bool {
			table := MustTable(Route{Path: "", Name: "home", Component: pages.Home})
			_, ok := table.Lookup(strings.Join(parts, "/"))
			return !ok
		},
		segments,
	))

	properties.Property("prefix routes match every descendant", prop.ForAll(
		func(prefix, rest []string) bool {
			table := MustTable(Route{
				Path:      strings.Join(prefix, "/"),
				PathMatch: PathMatchPrefix,
				Name:      "section",
				Component: pages.Home,
			})
			_, ok := table.Lookup(strings.Join(append(prefix, rest...), "/"))
			return ok
		},
		segments,
		segments,
	))

	properties.TestingRun(t)
}
