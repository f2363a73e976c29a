//go:build property
// +build property

package lifecycle

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/conneroisu/bifrostdocs/internal/view"
)

// TestHighlightOnceProperties checks the lifecycle invariants for any number of
// stable-render checks.
func TestHighlightOnceProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	v, err := view.New([]byte(`<pre><code>x</code></pre>`))
	if err != nil {
		t.Fatal(err)
	}

	properties.Property("highlighter runs exactly once after mount", prop.ForAll(
		func(name string, checks int) bool {
			hl := &countingHighlighter{}
			page := NewHighlightOnce(name, hl, &recordingSection{})
			page.Initialize(context.Background())
			for i := 0; i < checks; i++ {
				if err := page.AfterRenderStable(context.Background(), v); err != nil {
					return false
				}
			}
			return hl.calls == 1 && page.Highlighted()
		},
		gen.AlphaString(),
		gen.IntRange(1, 50),
	))

	properties.Property("section marked active exactly once per mount", prop.ForAll(
		func(inits, checks int) bool {
			section := &recordingSection{}
			page := NewHighlightOnce("P", &countingHighlighter{}, section)
			for i := 0; i < inits; i++ {
				page.Initialize(context.Background())
			}
			for i := 0; i < checks; i++ {
				_ = page.AfterRenderStable(context.Background(), v)
			}
			return section.calls == 1 && section.active
		},
		gen.IntRange(1, 5),
		gen.IntRange(0, 50),
	))

	properties.Property("highlighted never reverts", prop.ForAll(
		func(checks int) bool {
			page := NewHighlightOnce("P", &countingHighlighter{}, nil)
			page.Initialize(context.Background())
			if page.Highlighted() {
				return false
			}
			seen := false
			for i := 0; i < checks; i++ {
				_ = page.AfterRenderStable(context.Background(), v)
				if seen && !page.Highlighted() {
					return false
				}
				seen = page.Highlighted()
			}
			return seen
		},
		gen.IntRange(1, 30),
	))

	properties.TestingRun(t)
}
