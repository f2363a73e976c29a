package pages

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/bifrostdocs/internal/errors"
	"github.com/conneroisu/bifrostdocs/internal/lifecycle"
	"github.com/conneroisu/bifrostdocs/internal/nav"
	"github.com/conneroisu/bifrostdocs/internal/view"
)

type countingHighlighter struct {
	calls int
}

func (c *countingHighlighter) HighlightAll(ctx context.Context, v *view.View) error {
	c.calls++
	return nil
}

func render(t *testing.T, p Page) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, p.Render(context.Background()).Render(context.Background(), &buf))
	return buf.String()
}

func TestPages(t *testing.T) {
	tests := []struct {
		factory Factory
		name    string
		title   string
		section string
		samples int
	}{
		{TsStoreBasics, NameTsStoreBasics, "Store Basics", nav.SectionBifrostTsDocs, 2},
		{TsLogging, NameTsLogging, "Logging", nav.SectionBifrostTsDocs, 2},
		{TsConfiguringAngular, NameTsConfiguringAngular, "Configuring Angular", nav.SectionBifrostTsDocs, 2},
		{Home, NameHome, "Sewing Machine", nav.SectionSewingMachine, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := nav.NewStore()
			hl := &countingHighlighter{}
			page := tt.factory(Deps{Highlighter: hl, Nav: store})

			assert.Equal(t, tt.name, page.Name())
			assert.Equal(t, tt.title, page.Title())
			assert.Equal(t, tt.section, page.Section())
			assert.Len(t, page.SampleFiles(), tt.samples)
			assert.Equal(t, lifecycle.StateUnmounted, page.State())

			page.Initialize(context.Background())
			assert.True(t, store.IsActive(tt.section))
			assert.False(t, page.Highlighted())

			v, err := view.New([]byte(render(t, page)))
			require.NoError(t, err)
			assert.Len(t, v.CodeBlocks(), tt.samples)

			require.NoError(t, page.AfterRenderStable(context.Background(), v))
			require.NoError(t, page.AfterRenderStable(context.Background(), v))
			assert.Equal(t, 1, hl.calls)
			assert.True(t, page.Highlighted())
			assert.Equal(t, 1, store.Marks(tt.section))
		})
	}
}

func TestRenderEscapesSamples(t *testing.T) {
	out := render(t, TsStoreBasics(Deps{}))

	assert.Contains(t, out, `class="language-ts"`)
	assert.Contains(t, out, "BusStore&lt;string&gt;")
	assert.Contains(t, out, `data-page="TsStoreBasicsComponent"`)
	assert.Contains(t, out, `id="store-basics"`)
}

func TestRenderMissingSample(t *testing.T) {
	page := TsLogging(Deps{Samples: fstest.MapFS{}})

	var buf bytes.Buffer
	err := page.Render(context.Background()).Render(context.Background(), &buf)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeSampleMissing))
}

func TestSamplesOverlay(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "home-install.sh"), []byte("go install ./..."), 0o600))

	out := render(t, Home(Deps{Samples: Samples(dir)}))
	assert.Contains(t, out, "go install ./...")
	assert.Contains(t, out, "bootBusWithOptions", "files missing from the override come from the binary")
}

func TestLanguageFor(t *testing.T) {
	assert.Equal(t, "ts", languageFor("a.ts"))
	assert.Equal(t, "bash", languageFor("a.sh"))
	assert.Equal(t, "plaintext", languageFor("README"))
}
