package renderer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/bifrostdocs/internal/errors"
	"github.com/conneroisu/bifrostdocs/internal/highlight"
	"github.com/conneroisu/bifrostdocs/internal/lifecycle"
	"github.com/conneroisu/bifrostdocs/internal/logging"
	"github.com/conneroisu/bifrostdocs/internal/nav"
	"github.com/conneroisu/bifrostdocs/internal/pages"
	"github.com/conneroisu/bifrostdocs/internal/view"
)

func testLogger() logging.Logger {
	return logging.NewLogger(&logging.LoggerConfig{Output: io.Discard})
}

func TestMountHighlightsOnce(t *testing.T) {
	calls := 0
	hl := lifecycle.HighlighterFunc(func(ctx context.Context, v *view.View) error {
		calls++
		return nil
	})
	store := nav.NewStore()
	r := NewPageRenderer(pages.Deps{Highlighter: hl, Nav: store}, 5, testLogger())

	mounted, err := r.Mount(context.Background(), pages.TsLogging)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 5, mounted.Checks)
	assert.True(t, mounted.Page.Highlighted())
	assert.Equal(t, lifecycle.StateMountedHighlighted, mounted.Page.State())
	assert.Equal(t, 1, store.Marks(nav.SectionBifrostTsDocs))
}

func TestMountEachRequestGetsFreshInstance(t *testing.T) {
	calls := 0
	hl := lifecycle.HighlighterFunc(func(ctx context.Context, v *view.View) error {
		calls++
		return nil
	})
	r := NewPageRenderer(pages.Deps{Highlighter: hl, Nav: nav.NewStore()}, 0, testLogger())
	assert.Equal(t, DefaultStableChecks, r.StableChecks())

	for i := 0; i < 3; i++ {
		_, err := r.Mount(context.Background(), pages.Home)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
}

func TestRenderHTMLWithChroma(t *testing.T) {
	svc := highlight.NewService(highlight.Options{Style: "github", Classes: true}, testLogger())
	r := NewPageRenderer(pages.Deps{Highlighter: svc, Nav: nav.NewStore()}, 2, testLogger())

	out, err := r.RenderHTML(context.Background(), pages.TsStoreBasics)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, `data-highlighted="true"`))
	assert.Equal(t, int64(1), svc.Count())
}

func TestMountHighlighterFailure(t *testing.T) {
	hl := lifecycle.HighlighterFunc(func(ctx context.Context, v *view.View) error {
		return fmt.Errorf("boom")
	})
	r := NewPageRenderer(pages.Deps{Highlighter: hl}, 2, testLogger())

	_, err := r.Mount(context.Background(), pages.Home)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeHighlight))
	assert.Contains(t, err.Error(), pages.NameHome)
}

func TestMountMissingSample(t *testing.T) {
	store := nav.NewStore()
	r := NewPageRenderer(pages.Deps{Samples: fstest.MapFS{}, Nav: store}, 2, testLogger())

	_, err := r.Mount(context.Background(), pages.TsConfiguringAngular)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeSampleMissing))

	// activation happens on init, before the failing render
	assert.True(t, store.IsActive(nav.SectionBifrostTsDocs))
}

func TestMountLogsOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LevelDebug, Format: "json", Output: &buf})
	r := NewPageRenderer(pages.Deps{Highlighter: lifecycle.HighlighterFunc(func(context.Context, *view.View) error {
		return nil
	})}, 2, logger)

	mounted, err := r.Mount(context.Background(), pages.Home)
	require.NoError(t, err)
	assert.Positive(t, mounted.Duration)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	assert.Equal(t, "Operation completed", entry["msg"])
	assert.Equal(t, "mount", entry["operation"])
	assert.Equal(t, pages.NameHome, entry["page"])
	assert.Equal(t, "renderer", entry["component"])
}

func TestMountNilFactory(t *testing.T) {
	r := NewPageRenderer(pages.Deps{}, 2, testLogger())

	_, err := r.Mount(context.Background(), nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInternal))
}
