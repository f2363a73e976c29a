package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/bifrostdocs/internal/view"
)

type countingHighlighter struct {
	calls int
	err   error
}

func (c *countingHighlighter) HighlightAll(ctx context.Context, v *view.View) error {
	c.calls++
	return c.err
}

type recordingSection struct {
	calls  int
	active bool
}

func (r *recordingSection) SetActive(ctx context.Context, active bool) {
	r.calls++
	r.active = active
}

func emptyView(t *testing.T) *view.View {
	t.Helper()
	v, err := view.New([]byte(`<pre><code class="language-ts">let x = 1;</code></pre>`))
	require.NoError(t, err)
	return v
}

func TestScenarioHighlightOnce(t *testing.T) {
	ctx := context.Background()
	hl := &countingHighlighter{}
	section := &recordingSection{}
	page := NewHighlightOnce("X", hl, section)
	v := emptyView(t)

	assert.Equal(t, StateUnmounted, page.State())

	page.Initialize(ctx)
	assert.Equal(t, "X", page.Name())
	assert.True(t, section.active)
	assert.Equal(t, 1, section.calls)
	assert.False(t, page.Highlighted())
	assert.Equal(t, StateMountedUnhighlighted, page.State())

	require.NoError(t, page.AfterRenderStable(ctx, v))
	assert.Equal(t, 1, hl.calls)
	assert.True(t, page.Highlighted())
	assert.Equal(t, StateMountedHighlighted, page.State())

	require.NoError(t, page.AfterRenderStable(ctx, v))
	assert.Equal(t, 1, hl.calls)
	assert.True(t, page.Highlighted())
	assert.Equal(t, 1, section.calls)
}

func TestStableChecksNeverMarkActiveAgain(t *testing.T) {
	ctx := context.Background()
	hl := &countingHighlighter{}
	section := &recordingSection{}
	page := NewHighlightOnce("TsLoggingComponent", hl, section)
	v := emptyView(t)

	page.Initialize(ctx)
	page.Initialize(ctx)
	for i := 0; i < 10; i++ {
		require.NoError(t, page.AfterRenderStable(ctx, v))
	}

	assert.Equal(t, 1, section.calls)
	assert.Equal(t, 1, hl.calls)
}

func TestStableCheckBeforeMountIsNoop(t *testing.T) {
	hl := &countingHighlighter{}
	page := NewHighlightOnce("Early", hl, nil)

	require.NoError(t, page.AfterRenderStable(context.Background(), emptyView(t)))
	assert.Zero(t, hl.calls)
	assert.False(t, page.Highlighted())
	assert.Equal(t, StateUnmounted, page.State())
}

func TestHighlighterFailureIsNotRetried(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("lexer failed")
	hl := &countingHighlighter{err: boom}
	page := NewHighlightOnce("Broken", hl, &recordingSection{})
	v := emptyView(t)

	page.Initialize(ctx)
	err := page.AfterRenderStable(ctx, v)
	assert.ErrorIs(t, err, boom)
	assert.True(t, page.Highlighted())

	assert.NoError(t, page.AfterRenderStable(ctx, v))
	assert.Equal(t, 1, hl.calls)
}

func TestFuncAdapters(t *testing.T) {
	ctx := context.Background()
	var highlighted, activated int

	page := NewHighlightOnce("Adapters",
		HighlighterFunc(func(ctx context.Context, v *view.View) error {
			highlighted++
			return nil
		}),
		ActiveSetterFunc(func(ctx context.Context, active bool) {
			if active {
				activated++
			}
		}),
	)

	page.Initialize(ctx)
	require.NoError(t, page.AfterRenderStable(ctx, emptyView(t)))
	require.NoError(t, page.AfterRenderStable(ctx, emptyView(t)))

	assert.Equal(t, 1, highlighted)
	assert.Equal(t, 1, activated)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unmounted", StateUnmounted.String())
	assert.Equal(t, "mounted-unhighlighted", StateMountedUnhighlighted.String())
	assert.Equal(t, "mounted-highlighted", StateMountedHighlighted.String())
	assert.Equal(t, "unknown", State(42).String())
}
