package highlight

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/bifrostdocs/internal/errors"
	"github.com/conneroisu/bifrostdocs/internal/logging"
	"github.com/conneroisu/bifrostdocs/internal/view"
)

func newTestService(t *testing.T, opts Options) *Service {
	t.Helper()
	logger := logging.NewLogger(&logging.LoggerConfig{Output: io.Discard})
	return NewService(opts, logger)
}

func TestHighlightAll(t *testing.T) {
	svc := newTestService(t, Options{Style: "github", Classes: true})
	v, err := view.New([]byte(`<h1>Store</h1>
<pre><code class="language-ts">const store = bus.stores.createStore('states');</code></pre>
<pre><code class="language-nosuchlang">just text</code></pre>`))
	require.NoError(t, err)

	require.NoError(t, svc.HighlightAll(context.Background(), v))

	out := v.String()
	assert.Contains(t, out, `data-highlighted="true"`)
	assert.Contains(t, out, `<span class="kr">const</span>`)
	assert.Contains(t, out, "createStore")
	assert.Contains(t, out, "just text")
	assert.NotContains(t, out, "<pre><pre", "formatter must not nest a second <pre>")
	assert.Equal(t, int64(1), svc.Count())
	assert.Equal(t, int64(2), svc.Blocks())
}

func TestHighlightAllSkipsHighlightedBlocks(t *testing.T) {
	svc := newTestService(t, Options{Classes: true})
	v, err := view.New([]byte(`<pre><code class="language-go">package main</code></pre>`))
	require.NoError(t, err)

	require.NoError(t, svc.HighlightAll(context.Background(), v))
	first := v.String()
	require.NoError(t, svc.HighlightAll(context.Background(), v))

	assert.Equal(t, first, v.String())
	assert.Equal(t, int64(2), svc.Count())
	assert.Equal(t, int64(1), svc.Blocks())
}

func TestHighlightAllCancelled(t *testing.T) {
	svc := newTestService(t, Options{})
	v, err := view.New([]byte(`<pre><code class="language-go">package main</code></pre>`))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = svc.HighlightAll(ctx, v)
	assert.True(t, errors.IsType(err, errors.ErrorTypeHighlight))
}

func TestHighlightCodeInlineStyles(t *testing.T) {
	svc := newTestService(t, Options{Style: "monokai", Classes: false})

	out, err := svc.HighlightCode("go", "package main")
	require.NoError(t, err)
	assert.Contains(t, out, `<span style="color:#f92672">package</span>`)
	assert.NotContains(t, out, "class=")
	assert.Equal(t, "monokai", svc.StyleName())
}

func TestHighlightAllInlineKeepsBackground(t *testing.T) {
	svc := newTestService(t, Options{Style: "monokai", Classes: false})
	v, err := view.New([]byte(`<pre><code class="language-go">package main</code></pre>`))
	require.NoError(t, err)

	require.NoError(t, svc.HighlightAll(context.Background(), v))

	assert.Contains(t, v.String(), `<pre style="color: #f8f8f2; background-color: #272822">`)

	t.Run("classes leave the pre alone", func(t *testing.T) {
		svc := newTestService(t, Options{Style: "monokai", Classes: true})
		v, err := view.New([]byte(`<pre><code class="language-go">package main</code></pre>`))
		require.NoError(t, err)

		require.NoError(t, svc.HighlightAll(context.Background(), v))
		assert.Contains(t, v.String(), `<pre><code`)
	})
}

func TestStylesheet(t *testing.T) {
	svc := newTestService(t, Options{Style: "github", Classes: true})

	css, err := svc.Stylesheet()
	require.NoError(t, err)
	assert.Contains(t, css, ".chroma")
}

func TestLexerAliases(t *testing.T) {
	assert.Equal(t, "TypeScript", lexerFor("ts").Config().Name)
	assert.Equal(t, "Bash", lexerFor("sh").Config().Name)
	assert.Equal(t, "plaintext", lexerFor("").Config().Name)
}
