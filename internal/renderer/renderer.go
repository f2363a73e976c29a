// Package renderer hosts documentation pages for a single request.
//
// Mounting a page follows the lifecycle every page relies on: a fresh instance
// is created through its factory, initialized, rendered into a view, and then the
// stable-render hook is fired a configurable number of times, the way a
// change-detection cycle settles more than once after a mount. Pages are
// required to tolerate any number of stable checks.
package renderer

import (
	"bytes"
	"context"
	stderrors "errors"
	"time"

	"github.com/conneroisu/bifrostdocs/internal/errors"
	"github.com/conneroisu/bifrostdocs/internal/logging"
	"github.com/conneroisu/bifrostdocs/internal/pages"
	"github.com/conneroisu/bifrostdocs/internal/view"
)

// DefaultStableChecks is used when a renderer is built with a non-positive count.
const DefaultStableChecks = 2

// PageRenderer mounts pages and returns their final view.
type PageRenderer struct {
	deps         pages.Deps
	stableChecks int
	logger       logging.Logger
}

// Mounted is the result of mounting one page.
type Mounted struct {
	Page     pages.Page
	View     *view.View
	Checks   int
	Duration time.Duration
}

// NewPageRenderer creates a renderer handing deps to every page it mounts.
func NewPageRenderer(deps pages.Deps, stableChecks int, logger logging.Logger) *PageRenderer {
	if stableChecks < 1 {
		stableChecks = DefaultStableChecks
	}
	return &PageRenderer{
		deps:         deps,
		stableChecks: stableChecks,
		logger:       logger.WithComponent("renderer"),
	}
}

// StableChecks returns how many times the stable-render hook fires per mount.
func (r *PageRenderer) StableChecks() int {
	return r.stableChecks
}

// Mount creates, initializes, renders and settles a page.
//
// The page's section is activated by Initialize, before rendering. A render
// that fails afterwards leaves the section active.
func (r *PageRenderer) Mount(ctx context.Context, factory pages.Factory) (*Mounted, error) {
	if factory == nil {
		return nil, errors.NewInternalError(errors.CodeRenderFailed, "no page factory", nil)
	}
	op := logging.StartOperation(r.logger, "mount")

	page := factory(r.deps)
	page.Initialize(ctx)

	v, err := r.settle(ctx, page)
	if err != nil {
		op.EndWithError(ctx, err, "page", page.Name())
		return nil, err
	}

	mounted := &Mounted{
		Page:   page,
		View:   v,
		Checks: r.stableChecks,
	}
	mounted.Duration = op.End(ctx,
		"page", page.Name(),
		"state", page.State().String(),
		"checks", r.stableChecks)
	return mounted, nil
}

// settle renders an initialized page and fires its stable-render hook.
func (r *PageRenderer) settle(ctx context.Context, page pages.Page) (*view.View, error) {
	var buf bytes.Buffer
	if err := page.Render(ctx).Render(ctx, &buf); err != nil {
		return nil, renderError(err, page.Name())
	}

	v, err := view.New(buf.Bytes())
	if err != nil {
		return nil, errors.WrapRender(err, errors.CodeRenderFailed, "parsing rendered page", page.Name())
	}

	for i := 0; i < r.stableChecks; i++ {
		if err := page.AfterRenderStable(ctx, v); err != nil {
			return nil, errors.WrapHighlight(err, "highlighting page", page.Name())
		}
	}
	return v, nil
}

// RenderHTML mounts a page and returns its highlighted markup.
func (r *PageRenderer) RenderHTML(ctx context.Context, factory pages.Factory) (string, error) {
	mounted, err := r.Mount(ctx, factory)
	if err != nil {
		return "", err
	}
	return mounted.View.String(), nil
}

func renderError(err error, page string) error {
	var de *errors.DocsError
	if stderrors.As(err, &de) {
		if de.Page == "" {
			de.Page = page
		}
		return de
	}
	return errors.WrapRender(err, errors.CodeRenderFailed, "rendering page", page)
}
