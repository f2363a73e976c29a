// Package lifecycle implements the two-phase lifecycle every documentation page
// shares: initialize, then highlight exactly once after the view is stable.
//
// The behavior lives in HighlightOnce, which pages compose (embed) rather than
// inherit. The hosting renderer is required to call Initialize once when it
// mounts a page and AfterRenderStable every time the view settles; the
// highlighter runs on the first stable check only, however often the hook fires.
//
// A HighlightOnce belongs to a single mount and is driven by one goroutine, the
// same way a page instance is owned by the render of one request.
package lifecycle

import (
	"context"

	"github.com/conneroisu/bifrostdocs/internal/view"
)

// Highlighter scans a rendered view and applies syntax coloring.
type Highlighter interface {
	HighlightAll(ctx context.Context, v *view.View) error
}

// HighlighterFunc adapts a function to Highlighter.
type HighlighterFunc func(ctx context.Context, v *view.View) error

// HighlightAll calls f.
func (f HighlighterFunc) HighlightAll(ctx context.Context, v *view.View) error {
	return f(ctx, v)
}

// ActiveSetter marks the documentation section a page belongs to as active.
type ActiveSetter interface {
	SetActive(ctx context.Context, active bool)
}

// ActiveSetterFunc adapts a function to ActiveSetter.
type ActiveSetterFunc func(ctx context.Context, active bool)

// SetActive calls f.
func (f ActiveSetterFunc) SetActive(ctx context.Context, active bool) {
	f(ctx, active)
}

// State is the mount state of a page.
type State int

const (
	StateUnmounted State = iota
	StateMountedUnhighlighted
	StateMountedHighlighted
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateUnmounted:
		return "unmounted"
	case StateMountedUnhighlighted:
		return "mounted-unhighlighted"
	case StateMountedHighlighted:
		return "mounted-highlighted"
	default:
		return "unknown"
	}
}

// HighlightOnce is the highlight-once behavior composed into every page.
type HighlightOnce struct {
	name        string
	highlighted bool
	mounted     bool

	highlighter Highlighter
	section     ActiveSetter
}

// NewHighlightOnce creates the behavior for the page called name.
func NewHighlightOnce(name string, highlighter Highlighter, section ActiveSetter) *HighlightOnce {
	return &HighlightOnce{
		name:        name,
		highlighter: highlighter,
		section:     section,
	}
}

// Name returns the page identifier.
func (h *HighlightOnce) Name() string {
	return h.name
}

// Highlighted reports whether the highlighter already ran for this mount.
func (h *HighlightOnce) Highlighted() bool {
	return h.highlighted
}

// State returns the current mount state.
func (h *HighlightOnce) State() State {
	switch {
	case !h.mounted:
		return StateUnmounted
	case h.highlighted:
		return StateMountedHighlighted
	default:
		return StateMountedUnhighlighted
	}
}

// Initialize mounts the page and marks its section active. Calling it on an
// already mounted page does nothing.
func (h *HighlightOnce) Initialize(ctx context.Context) {
	if h.mounted {
		return
	}
	h.mounted = true
	if h.section != nil {
		h.section.SetActive(ctx, true)
	}
}

// AfterRenderStable runs the highlighter over v the first time it is called on a
// mounted page and is a no-op afterwards. The flag flips even when the
// highlighter fails, so a failing scan is reported once and never retried on the
// same mount.
func (h *HighlightOnce) AfterRenderStable(ctx context.Context, v *view.View) error {
	if !h.mounted || h.highlighted {
		return nil
	}
	h.highlighted = true
	if h.highlighter == nil {
		return nil
	}
	return h.highlighter.HighlightAll(ctx, v)
}
