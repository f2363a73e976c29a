package errors

import (
	"errors"
	"fmt"
	"html"
	"html/template"
	"strings"
	"sync"
	"time"
)

// RenderFailure records a page that failed to mount or highlight.
type RenderFailure struct {
	Page      string    `json:"page"`
	Route     string    `json:"route"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorCollector keeps the most recent render failures for the development overlay.
type ErrorCollector struct {
	failures []RenderFailure
	limit    int
	mutex    sync.RWMutex
}

// NewErrorCollector creates a collector holding at most limit failures.
func NewErrorCollector(limit int) *ErrorCollector {
	if limit <= 0 {
		limit = 50
	}
	return &ErrorCollector{
		failures: make([]RenderFailure, 0),
		limit:    limit,
	}
}

// Record adds a failure, dropping the oldest one once the limit is reached.
func (ec *ErrorCollector) Record(route string, err error) {
	if err == nil {
		return
	}
	failure := RenderFailure{
		Route:     route,
		Message:   err.Error(),
		Timestamp: time.Now(),
	}
	var de *DocsError
	if errors.As(err, &de) {
		failure.Page = de.Page
	}

	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	if len(ec.failures) >= ec.limit {
		ec.failures = ec.failures[1:]
	}
	ec.failures = append(ec.failures, failure)
}

// Failures returns a copy of the collected failures, oldest first.
func (ec *ErrorCollector) Failures() []RenderFailure {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	result := make([]RenderFailure, len(ec.failures))
	copy(result, ec.failures)
	return result
}

// HasErrors returns true if there are any failures
func (ec *ErrorCollector) HasErrors() bool {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.failures) > 0
}

// Clear clears all failures
func (ec *ErrorCollector) Clear() {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.failures = ec.failures[:0]
}

// ErrorOverlay generates HTML for the development error overlay. Every
// recorded value is escaped before it is written.
func (ec *ErrorCollector) ErrorOverlay() template.HTML {
	failures := ec.Failures()
	if len(failures) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<div id="docs-error-overlay" class="docs-error-overlay">`)
	sb.WriteString(`<h2>Render Errors</h2>`)
	for _, f := range failures {
		fmt.Fprintf(&sb, `<div class="docs-error"><div class="docs-error-route">/%s</div>`,
			html.EscapeString(strings.TrimPrefix(f.Route, "/")))
		if f.Page != "" {
			fmt.Fprintf(&sb, `<div class="docs-error-page">%s</div>`, html.EscapeString(f.Page))
		}
		fmt.Fprintf(&sb, `<pre>%s</pre><time>%s</time></div>`,
			html.EscapeString(f.Message), f.Timestamp.Format(time.TimeOnly))
	}
	sb.WriteString(`</div>`)
	return template.HTML(sb.String())
}
