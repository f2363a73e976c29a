// Package registry keeps the metadata of every declared documentation page and
// notifies watchers when pages are added, updated or removed.
package registry

import (
	"sort"
	"sync"
	"time"
)

// PageRegistry manages all declared pages
type PageRegistry struct {
	pages    map[string]*PageInfo
	mutex    sync.RWMutex
	watchers []chan PageEvent
}

// PageInfo holds metadata about a documentation page
type PageInfo struct {
	Name     string    `json:"name" yaml:"name"`
	Title    string    `json:"title" yaml:"title"`
	Section  string    `json:"section" yaml:"section"`
	Route    string    `json:"route" yaml:"route"`
	Module   string    `json:"module" yaml:"module"`
	Match    string    `json:"match" yaml:"match"`
	Samples  []string  `json:"samples,omitempty" yaml:"samples,omitempty"`
	LastMod  time.Time `json:"last_modified" yaml:"last_modified"`
	Revision int       `json:"revision" yaml:"revision"`
}

// PageEvent represents a change in the page registry
type PageEvent struct {
	Type      EventType `json:"type" msgpack:"type"`
	Page      *PageInfo `json:"page" msgpack:"page"`
	Timestamp time.Time `json:"timestamp" msgpack:"timestamp"`
}

// EventType represents the type of page event
type EventType int

const (
	EventTypeAdded EventType = iota
	EventTypeUpdated
	EventTypeRemoved
)

// String returns the string representation of the event type
func (t EventType) String() string {
	switch t {
	case EventTypeAdded:
		return "added"
	case EventTypeUpdated:
		return "updated"
	case EventTypeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// MarshalText lets events encode the type by name.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// NewPageRegistry creates a new page registry
func NewPageRegistry() *PageRegistry {
	return &PageRegistry{
		pages:    make(map[string]*PageInfo),
		watchers: make([]chan PageEvent, 0),
	}
}

// Register adds or updates a page in the registry
func (r *PageRegistry) Register(page *PageInfo) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	eventType := EventTypeAdded
	if existing, exists := r.pages[page.Name]; exists {
		eventType = EventTypeUpdated
		page.Revision = existing.Revision + 1
	}
	if page.LastMod.IsZero() {
		page.LastMod = time.Now()
	}

	r.pages[page.Name] = page
	r.notify(PageEvent{Type: eventType, Page: page, Timestamp: time.Now()})
}

// Touch marks every page rendering sample as updated and returns their names.
func (r *PageRegistry) Touch(sample string) []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var touched []string
	now := time.Now()
	for _, page := range r.pages {
		for _, s := range page.Samples {
			if s != sample {
				continue
			}
			page.LastMod = now
			page.Revision++
			touched = append(touched, page.Name)
			r.notify(PageEvent{Type: EventTypeUpdated, Page: page, Timestamp: now})
			break
		}
	}
	sort.Strings(touched)
	return touched
}

// Get retrieves a page by name
func (r *PageRegistry) Get(name string) (*PageInfo, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	page, exists := r.pages[name]
	return page, exists
}

// GetAll returns all registered pages sorted by route
func (r *PageRegistry) GetAll() []*PageInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*PageInfo, 0, len(r.pages))
	for _, page := range r.pages {
		result = append(result, page)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Route == result[j].Route {
			return result[i].Name < result[j].Name
		}
		return result[i].Route < result[j].Route
	})
	return result
}

// BySection returns the pages of section sorted by route.
func (r *PageRegistry) BySection(section string) []*PageInfo {
	var result []*PageInfo
	for _, page := range r.GetAll() {
		if page.Section == section {
			result = append(result, page)
		}
	}
	return result
}

// Remove removes a page from the registry
func (r *PageRegistry) Remove(name string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	page, exists := r.pages[name]
	if !exists {
		return
	}

	delete(r.pages, name)
	r.notify(PageEvent{Type: EventTypeRemoved, Page: page, Timestamp: time.Now()})
}

// notify must be called with the mutex held.
func (r *PageRegistry) notify(event PageEvent) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}

// Watch returns a channel that receives page events
func (r *PageRegistry) Watch() <-chan PageEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan PageEvent, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it
func (r *PageRegistry) UnWatch(ch <-chan PageEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// Count returns the number of registered pages
func (r *PageRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.pages)
}
