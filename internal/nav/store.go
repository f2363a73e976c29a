// Package nav holds the process-wide navigation state: which documentation
// sections are currently active. Pages mark their section active when they
// mount; the layout and live websocket clients read it to highlight the nav.
//
// Sections are independent flags. Marking one section active does not clear the
// others and nothing resets automatically; Reset exists for tests and for the
// server to call explicitly.
package nav

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/maruel/ksid"

	"github.com/conneroisu/bifrostdocs/internal/lifecycle"
)

// Well-known documentation sections.
const (
	SectionBifrostTsDocs = "bifrost-ts-docs"
	SectionSewingMachine = "sewing-machine"
)

// Event is emitted whenever a section's active flag is set.
type Event struct {
	ID        string    `json:"id" msgpack:"id"`
	Section   string    `json:"section" msgpack:"section"`
	Active    bool      `json:"active" msgpack:"active"`
	Changed   bool      `json:"changed" msgpack:"changed"`
	Timestamp time.Time `json:"timestamp" msgpack:"timestamp"`
}

// SectionState is one entry of a snapshot.
type SectionState struct {
	Section   string    `json:"section" yaml:"section"`
	Active    bool      `json:"active" yaml:"active"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
	Marks     int       `json:"marks" yaml:"marks"`
}

// Store is the navigation state shared by every page.
type Store struct {
	sections map[string]*SectionState
	watchers []chan Event
	mutex    sync.RWMutex
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		sections: make(map[string]*SectionState),
		watchers: make([]chan Event, 0),
	}
}

// SetActive sets the active flag of section and notifies watchers.
func (s *Store) SetActive(ctx context.Context, section string, active bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	state, ok := s.sections[section]
	if !ok {
		state = &SectionState{Section: section}
		s.sections[section] = state
	}
	changed := !ok || state.Active != active
	state.Active = active
	state.UpdatedAt = time.Now()
	if active {
		state.Marks++
	}

	event := Event{
		ID:        ksid.NewID().String(),
		Section:   section,
		Active:    active,
		Changed:   changed,
		Timestamp: state.UpdatedAt,
	}
	for _, watcher := range s.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}

// IsActive reports whether section is active.
func (s *Store) IsActive(section string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	state, ok := s.sections[section]
	return ok && state.Active
}

// Marks returns how many times section was marked active.
func (s *Store) Marks(section string) int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if state, ok := s.sections[section]; ok {
		return state.Marks
	}
	return 0
}

// Snapshot returns every known section sorted by name.
func (s *Store) Snapshot() []SectionState {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := make([]SectionState, 0, len(s.sections))
	for _, state := range s.sections {
		result = append(result, *state)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Section < result[j].Section
	})
	return result
}

// Reset forgets every section. Watchers are kept.
func (s *Store) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.sections = make(map[string]*SectionState)
}

// Watch returns a channel that receives navigation events
func (s *Store) Watch() <-chan Event {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	ch := make(chan Event, 100)
	s.watchers = append(s.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it
func (s *Store) UnWatch(ch <-chan Event) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i, watcher := range s.watchers {
		if watcher == ch {
			close(watcher)
			s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
			break
		}
	}
}

// Section binds the store to one section so pages can depend on
// lifecycle.ActiveSetter only.
func Section(store *Store, name string) lifecycle.ActiveSetter {
	return lifecycle.ActiveSetterFunc(func(ctx context.Context, active bool) {
		store.SetActive(ctx, name, active)
	})
}
