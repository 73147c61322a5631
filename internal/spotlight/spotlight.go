// Package spotlight implements a command palette store: a searchable list of
// actions that can be opened, filtered, navigated and triggered by any number
// of independent callers.
package spotlight

import (
	"strings"
	"sync"

	"github.com/alexisbeaulieu97/crosshair/internal/logger"
	"github.com/alexisbeaulieu97/crosshair/internal/store"
)

// Action is a spotlight entry.
type Action struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Handler     func()   `json:"-"`
}

// Matches reports whether the action matches a case-insensitive query.
func (a Action) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(a.Label), q) || strings.Contains(strings.ToLower(a.Description), q) {
		return true
	}
	for _, kw := range a.Keywords {
		if strings.Contains(strings.ToLower(kw), q) {
			return true
		}
	}
	return false
}

// State is a snapshot of the spotlight.
type State struct {
	Open  bool   `json:"open"`
	Query string `json:"query"`
	// Selected indexes into Results, or is -1 when nothing matches.
	Selected int      `json:"selected"`
	Results  []Action `json:"results"`
}

// Current returns the selected action.
func (s State) Current() (Action, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Results) {
		return Action{}, false
	}
	return s.Results[s.Selected], true
}

// Store owns the spotlight state.
type Store struct {
	mu      sync.Mutex
	open    bool
	query   string
	cursor  int
	actions []Action
	log     *logger.Logger

	hub store.Hub[State]
}

// New creates a closed spotlight with the given actions.
func New(log *logger.Logger, actions ...Action) *Store {
	return &Store{actions: append([]Action(nil), actions...), log: log}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Subscribe registers a listener called after every change.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	return s.hub.Subscribe(fn)
}

// Open shows the spotlight with an empty query.
func (s *Store) Open() {
	s.mutate(func() {
		s.open = true
		s.query = ""
		s.cursor = 0
	})
}

// Close hides the spotlight.
func (s *Store) Close() {
	s.mutate(func() {
		s.open = false
	})
}

// Toggle opens a closed spotlight and closes an open one.
func (s *Store) Toggle() {
	s.mu.Lock()
	open := s.open
	s.mu.Unlock()

	if open {
		s.Close()
		return
	}
	s.Open()
}

// SetQuery filters the actions and moves the selection to the first result.
func (s *Store) SetQuery(query string) {
	s.mutate(func() {
		s.query = query
		s.cursor = 0
	})
}

// SetActions replaces the action list.
func (s *Store) SetActions(actions []Action) {
	s.mutate(func() {
		s.actions = append([]Action(nil), actions...)
		s.cursor = 0
	})
}

// Filtered returns the actions matching the current query.
func (s *Store) Filtered() []Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filteredLocked()
}

// Next moves the selection down, wrapping to the top.
func (s *Store) Next() {
	s.mutate(func() {
		n := len(s.filteredLocked())
		if n == 0 {
			return
		}
		s.cursor++
		if s.cursor >= n {
			s.cursor = 0
		}
	})
}

// Prev moves the selection up, wrapping to the bottom.
func (s *Store) Prev() {
	s.mutate(func() {
		n := len(s.filteredLocked())
		if n == 0 {
			return
		}
		s.cursor--
		if s.cursor < 0 {
			s.cursor = n - 1
		}
	})
}

// Trigger runs the selected action's handler and closes the spotlight. It
// reports false when nothing is selected.
func (s *Store) Trigger() (Action, bool) {
	s.mu.Lock()
	action, ok := s.stateLocked().Current()
	if ok {
		s.open = false
	}
	out := s.stateLocked()
	s.mu.Unlock()

	if !ok {
		return Action{}, false
	}

	s.log.Debug("spotlight action triggered", "action_id", action.ID)
	if action.Handler != nil {
		action.Handler()
	}
	s.hub.Publish(out)
	return action, true
}

func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	fn()
	out := s.stateLocked()
	s.mu.Unlock()

	s.hub.Publish(out)
}

func (s *Store) filteredLocked() []Action {
	out := make([]Action, 0, len(s.actions))
	for _, a := range s.actions {
		if a.Matches(s.query) {
			out = append(out, a)
		}
	}
	return out
}

func (s *Store) stateLocked() State {
	results := s.filteredLocked()
	selected := s.cursor
	if len(results) == 0 {
		selected = -1
	} else if selected >= len(results) {
		selected = len(results) - 1
	}
	return State{Open: s.open, Query: s.query, Selected: selected, Results: results}
}
