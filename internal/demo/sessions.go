package demo

import (
	"sort"
	"sync"
	"time"

	"github.com/alexisbeaulieu97/crosshair/internal/chart"
	"github.com/alexisbeaulieu97/crosshair/internal/chart/interaction"
)

// Session is one chart with its own interaction context.
type Session struct {
	ID      string
	Chart   *chart.Chart
	Context *interaction.Context
	Created time.Time
}

// SessionInfo is the listing form of a session.
type SessionInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Series    int       `json:"series"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) info() SessionInfo {
	return SessionInfo{
		ID:        s.ID,
		Name:      s.Chart.Name,
		Series:    len(s.Chart.Series),
		CreatedAt: s.Created,
	}
}

// sessions is a concurrency-safe registry of sessions keyed by ID.
type sessions struct {
	mu   sync.RWMutex
	byID map[string]*Session
}

func newSessions() *sessions {
	return &sessions{byID: make(map[string]*Session)}
}

func (s *sessions) add(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[sess.ID] = sess
}

func (s *sessions) get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.byID[id]
	return sess, ok
}

// list returns sessions oldest first.
func (s *sessions) list() []SessionInfo {
	s.mu.RLock()
	out := make([]SessionInfo, 0, len(s.byID))
	for _, sess := range s.byID {
		out = append(out, sess.info())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
