package game

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Store holds sessions in memory. Mutations run under the store lock via
// UpdateSession, which serializes writers the way the session model expects.
type Store struct {
	mu       sync.Mutex
	nextID   int
	sessions map[string]*Session
}

type SessionSummary struct {
	ID       string
	Title    string
	Type     GameType
	Players  int
	Rounds   int
	IsActive bool
}

func NewStore() *Store {
	return &Store{
		nextID:   1,
		sessions: make(map[string]*Session),
	}
}

func (s *Store) CreateSession(title string, players []Player, cfg GameConfig, gameType GameType, groupID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("session-%d", s.nextID)
	session, err := NewSession(id, title, players, cfg, gameType, groupID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.nextID++
	s.sessions[id] = session
	return session, nil
}

func (s *Store) GetSession(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	return session, ok
}

func (s *Store) UpdateSession(id string, update func(session *Session) error) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, errors.New("session not found")
	}
	if err := update(session); err != nil {
		return nil, err
	}
	return session, nil
}

// UpdateSessionID renames a session, typically after persistence assigns
// its durable identifier.
func (s *Store) UpdateSessionID(session *Session, newID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session.ID == newID {
		return
	}
	delete(s.sessions, session.ID)
	session.ID = newID
	s.sessions[newID] = session
}

// RestoreSession places a session loaded from persistence back into the
// store, bumping the id counter past it.
func (s *Store) RestoreSession(session *Session) error {
	if session == nil {
		return errors.New("session is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; ok {
		return errors.New("session already loaded")
	}
	s.sessions[session.ID] = session
	if id := sessionSortKey(session.ID); id >= s.nextID {
		s.nextID = id + 1
	}
	return nil
}

func (s *Store) ListSummaries() []SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]SessionSummary, 0, len(s.sessions))
	for _, session := range s.sessions {
		list = append(list, SessionSummary{
			ID:       session.ID,
			Title:    session.Title,
			Type:     session.Type,
			Players:  len(session.Players),
			Rounds:   len(session.Rounds),
			IsActive: session.IsActive,
		})
	}
	sortSummaries(list)
	return list
}

// ListEnded returns ended sessions for history and stats, oldest first.
func (s *Store) ListEnded() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Session, 0)
	for _, session := range s.sessions {
		if !session.IsActive {
			list = append(list, session)
		}
	}
	sortSessions(list)
	return list
}

func sortSummaries(list []SessionSummary) {
	sort.Slice(list, func(i, j int) bool {
		return sessionSortKey(list[i].ID) < sessionSortKey(list[j].ID)
	})
}

func sortSessions(list []*Session) {
	sort.Slice(list, func(i, j int) bool {
		return sessionSortKey(list[i].ID) < sessionSortKey(list[j].ID)
	})
}

func sessionSortKey(id string) int {
	parts := strings.Split(id, "-")
	if len(parts) < 2 {
		return 0
	}
	value, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0
	}
	return value
}
