// Package session keeps all transient per-user conversation state in one
// process-wide map: the active wizard step, tracked bot messages and the
// last-activity stamp used by the inactivity sweep. Nothing here is
// persisted; a restart resets every user to idle.
package session

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"telegram-plan-bot/internal/models"
)

// maxTrackedMessages caps how many of the bot's own message ids are kept
// per user for later cleanup.
const maxTrackedMessages = 10

// State is one user's session entry. Its mutex serializes event handling
// for that user; different users proceed concurrently.
type State struct {
	mu       sync.Mutex
	Session  models.Session
	messages []int
}

func (s *State) Lock()   { s.mu.Lock() }
func (s *State) Unlock() { s.mu.Unlock() }

// Touch bumps the activity stamp. Callers hold the state lock.
func (s *State) Touch() {
	s.Session.LastActivity = time.Now()
}

// TrackMessage remembers a bot message id, dropping the oldest beyond the cap.
func (s *State) TrackMessage(messageID int) {
	s.messages = append(s.messages, messageID)
	if len(s.messages) > maxTrackedMessages {
		s.messages = s.messages[len(s.messages)-maxTrackedMessages:]
	}
}

// DrainMessages returns tracked message ids except keepID and forgets the
// returned ones. keepID 0 drains everything.
func (s *State) DrainMessages(keepID int) []int {
	var drained []int
	var kept []int
	for _, id := range s.messages {
		if id == keepID {
			kept = append(kept, id)
			continue
		}
		drained = append(drained, id)
	}
	s.messages = kept
	return drained
}

type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*State
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[int64]*State)}
}

// Exists reports whether the user already has a session. A missing entry
// means the next event starts a new session.
func (m *Manager) Exists(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[userID]
	return ok
}

// Obtain returns the user's session state, creating an idle one on first
// contact. The returned state is not locked.
func (m *Manager) Obtain(userID int64) *State {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.sessions[userID]
	if !ok {
		st = &State{Session: models.Session{
			UserID:       userID,
			SessionID:    uuid.NewString(),
			Step:         models.StepIdle,
			LastActivity: time.Now(),
		}}
		m.sessions[userID] = st
		log.Printf("🆕 Нова сесія %s для користувача %d", st.Session.SessionID, userID)
	}
	return st
}

func (m *Manager) Remove(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep evicts sessions inactive for longer than threshold and returns how
// many were dropped. An evicted user's next message simply starts a new
// session.
func (m *Manager) Sweep(threshold time.Duration) int {
	cutoff := time.Now().Add(-threshold)

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, st := range m.sessions {
		st.Lock()
		stale := st.Session.LastActivity.Before(cutoff)
		st.Unlock()
		if stale {
			delete(m.sessions, id)
			evicted++
			log.Printf("🧹 Сесія %s користувача %d завершена через неактивність", st.Session.SessionID, id)
		}
	}
	return evicted
}
