package memory

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/sahai-labs/sahai-agent/agent/conflict"
	"github.com/sahai-labs/sahai-agent/agent/contract"
)

const (
	// maxTurnHistory bounds the retained turn history; older turns are
	// evicted FIFO.
	maxTurnHistory = 20

	// DefaultIdleTimeout is how long a session may sit idle before the
	// sweeper may evict it.
	DefaultIdleTimeout = 30 * time.Minute
)

// Turn is one user or assistant utterance inside a session.
type Turn struct {
	Role    string    `json:"role"` // "user" or "assistant"
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Session is one conversation. It owns its fact store and turn history.
// Turns for the same session are processed one at a time: the caller holds
// Lock for the whole turn, including any re-execute loop.
type Session struct {
	mu sync.Mutex

	ID        string
	CreatedAt time.Time

	// lastActivity holds unix nanos. The sweeper reads it without the
	// session lock, while Touch writes it under the lock, so it must be
	// atomic rather than mutex-guarded (the mutex is not reentrant).
	lastActivity atomic.Int64

	Facts *FactStore

	turns     []Turn
	turnIndex int

	// lowConfidenceStreak counts consecutive unintelligible turns; the
	// failure handler escalates its prompts along it. Reset on any
	// successful turn.
	lowConfidenceStreak int

	// currentScheme remembers the last scheme the user referred to, so a
	// follow-up like "what documents do I need" has a subject.
	currentScheme string

	now func() time.Time
}

func NewSession(id string, detector *conflict.Detector, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	if id == "" {
		id = uuid.NewString()
	}
	ts := now().UTC()
	s := &Session{
		ID:        id,
		CreatedAt: ts,
		Facts:     NewFactStore(detector),
		now:       now,
	}
	s.lastActivity.Store(ts.UnixNano())
	return s
}

// Lock serializes turn processing for this session.
func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Touch refreshes the last-activity timestamp.
func (s *Session) Touch() { s.lastActivity.Store(s.now().UTC().UnixNano()) }

// LastActivity returns the time of the most recent activity. Safe to call
// without the session lock.
func (s *Session) LastActivity() time.Time {
	return time.Unix(0, s.lastActivity.Load()).UTC()
}

// Expired reports whether the session has been idle longer than timeout.
// Safe to call without the session lock; the sweeper does.
func (s *Session) Expired(timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = DefaultIdleTimeout
	}
	return s.now().UTC().Sub(s.LastActivity()) > timeout
}

// NextTurnIndex advances and returns the index for the next user turn.
func (s *Session) NextTurnIndex() int {
	s.turnIndex++
	return s.turnIndex
}

// TurnIndex returns the index of the current turn.
func (s *Session) TurnIndex() int { return s.turnIndex }

// RecordTurn appends an utterance, evicting the oldest beyond the cap.
func (s *Session) RecordTurn(role, content string) {
	s.turns = append(s.turns, Turn{Role: role, Content: content, At: s.now().UTC()})
	if len(s.turns) > maxTurnHistory {
		s.turns = s.turns[len(s.turns)-maxTurnHistory:]
	}
	s.Touch()
}

// Turns returns a copy of the retained turn history.
func (s *Session) Turns() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// LowConfidenceStreak returns the count of consecutive unintelligible turns.
func (s *Session) LowConfidenceStreak() int { return s.lowConfidenceStreak }

// BumpLowConfidence increments and returns the streak.
func (s *Session) BumpLowConfidence() int {
	s.lowConfidenceStreak++
	return s.lowConfidenceStreak
}

// ResetLowConfidence clears the streak after a successful turn.
func (s *Session) ResetLowConfidence() { s.lowConfidenceStreak = 0 }

// CurrentScheme returns the scheme id the conversation is about, if known.
func (s *Session) CurrentScheme() string { return s.currentScheme }

// SetCurrentScheme remembers the scheme the user referred to.
func (s *Session) SetCurrentScheme(id string) {
	if id != "" {
		s.currentScheme = id
	}
}

// Dump is a read-only snapshot for operational introspection.
type Dump struct {
	SessionID    string                                     `json:"session_id"`
	CreatedAt    time.Time                                  `json:"created_at"`
	LastActivity time.Time                                  `json:"last_activity"`
	Facts        map[contract.FieldName]any                 `json:"facts"`
	Statuses     map[contract.FieldName]contract.FactStatus `json:"statuses"`
	Turns        []Turn                                     `json:"turns"`
}

// Snapshot builds a Dump. Caller must hold the session lock.
func (s *Session) Snapshot() Dump {
	return Dump{
		SessionID:    s.ID,
		CreatedAt:    s.CreatedAt,
		LastActivity: s.LastActivity(),
		Facts:        s.Facts.Snapshot(),
		Statuses:     s.Facts.Statuses(),
		Turns:        s.Turns(),
	}
}
