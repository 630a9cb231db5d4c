package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sahai-labs/sahai-agent/agent/conflict"
	"github.com/sahai-labs/sahai-agent/agent/contract"
)

// Manager owns all live sessions. The map lock covers only map access;
// each session carries its own lock, so independent sessions never
// contend during turn processing.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	detector    *conflict.Detector
	idleTimeout time.Duration
	now         func() time.Time
}

// ManagerOption customizes a Manager.
type ManagerOption func(*Manager)

func WithIdleTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.idleTimeout = d
		}
	}
}

func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func NewManager(detector *conflict.Detector, opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions:    make(map[string]*Session, 16),
		detector:    detector,
		idleTimeout: DefaultIdleTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// GetOrCreate returns the live session for id, or creates one. An empty id
// creates a session with a fresh identifier. An expired session is
// replaced: its facts are gone, as documented — no durability guarantee.
func (m *Manager) GetOrCreate(id string) *Session {
	id = strings.TrimSpace(id)

	m.mu.RLock()
	if sess, ok := m.sessions[id]; ok && !sess.Expired(m.idleTimeout) {
		m.mu.RUnlock()
		return sess
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[id]; ok && !sess.Expired(m.idleTimeout) {
		return sess
	}
	sess := NewSession(id, m.detector, m.now)
	m.sessions[sess.ID] = sess
	return sess
}

// Get returns the live session for id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: session %s not found", contract.ErrSessionExpired, id)
	}
	if sess.Expired(m.idleTimeout) {
		return nil, fmt.Errorf("%w: session %s", contract.ErrSessionExpired, id)
	}
	return sess, nil
}

// Remove drops a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of retained sessions, expired or not.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// SweepExpired evicts idle sessions and returns how many were removed.
func (m *Manager) SweepExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, sess := range m.sessions {
		if sess.Expired(m.idleTimeout) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs expiry sweeps on interval until ctx is done. Sweeps
// run independently of request handling.
func (m *Manager) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.SweepExpired(); n > 0 {
					log.Debug().Int("removed", n).Msg("swept expired sessions")
				}
			}
		}
	}()
}
