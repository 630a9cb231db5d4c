// Package memory holds per-session state: the fact store with its
// append-only history, the bounded turn history, and the session manager.
package memory

import (
	"fmt"
	"sort"
	"time"

	"github.com/sahai-labs/sahai-agent/agent/conflict"
	"github.com/sahai-labs/sahai-agent/agent/contract"
)

// PendingConflict is an unresolved contradiction awaiting the user's
// choice. At most one per field.
type PendingConflict struct {
	Conflict  contract.Conflict
	TurnIndex int
}

// FactStore is the single source of truth for a session's structured
// facts. Every mutation goes through Put; nothing else holds a second
// copy of active facts.
type FactStore struct {
	detector *conflict.Detector

	active  map[contract.FieldName]*contract.Fact
	history map[contract.FieldName][]contract.HistoryEntry
	pending map[contract.FieldName]*PendingConflict

	now func() time.Time
}

func NewFactStore(detector *conflict.Detector) *FactStore {
	if detector == nil {
		detector = conflict.NewDetector()
	}
	return &FactStore{
		detector: detector,
		active:   make(map[contract.FieldName]*contract.Fact, 8),
		history:  make(map[contract.FieldName][]contract.HistoryEntry, 8),
		pending:  make(map[contract.FieldName]*PendingConflict, 2),
		now:      time.Now,
	}
}

// Get returns the active fact for a field, if any.
func (s *FactStore) Get(field contract.FieldName) (contract.Fact, bool) {
	f, ok := s.active[field]
	if !ok {
		return contract.Fact{}, false
	}
	return *f, true
}

// History returns the ordered, append-only value history for a field.
func (s *FactStore) History(field contract.FieldName) []contract.HistoryEntry {
	entries := s.history[field]
	out := make([]contract.HistoryEntry, len(entries))
	copy(out, entries)
	return out
}

// Snapshot returns all active fact values keyed by field.
func (s *FactStore) Snapshot() map[contract.FieldName]any {
	out := make(map[contract.FieldName]any, len(s.active))
	for field, fact := range s.active {
		out[field] = fact.Value
	}
	return out
}

// Statuses returns the confirmation state of every active fact.
func (s *FactStore) Statuses() map[contract.FieldName]contract.FactStatus {
	out := make(map[contract.FieldName]contract.FactStatus, len(s.active))
	for field, fact := range s.active {
		out[field] = fact.Status
	}
	return out
}

// Put records a candidate value for a field. The value is normalized and
// checked against the active fact before any mutation:
//
//   - no active value: accepted as unconfirmed, appended to history
//   - equal to the active value: confirmed duplicate, active fact promoted
//     to confirmed, history untouched (restating is idempotent)
//   - different from the active value: contradiction; the active fact is
//     marked pending_confirmation, the incoming value is appended to
//     history and parked until Resolve
func (s *FactStore) Put(field contract.FieldName, value any, turnIndex int) (contract.PutOutcome, *contract.Conflict, error) {
	normalized, err := conflict.Normalize(field, value)
	if err != nil {
		return contract.PutRejected, nil, err
	}

	active := s.active[field]
	outcome, c := s.detector.Check(field, normalized, active)
	if outcome == conflict.NoConflict {
		if active != nil {
			// Same value restated: treat as confirmation.
			active.Status = contract.FactConfirmed
			return contract.PutConfirmedDupe, nil, nil
		}
		now := s.now().UTC()
		s.active[field] = &contract.Fact{
			Field:      field,
			Value:      normalized,
			TurnIndex:  turnIndex,
			Status:     contract.FactUnconfirmed,
			RecordedAt: now,
		}
		s.appendHistory(field, normalized, turnIndex, now)
		return contract.PutAccepted, nil, nil
	}

	// Conflict: keep the prior value authoritative but flag it, and record
	// what the user just said.
	active.Status = contract.FactPending
	s.appendHistory(field, normalized, turnIndex, s.now().UTC())
	s.pending[field] = &PendingConflict{Conflict: *c, TurnIndex: turnIndex}
	return contract.PutContradiction, c, nil
}

// Resolve settles a pending contradiction. The chosen value becomes the
// confirmed active fact; the other is superseded (retained in history).
func (s *FactStore) Resolve(field contract.FieldName, useIncoming bool, turnIndex int) error {
	pending, ok := s.pending[field]
	if !ok {
		return fmt.Errorf("%w: no pending contradiction for %s", contract.ErrValidation, field)
	}
	active := s.active[field]
	if active == nil {
		return fmt.Errorf("%w: pending contradiction without active fact for %s", contract.ErrInternal, field)
	}

	chosen := pending.Conflict.Previous
	if useIncoming {
		chosen = pending.Conflict.Incoming
	}

	active.Status = contract.FactSuperseded
	s.active[field] = &contract.Fact{
		Field:      field,
		Value:      chosen,
		TurnIndex:  turnIndex,
		Status:     contract.FactConfirmed,
		RecordedAt: s.now().UTC(),
	}
	delete(s.pending, field)
	return nil
}

// Confirm marks an active unconfirmed fact as explicitly confirmed.
func (s *FactStore) Confirm(field contract.FieldName) bool {
	active, ok := s.active[field]
	if !ok || active.Status == contract.FactPending {
		return false
	}
	active.Status = contract.FactConfirmed
	return true
}

// PendingConflicts returns unresolved contradictions, oldest turn first.
func (s *FactStore) PendingConflicts() []PendingConflict {
	out := make([]PendingConflict, 0, len(s.pending))
	for _, p := range s.pending {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TurnIndex < out[j].TurnIndex })
	return out
}

// Has reports whether a field has an active value.
func (s *FactStore) Has(field contract.FieldName) bool {
	_, ok := s.active[field]
	return ok
}

func (s *FactStore) appendHistory(field contract.FieldName, value any, turnIndex int, at time.Time) {
	s.history[field] = append(s.history[field], contract.HistoryEntry{
		Field:      field,
		Value:      value,
		TurnIndex:  turnIndex,
		RecordedAt: at,
	})
}
