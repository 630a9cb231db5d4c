package memory

import (
	"errors"
	"testing"

	"github.com/sahai-labs/sahai-agent/agent/contract"
)

func TestPutAcceptsFirstValue(t *testing.T) {
	t.Parallel()

	s := NewFactStore(nil)
	outcome, c, err := s.Put(contract.FieldAge, "65", 1)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if outcome != contract.PutAccepted || c != nil {
		t.Fatalf("outcome = %s, conflict = %v", outcome, c)
	}

	fact, ok := s.Get(contract.FieldAge)
	if !ok {
		t.Fatal("no active fact")
	}
	if fact.Value != 65 || fact.Status != contract.FactUnconfirmed || fact.TurnIndex != 1 {
		t.Errorf("fact = %+v", fact)
	}
	if len(s.History(contract.FieldAge)) != 1 {
		t.Errorf("history = %+v", s.History(contract.FieldAge))
	}
}

func TestPutRestatementConfirms(t *testing.T) {
	t.Parallel()

	s := NewFactStore(nil)
	s.Put(contract.FieldAge, 65, 1)

	outcome, _, err := s.Put(contract.FieldAge, "65", 2)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if outcome != contract.PutConfirmedDupe {
		t.Fatalf("outcome = %s, want confirmed_duplicate", outcome)
	}
	fact, _ := s.Get(contract.FieldAge)
	if fact.Status != contract.FactConfirmed {
		t.Errorf("status = %s, want confirmed", fact.Status)
	}
	// Restating does not grow history.
	if len(s.History(contract.FieldAge)) != 1 {
		t.Errorf("history = %+v", s.History(contract.FieldAge))
	}
}

func TestPutIncomeWithinToleranceIsNotAContradiction(t *testing.T) {
	t.Parallel()

	s := NewFactStore(nil)
	s.Put(contract.FieldIncome, 200000, 1)

	outcome, _, err := s.Put(contract.FieldIncome, 201000, 2)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if outcome != contract.PutConfirmedDupe {
		t.Fatalf("outcome = %s, want confirmed_duplicate", outcome)
	}
}

func TestPutContradictionParksIncoming(t *testing.T) {
	t.Parallel()

	s := NewFactStore(nil)
	s.Put(contract.FieldAge, 30, 1)

	outcome, c, err := s.Put(contract.FieldAge, 65, 2)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if outcome != contract.PutContradiction || c == nil {
		t.Fatalf("outcome = %s, conflict = %v", outcome, c)
	}
	if c.Previous != 30 || c.Incoming != 65 {
		t.Errorf("conflict = %+v", c)
	}

	// Old value stays authoritative, flagged pending.
	fact, _ := s.Get(contract.FieldAge)
	if fact.Value != 30 || fact.Status != contract.FactPending {
		t.Errorf("active = %+v", fact)
	}
	// Both statements are in history.
	if got := len(s.History(contract.FieldAge)); got != 2 {
		t.Errorf("history entries = %d, want 2", got)
	}
	pending := s.PendingConflicts()
	if len(pending) != 1 || pending[0].Conflict.Field != contract.FieldAge {
		t.Errorf("pending = %+v", pending)
	}
}

func TestResolveIncomingWins(t *testing.T) {
	t.Parallel()

	s := NewFactStore(nil)
	s.Put(contract.FieldAge, 30, 1)
	s.Put(contract.FieldAge, 65, 2)

	if err := s.Resolve(contract.FieldAge, true, 3); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	fact, _ := s.Get(contract.FieldAge)
	if fact.Value != 65 || fact.Status != contract.FactConfirmed {
		t.Errorf("active = %+v", fact)
	}
	if len(s.PendingConflicts()) != 0 {
		t.Error("pending conflict not cleared")
	}
	// History still shows the full story.
	if got := len(s.History(contract.FieldAge)); got != 2 {
		t.Errorf("history entries = %d, want 2", got)
	}
}

func TestResolvePreviousWins(t *testing.T) {
	t.Parallel()

	s := NewFactStore(nil)
	s.Put(contract.FieldAge, 30, 1)
	s.Put(contract.FieldAge, 65, 2)

	if err := s.Resolve(contract.FieldAge, false, 3); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	fact, _ := s.Get(contract.FieldAge)
	if fact.Value != 30 || fact.Status != contract.FactConfirmed {
		t.Errorf("active = %+v", fact)
	}
}

func TestResolveWithoutPendingFails(t *testing.T) {
	t.Parallel()

	s := NewFactStore(nil)
	if err := s.Resolve(contract.FieldAge, true, 1); !errors.Is(err, contract.ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

func TestPutRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	s := NewFactStore(nil)
	outcome, _, err := s.Put(contract.FieldAge, 300, 1)
	if err == nil || outcome != contract.PutRejected {
		t.Fatalf("outcome = %s, err = %v", outcome, err)
	}
	if s.Has(contract.FieldAge) {
		t.Error("rejected value must not be stored")
	}

	if _, _, err := s.Put("shoe_size", 42, 1); !errors.Is(err, contract.ErrUnknownField) {
		t.Errorf("unknown field: got %v, want ErrUnknownField", err)
	}
}

func TestSnapshotAndStatuses(t *testing.T) {
	t.Parallel()

	s := NewFactStore(nil)
	s.Put(contract.FieldAge, 65, 1)
	s.Put(contract.FieldGender, "female", 1)
	s.Confirm(contract.FieldGender)

	snap := s.Snapshot()
	if snap[contract.FieldAge] != 65 || snap[contract.FieldGender] != "female" {
		t.Errorf("snapshot = %v", snap)
	}
	statuses := s.Statuses()
	if statuses[contract.FieldAge] != contract.FactUnconfirmed {
		t.Errorf("age status = %s", statuses[contract.FieldAge])
	}
	if statuses[contract.FieldGender] != contract.FactConfirmed {
		t.Errorf("gender status = %s", statuses[contract.FieldGender])
	}

	// Snapshot is a copy; mutating it must not touch the store.
	snap[contract.FieldAge] = 1
	if fact, _ := s.Get(contract.FieldAge); fact.Value != 65 {
		t.Error("snapshot mutation leaked into the store")
	}
}

func TestPendingConflictsOrderedByTurn(t *testing.T) {
	t.Parallel()

	s := NewFactStore(nil)
	s.Put(contract.FieldGender, "male", 1)
	s.Put(contract.FieldAge, 30, 2)
	s.Put(contract.FieldAge, 65, 5)
	s.Put(contract.FieldGender, "female", 3)

	pending := s.PendingConflicts()
	if len(pending) != 2 {
		t.Fatalf("pending = %+v", pending)
	}
	if pending[0].Conflict.Field != contract.FieldGender || pending[1].Conflict.Field != contract.FieldAge {
		t.Errorf("order = %v, %v", pending[0].Conflict.Field, pending[1].Conflict.Field)
	}
}
