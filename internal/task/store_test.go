package task

import (
	"errors"
	"testing"
	"time"
)

// memPersister records every save so tests can assert on it
type memPersister struct {
	stored []Task
	saves  int
	err    error
}

func (m *memPersister) Load() []Task {
	out := make([]Task, len(m.stored))
	copy(out, m.stored)
	return out
}

func (m *memPersister) Save(tasks []Task) error {
	if m.err != nil {
		return m.err
	}
	m.saves++
	m.stored = make([]Task, len(tasks))
	copy(m.stored, tasks)
	return nil
}

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestAddValidation(t *testing.T) {
	tests := []struct {
		name        string
		draft       Draft
		wantMissing []string
	}{
		{
			name:        "empty name",
			draft:       Draft{DueDate: "2024-05-01", Priority: PriorityHigh},
			wantMissing: []string{"name"},
		},
		{
			name:        "empty due date",
			draft:       Draft{Name: "Pay rent", Priority: PriorityHigh},
			wantMissing: []string{"dueDate"},
		},
		{
			name:        "both empty",
			draft:       NewDraft(),
			wantMissing: []string{"name", "dueDate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &memPersister{stored: []Task{{ID: 1, Name: "existing", DueDate: "2024-01-01", Priority: PriorityLow}}}
			s := New(p)
			draft := tt.draft

			_, err := s.Add(&draft)
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("Add() error = %v, want ErrValidationFailed", err)
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Add() error is not a *ValidationError: %T", err)
			}
			if len(verr.Missing) != len(tt.wantMissing) {
				t.Fatalf("Missing = %v, want %v", verr.Missing, tt.wantMissing)
			}
			for i := range tt.wantMissing {
				if verr.Missing[i] != tt.wantMissing[i] {
					t.Errorf("Missing[%d] = %q, want %q", i, verr.Missing[i], tt.wantMissing[i])
				}
			}

			if s.Len() != 1 {
				t.Errorf("Len() = %d, want 1", s.Len())
			}
			if p.saves != 0 {
				t.Errorf("saves = %d, want 0", p.saves)
			}
			if draft != tt.draft {
				t.Errorf("draft changed on failure: got %+v, want %+v", draft, tt.draft)
			}
		})
	}
}

func TestAddAcceptsWhitespaceValues(t *testing.T) {
	p := &memPersister{}
	s := New(p)

	draft := Draft{Name: " ", DueDate: " ", Priority: PriorityLow}
	added, err := s.Add(&draft)
	if err != nil {
		t.Fatalf("Add() error = %v, want nil", err)
	}
	if added.Name != " " || added.DueDate != " " {
		t.Errorf("added = %+v, want values kept as typed", added)
	}
	if s.Len() != 1 || p.saves != 1 {
		t.Errorf("Len() = %d, saves = %d, want 1 and 1", s.Len(), p.saves)
	}
}

func TestAddAppendsTask(t *testing.T) {
	p := &memPersister{}
	s := New(p, WithClock(fixedClock(1714550400000)))

	draft := Draft{Name: "Write report", DueDate: "2024-05-01", Priority: PriorityHigh}
	added, err := s.Add(&draft)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if added.ID != 1714550400000 {
		t.Errorf("ID = %d, want 1714550400000", added.ID)
	}
	if added.Completed {
		t.Error("new task should not be completed")
	}
	if added.Name != "Write report" || added.DueDate != "2024-05-01" || added.Priority != PriorityHigh {
		t.Errorf("unexpected task fields: %+v", added)
	}

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if draft != NewDraft() {
		t.Errorf("draft not cleared: %+v", draft)
	}
	if p.saves != 1 || len(p.stored) != 1 || p.stored[0] != added {
		t.Errorf("persisted state = %+v (saves %d), want [%+v]", p.stored, p.saves, added)
	}
}

func TestAddDefaultsPriority(t *testing.T) {
	s := New(&memPersister{})
	draft := Draft{Name: "No priority", DueDate: "2024-05-01"}

	added, err := s.Add(&draft)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if added.Priority != PriorityMedium {
		t.Errorf("Priority = %q, want medium", added.Priority)
	}
}

func TestAddUniqueIDsWithFrozenClock(t *testing.T) {
	s := New(&memPersister{}, WithClock(fixedClock(1000)))

	seen := make(map[int64]bool)
	for i := 0; i < 5; i++ {
		draft := Draft{Name: "task", DueDate: "2024-05-01", Priority: PriorityLow}
		added, err := s.Add(&draft)
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if seen[added.ID] {
			t.Fatalf("duplicate id %d", added.ID)
		}
		seen[added.ID] = true
	}
	if s.Len() != 5 {
		t.Errorf("Len() = %d, want 5", s.Len())
	}
}

func TestDelete(t *testing.T) {
	p := &memPersister{stored: []Task{
		{ID: 1, Name: "a", DueDate: "2024-01-01", Priority: PriorityLow},
		{ID: 2, Name: "b", DueDate: "2024-01-02", Priority: PriorityMedium},
		{ID: 3, Name: "c", DueDate: "2024-01-03", Priority: PriorityHigh},
	}}
	s := New(p)

	if err := s.Delete(2); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	got := s.Tasks()
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("Tasks() = %+v, want ids [1 3]", got)
	}
	if p.saves != 1 {
		t.Errorf("saves = %d, want 1", p.saves)
	}

	if err := s.Delete(42); err != nil {
		t.Fatalf("Delete(missing) error = %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d after deleting missing id, want 2", s.Len())
	}
	if p.saves != 1 {
		t.Errorf("saves = %d after no-op delete, want 1", p.saves)
	}
}

func TestToggleCompleteTwiceRestores(t *testing.T) {
	p := &memPersister{stored: []Task{{ID: 7, Name: "a", DueDate: "2024-01-01", Priority: PriorityLow}}}
	s := New(p)

	if err := s.ToggleComplete(7); err != nil {
		t.Fatalf("ToggleComplete() error = %v", err)
	}
	if got, _ := s.Get(7); !got.Completed {
		t.Fatal("task should be completed after first toggle")
	}
	if !p.stored[0].Completed {
		t.Error("completed flag not persisted")
	}

	if err := s.ToggleComplete(7); err != nil {
		t.Fatalf("ToggleComplete() error = %v", err)
	}
	if got, _ := s.Get(7); got.Completed {
		t.Error("task should be active after second toggle")
	}

	if err := s.ToggleComplete(99); err != nil {
		t.Fatalf("ToggleComplete(missing) error = %v", err)
	}
	if p.saves != 2 {
		t.Errorf("saves = %d, want 2", p.saves)
	}
}

func TestEditLifecycle(t *testing.T) {
	p := &memPersister{stored: []Task{
		{ID: 1, Name: "draft report", DueDate: "2024-01-01", Priority: PriorityLow},
		{ID: 2, Name: "other", DueDate: "2024-02-01", Priority: PriorityMedium},
	}}
	s := New(p)

	if _, ok := s.Editing(); ok {
		t.Fatal("no edit should be staged initially")
	}
	if _, ok := s.BeginEdit(99); ok {
		t.Fatal("BeginEdit of missing id should fail")
	}

	staged, ok := s.BeginEdit(1)
	if !ok {
		t.Fatal("BeginEdit(1) failed")
	}
	staged.Name = "final report"
	staged.Priority = PriorityHigh

	// The staged copy is independent of the stored task
	if got, _ := s.Get(1); got.Name != "draft report" {
		t.Errorf("stored task changed before commit: %+v", got)
	}

	if err := s.CommitEdit(staged); err != nil {
		t.Fatalf("CommitEdit() error = %v", err)
	}
	if _, ok := s.Editing(); ok {
		t.Error("edit should be cleared after commit")
	}

	got, _ := s.Get(1)
	if got != staged {
		t.Errorf("Get(1) = %+v, want %+v", got, staged)
	}
	if p.stored[0] != staged {
		t.Errorf("persisted = %+v, want %+v", p.stored[0], staged)
	}
}

func TestCommitEditDoesNotRevalidate(t *testing.T) {
	s := New(&memPersister{stored: []Task{{ID: 1, Name: "a", DueDate: "2024-01-01", Priority: PriorityLow}}})

	staged, _ := s.BeginEdit(1)
	staged.Name = ""
	staged.DueDate = ""

	if err := s.CommitEdit(staged); err != nil {
		t.Fatalf("CommitEdit() error = %v", err)
	}
	got, _ := s.Get(1)
	if got.Name != "" || got.DueDate != "" {
		t.Errorf("blank edit not applied: %+v", got)
	}
}

func TestCommitEditMissingID(t *testing.T) {
	p := &memPersister{stored: []Task{{ID: 1, Name: "a", DueDate: "2024-01-01", Priority: PriorityLow}}}
	s := New(p)
	s.BeginEdit(1)

	if err := s.CommitEdit(Task{ID: 5, Name: "ghost"}); err != nil {
		t.Fatalf("CommitEdit() error = %v", err)
	}
	if s.Len() != 1 || p.saves != 0 {
		t.Errorf("collection changed: len %d saves %d", s.Len(), p.saves)
	}
	if _, ok := s.Editing(); ok {
		t.Error("edit should be cleared")
	}
}

func TestDeleteClearsStagedEdit(t *testing.T) {
	s := New(&memPersister{stored: []Task{{ID: 1, Name: "a", DueDate: "2024-01-01", Priority: PriorityLow}}})
	s.BeginEdit(1)

	if err := s.Delete(1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := s.Editing(); ok {
		t.Error("staged edit of a deleted task should be dropped")
	}
}

func TestSaveErrorKeepsMutation(t *testing.T) {
	boom := errors.New("disk full")
	p := &memPersister{err: boom}
	s := New(p)

	draft := Draft{Name: "a", DueDate: "2024-01-01", Priority: PriorityLow}
	_, err := s.Add(&draft)
	if !errors.Is(err, boom) {
		t.Fatalf("Add() error = %v, want wrapped %v", err, boom)
	}
	if errors.Is(err, ErrValidationFailed) {
		t.Error("save failure must not look like a validation failure")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestTasksReturnsCopy(t *testing.T) {
	s := New(&memPersister{stored: []Task{{ID: 1, Name: "a", DueDate: "2024-01-01", Priority: PriorityLow}}})

	got := s.Tasks()
	got[0].Name = "mutated"

	if stored, _ := s.Get(1); stored.Name != "a" {
		t.Errorf("Tasks() leaked internal slice: %+v", stored)
	}
}

func TestPriorityCycle(t *testing.T) {
	if PriorityLow.Next() != PriorityMedium || PriorityHigh.Next() != PriorityLow {
		t.Error("Next() did not cycle low -> medium -> high -> low")
	}
	if PriorityLow.Prev() != PriorityHigh || PriorityMedium.Prev() != PriorityLow {
		t.Error("Prev() did not cycle backwards")
	}
	if Priority("urgent").Next() != PriorityMedium {
		t.Error("unknown priority should reset to medium")
	}
}
