package task

import (
	"fmt"
	"time"
)

// Persister loads and saves the full task list
type Persister interface {
	// Load returns the stored tasks, or an empty list if there are none
	Load() []Task

	// Save overwrites the stored list with tasks
	Save(tasks []Task) error
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the clock used to assign ids
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// Store owns the task collection and the edit in progress.
// It is not safe for concurrent use.
type Store struct {
	persister Persister
	clock     func() time.Time
	tasks     []Task
	editing   *Task
}

// New creates a store and loads the persisted tasks
func New(persister Persister, opts ...Option) *Store {
	s := &Store{
		persister: persister,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.tasks = persister.Load()
	if s.tasks == nil {
		s.tasks = []Task{}
	}
	return s
}

// Tasks returns a copy of the collection in insertion order
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns the task with the given id
func (s *Store) Get(id int64) (Task, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

// Len returns the number of tasks
func (s *Store) Len() int {
	return len(s.tasks)
}

// Add appends a new task built from draft and clears the draft.
// If the name or due date is blank it returns a *ValidationError and
// leaves both the collection and the draft untouched.
func (s *Store) Add(draft *Draft) (Task, error) {
	if missing := draft.missing(); len(missing) > 0 {
		return Task{}, &ValidationError{Missing: missing}
	}

	priority := draft.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	t := Task{
		ID:       s.nextID(),
		Name:     draft.Name,
		DueDate:  draft.DueDate,
		Priority: priority,
	}
	s.tasks = append(s.tasks, t)
	draft.Reset()

	if err := s.save(); err != nil {
		return t, err
	}
	return t, nil
}

// Delete removes the task with the given id. Unknown ids are ignored.
func (s *Store) Delete(id int64) error {
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}

	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	if s.editing != nil && s.editing.ID == id {
		s.editing = nil
	}
	return s.save()
}

// ToggleComplete flips the completed flag of the task with the given id.
// Unknown ids are ignored.
func (s *Store) ToggleComplete(id int64) error {
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}

	s.tasks[i].Completed = !s.tasks[i].Completed
	return s.save()
}

// BeginEdit stages a copy of the task for editing
func (s *Store) BeginEdit(id int64) (Task, bool) {
	t, ok := s.Get(id)
	if !ok {
		return Task{}, false
	}
	staged := t
	s.editing = &staged
	return staged, true
}

// Editing returns the staged copy, if an edit is in progress
func (s *Store) Editing() (Task, bool) {
	if s.editing == nil {
		return Task{}, false
	}
	return *s.editing, true
}

// CancelEdit drops the staged copy
func (s *Store) CancelEdit() {
	s.editing = nil
}

// CommitEdit replaces the stored task that has edited's id with edited.
// The replacement is wholesale and is not re-validated, so an edit may
// blank the name or due date.
func (s *Store) CommitEdit(edited Task) error {
	s.editing = nil

	i := s.indexOf(edited.ID)
	if i < 0 {
		return nil
	}

	s.tasks[i] = edited
	return s.save()
}

func (s *Store) indexOf(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID uses the creation time in milliseconds, falling past the
// largest id when two tasks land on the same millisecond.
func (s *Store) nextID() int64 {
	id := s.clock().UnixMilli()
	if s.indexOf(id) < 0 {
		return id
	}

	var highest int64
	for _, t := range s.tasks {
		if t.ID > highest {
			highest = t.ID
		}
	}
	return highest + 1
}

func (s *Store) save() error {
	if err := s.persister.Save(s.Tasks()); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	return nil
}
