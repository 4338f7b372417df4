package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/pdxmph/tasklist-tui/internal/storage"
)

// Storage keys
const (
	TasksKey     = "todoItems"
	CompletedKey = "checkedItems"
)

var (
	// ErrIndexOutOfRange is returned when an index does not name a task
	ErrIndexOutOfRange = errors.New("task index out of range")

	// ErrNotPersisted wraps a storage failure after an in-memory change was applied
	ErrNotPersisted = errors.New("change not saved")
)

// Store holds the ordered task list and its completion flags. tasks and
// completed always have the same length and are spliced together.
type Store struct {
	kv        storage.KV
	tasks     []Task
	completed []bool
}

// NewStore creates an empty store backed by kv. Call Load to read saved state.
func NewStore(kv storage.KV) *Store {
	return &Store{
		kv:        kv,
		tasks:     []Task{},
		completed: []bool{},
	}
}

// Load replaces the in-memory state with what kv holds. Absent or malformed
// data leaves an empty list; nothing is returned to the caller.
func (s *Store) Load() {
	s.tasks = []Task{}
	s.completed = []bool{}

	rawTasks, ok, err := s.kv.Get(TasksKey)
	if err != nil {
		log.Printf("loading %s: %v", TasksKey, err)
		return
	}
	if !ok {
		return
	}

	var tasks []Task
	if err := json.Unmarshal([]byte(rawTasks), &tasks); err != nil {
		log.Printf("ignoring malformed %s: %v", TasksKey, err)
		return
	}
	if tasks == nil {
		tasks = []Task{}
	}

	var completed []bool
	rawCompleted, ok, err := s.kv.Get(CompletedKey)
	if err != nil {
		log.Printf("loading %s: %v", CompletedKey, err)
		return
	}
	if ok {
		if err := json.Unmarshal([]byte(rawCompleted), &completed); err != nil {
			log.Printf("ignoring malformed %s: %v", CompletedKey, err)
			return
		}
	}

	if len(completed) != len(tasks) {
		log.Printf("%s has %d entries for %d tasks, reconciling", CompletedKey, len(completed), len(tasks))
	}
	flags := make([]bool, len(tasks))
	copy(flags, completed)

	// Rows are addressed by id, so blank or repeated ids get a fresh one
	seen := make(map[string]bool, len(tasks))
	for i := range tasks {
		if tasks[i].ID == "" || seen[tasks[i].ID] {
			tasks[i].ID = uuid.NewString()
		}
		seen[tasks[i].ID] = true
	}

	s.tasks = tasks
	s.completed = flags
}

// Persist writes both sequences in one atomic write
func (s *Store) Persist() error {
	tasks, err := json.Marshal(s.tasks)
	if err != nil {
		return fmt.Errorf("encoding tasks: %w", err)
	}
	completed, err := json.Marshal(s.completed)
	if err != nil {
		return fmt.Errorf("encoding completion flags: %w", err)
	}

	err = s.kv.SetMany(map[string]string{
		TasksKey:     string(tasks),
		CompletedKey: string(completed),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotPersisted, err)
	}
	return nil
}

// persist saves after a mutation. Failures are logged and handed back; the
// in-memory change stands either way.
func (s *Store) persist() error {
	if err := s.Persist(); err != nil {
		log.Printf("persisting tasks: %v", err)
		return err
	}
	return nil
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.tasks) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(s.tasks))
	}
	return nil
}

// Add appends task as incomplete and returns it with its assigned ID
func (s *Store) Add(task Task) (Task, error) {
	task.ID = uuid.NewString()
	s.tasks = append(s.tasks, task)
	s.completed = append(s.completed, false)
	return task, s.persist()
}

// Edit replaces the task at index, keeping its ID and completion flag
func (s *Store) Edit(index int, task Task) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	task.ID = s.tasks[index].ID
	s.tasks[index] = task
	return s.persist()
}

// Delete removes the task at index and its flag
func (s *Store) Delete(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.tasks = append(s.tasks[:index], s.tasks[index+1:]...)
	s.completed = append(s.completed[:index], s.completed[index+1:]...)
	return s.persist()
}

// ToggleComplete flips the completion flag at index
func (s *Store) ToggleComplete(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	s.completed[index] = !s.completed[index]
	return s.persist()
}

// Move takes the task at from out of the list and reinserts it at to
func (s *Store) Move(from, to int) error {
	if err := s.checkIndex(from); err != nil {
		return err
	}
	if err := s.checkIndex(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}

	task, done := s.tasks[from], s.completed[from]
	s.tasks = append(s.tasks[:from], s.tasks[from+1:]...)
	s.completed = append(s.completed[:from], s.completed[from+1:]...)

	s.tasks = append(s.tasks[:to], append([]Task{task}, s.tasks[to:]...)...)
	s.completed = append(s.completed[:to], append([]bool{done}, s.completed[to:]...)...)

	return s.persist()
}

// Len returns the number of tasks
func (s *Store) Len() int {
	return len(s.tasks)
}

// Get returns the task at index and whether it is completed
func (s *Store) Get(index int) (Task, bool, error) {
	if err := s.checkIndex(index); err != nil {
		return Task{}, false, err
	}
	return s.tasks[index], s.completed[index], nil
}

// IndexOf returns the current position of the task with id, or -1
func (s *Store) IndexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Tasks returns a copy of the task list
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Completed returns a copy of the completion flags
func (s *Store) Completed() []bool {
	out := make([]bool, len(s.completed))
	copy(out, s.completed)
	return out
}

// Items zips tasks with their flags in list order. With completedOnly set,
// incomplete tasks are left out.
func (s *Store) Items(completedOnly bool) []Item {
	items := make([]Item, 0, len(s.tasks))
	for i, t := range s.tasks {
		if completedOnly && !s.completed[i] {
			continue
		}
		items = append(items, Item{Task: t, Index: i, Completed: s.completed[i]})
	}
	return items
}
