package todo

import (
	"errors"
	"fmt"
	"time"
)

// SampleTasks returns a realistic set of tasks with due dates relative to now
func SampleTasks(now time.Time) []Task {
	day := func(offset int) string {
		return now.AddDate(0, 0, offset).Format(DateLayout)
	}
	return []Task{
		{Text: "Buy oat milk", DueDate: day(0), Priority: "high"},
		{Text: "Renew library books", DueDate: day(2), Priority: "medium"},
		{Text: "Call the plumber about the kitchen sink", DueDate: day(1), Priority: "high"},
		{Text: "Book dentist appointment", DueDate: day(14), Priority: "low"},
		{Text: "Write quarterly report", DueDate: day(7), Priority: "high"},
		{Text: "Water the plants", DueDate: day(-1), Priority: "medium"},
	}
}

// Seed adds the sample tasks to store and marks the overdue ones completed
func Seed(store *Store, now time.Time) (int, error) {
	added := 0
	for _, t := range SampleTasks(now) {
		task, err := store.Add(t)
		if err != nil && !errors.Is(err, ErrNotPersisted) {
			return added, fmt.Errorf("adding %q: %w", t.Text, err)
		}
		added++

		// Dates in DateLayout sort lexically
		if task.DueDate < now.Format(DateLayout) {
			err := store.ToggleComplete(store.IndexOf(task.ID))
			if err != nil && !errors.Is(err, ErrNotPersisted) {
				return added, fmt.Errorf("completing %q: %w", t.Text, err)
			}
		}
	}
	return added, store.Persist()
}
