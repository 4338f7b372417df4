package todo

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the due date format accepted by the form
const DateLayout = "2006-01-02"

// Task is one to-do entry
type Task struct {
	ID       string `json:"id,omitempty"`
	Text     string `json:"text"`
	DueDate  string `json:"dueDate"`
	Priority string `json:"priority"`
}

// Item is a task paired with its completion flag, as rendered
type Item struct {
	Task
	Index     int
	Completed bool
}

// ErrMissingField is returned by Validate when a required field is blank
var ErrMissingField = errors.New("missing required field")

// Validate checks the fields the form requires. Priority stays free text.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Text) == "" {
		return fmt.Errorf("%w: text", ErrMissingField)
	}
	if strings.TrimSpace(t.DueDate) == "" {
		return fmt.Errorf("%w: due date", ErrMissingField)
	}
	if strings.TrimSpace(t.Priority) == "" {
		return fmt.Errorf("%w: priority", ErrMissingField)
	}
	if _, err := time.Parse(DateLayout, t.DueDate); err != nil {
		return fmt.Errorf("due date %q is not YYYY-MM-DD", t.DueDate)
	}
	return nil
}
