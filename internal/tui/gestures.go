package tui

import (
	"errors"
	"strings"

	"github.com/pdxmph/tasklist-tui/internal/todo"
)

// draft builds a task from the form inputs
func (m Model) draft() todo.Task {
	return todo.Task{
		Text:     strings.TrimSpace(m.inputs[FieldText].Value()),
		DueDate:  strings.TrimSpace(m.inputs[FieldDueDate].Value()),
		Priority: strings.TrimSpace(m.inputs[FieldPriority].Value()),
	}
}

// resetDraft empties the form and leaves edit mode
func (m *Model) resetDraft() {
	m.editingID = ""
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	if m.focus == focusForm {
		m.focusField(FieldText)
	} else {
		m.field = FieldText
	}
}

func (m *Model) focusField(field int) {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.field = field
	m.inputs[field].Focus()
}

func (m *Model) focusForm() {
	m.focus = focusForm
	m.focusField(m.field)
}

func (m *Model) focusList() {
	m.focus = focusList
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.selected = m.ensureValidSelection()
}

// submit commits the draft as a new task or as an edit of editingID
func (m Model) submit() (Model, error) {
	task := m.draft()
	if err := task.Validate(); err != nil {
		m.setStatus(err)
		return m, err
	}

	if m.editingID == "" {
		added, err := m.store.Add(task)
		m.resetDraft()
		m.selectID(added.ID)
		m.setStatus(err)
		return m, err
	}

	id := m.editingID
	index := m.store.IndexOf(id)
	if index < 0 {
		m.resetDraft()
		err := errors.New("task being edited no longer exists")
		m.setStatus(err)
		return m, err
	}

	err := m.store.Edit(index, task)
	m.resetDraft()
	m.focusList()
	m.selectID(id)
	m.setStatus(err)
	return m, err
}

// editRow loads the row at pos into the form
func (m *Model) editRow(pos int) bool {
	item, ok := m.rowItem(pos)
	if !ok {
		return false
	}

	m.inputs[FieldText].SetValue(item.Text)
	m.inputs[FieldDueDate].SetValue(item.DueDate)
	m.inputs[FieldPriority].SetValue(item.Priority)
	m.editingID = item.ID
	m.field = FieldText
	m.focusForm()
	return true
}

// deleteRow removes the row at pos immediately
func (m *Model) deleteRow(pos int) {
	item, ok := m.rowItem(pos)
	if !ok {
		return
	}

	err := m.store.Delete(m.storeIndex(item))
	if item.ID == m.editingID {
		m.resetDraft()
	}
	m.setStatus(err)
	m.selected = m.ensureValidSelection()
}

// toggleRow flips the completion flag of the row at pos
func (m *Model) toggleRow(pos int) {
	item, ok := m.rowItem(pos)
	if !ok {
		return
	}

	err := m.store.ToggleComplete(m.storeIndex(item))
	if m.opts.ClearDraftOnToggle {
		m.resetDraft()
	}
	m.setStatus(err)
	m.selected = m.ensureValidSelection()
}

// startDrag begins a reorder gesture on the row at pos
func (m *Model) startDrag(pos int) bool {
	item, ok := m.rowItem(pos)
	if !ok {
		return false
	}
	m.drag = dragState{active: true, id: item.ID, index: m.storeIndex(item)}
	return true
}

// dragStep drags the held row over its visible neighbour delta rows away
func (m *Model) dragStep(delta int) {
	target := m.selected + delta
	item, ok := m.rowItem(target)
	if !ok {
		return
	}
	if m.dragTo(item) {
		m.selected = target
	}
}

// dragTo moves the held task onto target's position
func (m *Model) dragTo(target todo.Item) bool {
	if !m.drag.active {
		return false
	}

	to := m.storeIndex(target)
	err := m.store.Move(m.drag.index, to)
	m.setStatus(err)
	if err != nil && !errors.Is(err, todo.ErrNotPersisted) {
		return false
	}
	m.drag.index = to
	return true
}

func (m *Model) endDrag() {
	m.drag = dragState{}
	m.grabbing = false
}
