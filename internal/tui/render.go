package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pdxmph/tasklist-tui/internal/todo"
)

type hitArea int

const (
	hitRow hitArea = iota
	hitCheckbox
	hitEdit
	hitDelete
)

// footerHeight is the status line plus the help line
const footerHeight = 2

// View renders the UI
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	sections := []string{
		m.renderTop(),
		m.renderList(m.listHeight()),
		m.renderStatus(),
		m.renderHelp(),
	}
	return strings.Join(sections, "\n")
}

// renderTop renders everything above the first task row
func (m Model) renderTop() string {
	filter := "[ ] Show Completed"
	if m.showCompleted {
		filter = "[x] Show Completed"
	}

	header := fmt.Sprintf("Tasks (%d)", len(m.visible()))
	if m.showCompleted {
		header += " [completed]"
	}

	width := m.width - 2
	if width < 10 {
		width = 10
	}

	return strings.Join([]string{
		titleStyle.Render("Todo App"),
		m.renderForm(),
		mutedStyle.Render(filter),
		header,
		strings.Repeat("─", width),
	}, "\n")
}

// renderForm renders the draft input form
func (m Model) renderForm() string {
	labels := []string{
		"Text:      ",
		"Due Date:  ",
		"Priority:  ",
	}

	var lines []string
	for i, label := range labels {
		lines = append(lines, label+m.inputs[i].View())
	}

	button := "[ Add Item ]"
	if m.editingID != "" {
		button = "[ Edit Item ]"
	}
	if m.focus == focusForm {
		button = selectedStyle.Render(button)
	} else {
		button = buttonStyle.Render(button)
	}
	lines = append(lines, button)

	return borderStyle.Padding(0, 1).Render(strings.Join(lines, "\n"))
}

// listTop returns the screen line of the first task row
func (m Model) listTop() int {
	return lipgloss.Height(m.renderTop())
}

// listHeight returns how many rows fit on screen
func (m Model) listHeight() int {
	h := m.height - m.listTop() - footerHeight
	if h < 1 {
		return 1
	}
	return h
}

// rowAt maps a screen line to a visible row, or -1
func (m Model) rowAt(y int) int {
	height := m.listHeight()
	line := y - m.listTop()
	if line < 0 || line >= height {
		return -1
	}
	row := m.offset + line
	if row >= len(m.visible()) {
		return -1
	}
	return row
}

// rowBody renders the checkbox, indicator and task fields
func rowBody(item todo.Item) string {
	box, icon := "[ ]", pendingStyle.Render("✗")
	if item.Completed {
		box, icon = "[x]", doneStyle.Render("✓")
	}

	line := box + " " + icon + " " + item.Text
	if item.DueDate != "" {
		line += "  " + mutedStyle.Render("Due Date: "+item.DueDate)
	}
	if item.Priority != "" {
		line += "  " + mutedStyle.Render("Priority: "+item.Priority)
	}
	return line
}

// hitTest reports which part of a row column x falls on
func (m Model) hitTest(item todo.Item, x int) hitArea {
	if x < checkboxWidth {
		return hitCheckbox
	}

	editStart := lipgloss.Width(rowBody(item)) + 2
	deleteStart := editStart + len(editControl) + 1

	switch {
	case x >= editStart && x < editStart+len(editControl):
		return hitEdit
	case x >= deleteStart && x < deleteStart+len(deleteControl):
		return hitDelete
	}
	return hitRow
}

// renderList renders the task rows
func (m Model) renderList(height int) string {
	items := m.visible()
	if len(items) == 0 {
		if m.showCompleted {
			return mutedStyle.Render("No completed tasks")
		}
		return mutedStyle.Render("No tasks yet")
	}

	start := m.offset

	var lines []string
	for i := start; i < len(items) && i < start+height; i++ {
		item := items[i]
		line := rowBody(item) + "  " + editControl + " " + deleteControl

		if item.ID == m.editingID {
			line += " " + mutedStyle.Render("(editing)")
		}

		switch {
		case m.drag.active && item.ID == m.drag.id:
			line = grabbedStyle.Render(line)
		case i == m.selected && m.focus == focusList:
			line = selectedStyle.Render(line)
		}

		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	return errorStyle.Render(m.status)
}

// renderHelp renders the help line
func (m Model) renderHelp() string {
	switch {
	case m.focus == focusForm:
		return m.help.ShortHelpView(m.keys.formBindings())
	case m.grabbing:
		return m.help.ShortHelpView(m.keys.grabBindings())
	}
	return m.help.ShortHelpView(m.keys.listBindings())
}
