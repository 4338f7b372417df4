package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pdxmph/tasklist-tui/internal/config"
	"github.com/pdxmph/tasklist-tui/internal/todo"
)

type focusArea int

const (
	focusList focusArea = iota
	focusForm
)

// Form field indices
const (
	FieldText = iota
	FieldDueDate
	FieldPriority
	FieldCount // Total number of fields
)

// dragState tracks one reorder gesture. index follows the dragged task as it
// moves so a continued drag composes without re-reading the store.
type dragState struct {
	active bool
	id     string
	index  int
}

// Model represents the main application state
type Model struct {
	store *todo.Store
	opts  config.UIConfig
	keys  keyMap
	help  help.Model

	width  int
	height int

	focus     focusArea
	inputs    []textinput.Model
	field     int
	editingID string // empty unless an existing task is loaded in the form

	showCompleted bool
	selected      int // position in the visible list
	offset        int // first visible row on screen
	drag          dragState
	grabbing      bool // keyboard drag in progress

	status string
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230"))

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230"))

	grabbedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("214")).
			Foreground(lipgloss.Color("235"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")) // Green check

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // Red cross

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
)

// Row layout. The checkbox sits at column 0; controls follow the row body.
const (
	checkboxWidth = 3
	editControl   = "[edit]"
	deleteControl = "[del]"
)

// New creates a new application model over a loaded store
func New(store *todo.Store, opts config.UIConfig) Model {
	inputs := make([]textinput.Model, FieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 40
		inputs[i].Prompt = ""

		switch i {
		case FieldText:
			inputs[i].Placeholder = "Enter items"
			inputs[i].CharLimit = 200
		case FieldDueDate:
			inputs[i].Placeholder = "YYYY-MM-DD"
			inputs[i].CharLimit = len(todo.DateLayout)
		case FieldPriority:
			inputs[i].Placeholder = "Priority"
			inputs[i].CharLimit = 30
		}
	}

	m := Model{
		store:         store,
		opts:          opts,
		keys:          defaultKeyMap(),
		help:          help.New(),
		inputs:        inputs,
		showCompleted: opts.ShowCompleted,
	}

	// Nothing to browse yet, start in the form
	if store.Len() == 0 {
		m.focus = focusForm
		m.inputs[FieldText].Focus()
	}

	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scrollIntoView()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.focus == focusForm {
			return m.handleFormKey(msg)
		}
		return m.handleListKey(msg)
	}

	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		m.resetDraft()
		m.focusList()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		m, _ = m.submit()
		m.scrollIntoView()
		if m.focus == focusForm {
			return m, textinput.Blink
		}
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		m.focusField((m.field + 1) % FieldCount)
		return m, textinput.Blink

	case key.Matches(msg, m.keys.PrevField):
		m.focusField((m.field + FieldCount - 1) % FieldCount)
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.inputs[m.field], cmd = m.inputs[m.field].Update(msg)
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Keyboard drag: only movement and drop are live
	if m.grabbing {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.dragStep(-1)
		case key.Matches(msg, m.keys.Down):
			m.dragStep(1)
		case key.Matches(msg, m.keys.Drop):
			m.endDrag()
		case msg.Type == tea.KeyCtrlC:
			return m, tea.Quit
		}
		m.scrollIntoView()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.visible())-1 {
			m.selected++
		}

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}

	case key.Matches(msg, m.keys.MoveDown):
		if m.startDrag(m.selected) {
			m.dragStep(1)
			m.endDrag()
		}

	case key.Matches(msg, m.keys.MoveUp):
		if m.startDrag(m.selected) {
			m.dragStep(-1)
			m.endDrag()
		}

	case key.Matches(msg, m.keys.Grab):
		m.grabbing = m.startDrag(m.selected)

	case key.Matches(msg, m.keys.Toggle):
		m.toggleRow(m.selected)

	case key.Matches(msg, m.keys.Edit):
		if m.editRow(m.selected) {
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.Delete):
		m.deleteRow(m.selected)

	case key.Matches(msg, m.keys.Filter):
		m.showCompleted = !m.showCompleted
		m.selected = m.ensureValidSelection()

	case key.Matches(msg, m.keys.New):
		m.focusForm()
		return m, textinput.Blink

	case msg.Type == tea.KeyEsc:
		m.status = ""
	}

	m.scrollIntoView()
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	row := m.rowAt(msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if m.selected > 0 {
				m.selected--
			}
			m.scrollIntoView()
			return m, nil
		case tea.MouseButtonWheelDown:
			if m.selected < len(m.visible())-1 {
				m.selected++
			}
			m.scrollIntoView()
			return m, nil
		case tea.MouseButtonLeft:
		default:
			return m, nil
		}

		if row < 0 {
			return m, nil
		}
		m.selected = row
		if m.focus == focusForm && m.editingID == "" {
			m.focusList()
		}

		switch m.hitTest(m.visible()[row], msg.X) {
		case hitCheckbox:
			m.toggleRow(row)
		case hitEdit:
			if m.editRow(row) {
				return m, textinput.Blink
			}
		case hitDelete:
			m.deleteRow(row)
		default:
			m.startDrag(row)
		}

	case tea.MouseActionMotion:
		if !m.drag.active || row < 0 {
			return m, nil
		}
		target := m.visible()[row]
		if target.ID != m.drag.id {
			m.dragTo(target)
			m.selected = row
		}

	case tea.MouseActionRelease:
		m.endDrag()
	}

	// The view stays put while a row is held so screen lines keep mapping
	// to the same rows
	if !m.drag.active {
		m.scrollIntoView()
	}
	return m, nil
}

// visible returns the rows currently on display
func (m Model) visible() []todo.Item {
	return m.store.Items(m.showCompleted)
}

// ensureValidSelection ensures the current selection is within bounds
func (m Model) ensureValidSelection() int {
	items := m.visible()
	if len(items) == 0 {
		return 0
	}
	if m.selected >= len(items) {
		return len(items) - 1
	}
	if m.selected < 0 {
		return 0
	}
	return m.selected
}

// scrollIntoView adjusts offset so the selection is on screen
func (m *Model) scrollIntoView() {
	if m.height == 0 {
		return
	}
	height := m.listHeight()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+height {
		m.offset = m.selected - height + 1
	}
	if last := len(m.visible()) - height; m.offset > last {
		m.offset = last
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// selectID moves the selection onto the task with id if it is visible
func (m *Model) selectID(id string) {
	for i, item := range m.visible() {
		if item.ID == id {
			m.selected = i
			return
		}
	}
	m.selected = m.ensureValidSelection()
}

// rowItem returns the visible row at pos
func (m Model) rowItem(pos int) (todo.Item, bool) {
	items := m.visible()
	if pos < 0 || pos >= len(items) {
		return todo.Item{}, false
	}
	return items[pos], true
}

// storeIndex translates a rendered row to its current store position
func (m Model) storeIndex(item todo.Item) int {
	return m.store.IndexOf(item.ID)
}

// setStatus reports err on the status line. A nil error clears it.
func (m *Model) setStatus(err error) {
	switch {
	case err == nil:
		m.status = ""
	case errors.Is(err, todo.ErrNotPersisted):
		m.status = "Not saved: " + err.Error()
	default:
		m.status = err.Error()
	}
}
