package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/pdxmph/tasks-tui/internal/task"
)

// validationNotice is shown when a task is added without a name or due date
const validationNotice = "Please enter both task name and due date."

// Form field indices
const (
	FormFieldName = iota
	FormFieldDueDate
	FormFieldPriority
	FormFieldCount // Total number of fields
)

type formMode int

const (
	formClosed formMode = iota
	formAdd
	formEdit
)

// noticeExpiredMsg dismisses the notice it was scheduled for
type noticeExpiredMsg struct {
	seq int
}

// Options configures the model
type Options struct {
	SortBy        task.SortKey
	Filter        task.Filter
	NoticeTimeout time.Duration
	Logger        *log.Logger

	// SaveView is called after the sort key or filter changes
	SaveView func(task.SortKey, task.Filter) error
}

// Model represents the main application state
type Model struct {
	store    *task.Store
	logger   *log.Logger
	saveView func(task.SortKey, task.Filter) error

	selected int
	width    int
	height   int
	err      error

	// Derived view settings
	sortBy task.SortKey
	filter task.Filter

	// Sort selection mode
	sortMode     bool
	sortSelected int

	// Filter selection mode
	filterMode     bool
	filterSelected int

	// Add/edit form
	form         formMode
	formField    int
	formInputs   []textinput.Model
	formPriority task.Priority
	draft        task.Draft

	// Delete confirmation mode
	deleteConfirmMode bool
	deleteTaskID      int64

	// Validation notice
	notice        string
	noticeSeq     int
	noticeTimeout time.Duration
}

// Styles
var (
	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230"))

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Strikethrough(true)

	overdueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	alertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("160")).
			Bold(true).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	priorityStyles = map[task.Priority]lipgloss.Style{
		task.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		task.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("71")),
	}
)

// New creates a new application model
func New(store *task.Store, opts Options) *Model {
	if opts.SortBy == "" {
		opts.SortBy = task.SortByDueDate
	}
	if opts.Filter == "" {
		opts.Filter = task.FilterAll
	}
	if opts.NoticeTimeout <= 0 {
		opts.NoticeTimeout = 3 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	// Setup form inputs; priority is cycled rather than typed
	inputs := make([]textinput.Model, FormFieldPriority)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 40
		inputs[i].CharLimit = 200

		switch i {
		case FormFieldName:
			inputs[i].Placeholder = "Task name"
		case FormFieldDueDate:
			inputs[i].Placeholder = "YYYY-MM-DD"
			inputs[i].CharLimit = 10
		}
	}

	return &Model{
		store:         store,
		logger:        opts.Logger,
		saveView:      opts.SaveView,
		sortBy:        opts.SortBy,
		filter:        opts.Filter,
		noticeTimeout: opts.NoticeTimeout,
		formInputs:    inputs,
		draft:         task.NewDraft(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case noticeExpiredMsg:
		// Only the most recent notice may be dismissed by its own timer
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.deleteConfirmMode {
			return m.updateDeleteConfirm(msg)
		}
		if m.sortMode {
			return m.updateSortMode(msg)
		}
		if m.filterMode {
			return m.updateFilterMode(msg)
		}
		if m.form != formClosed {
			return m.updateForm(msg)
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		if m.selected < len(m.visibleTasks())-1 {
			m.selected++
		}

	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}

	case "g", "home":
		m.selected = 0

	case "G", "end":
		if n := len(m.visibleTasks()); n > 0 {
			m.selected = n - 1
		}

	case "a":
		m.openForm(formAdd)
		return m, textinput.Blink

	case "e":
		// Stage the selected task for editing
		current, ok := m.currentTask()
		if !ok {
			return m, nil
		}
		staged, ok := m.store.BeginEdit(current.ID)
		if !ok {
			return m, nil
		}
		m.openForm(formEdit)
		m.formInputs[FormFieldName].SetValue(staged.Name)
		m.formInputs[FormFieldDueDate].SetValue(staged.DueDate)
		m.formPriority = staged.Priority
		return m, textinput.Blink

	case "x", " ":
		current, ok := m.currentTask()
		if !ok {
			return m, nil
		}
		m.applyResult("toggle", m.store.ToggleComplete(current.ID), "id", current.ID)
		m.selected = m.ensureValidSelection(len(m.visibleTasks()))

	case "d":
		// Delete needs confirmation
		current, ok := m.currentTask()
		if ok {
			m.deleteConfirmMode = true
			m.deleteTaskID = current.ID
		}

	case "s":
		m.sortMode = true
		m.sortSelected = 0
		for i, key := range task.SortKeys {
			if key == m.sortBy {
				m.sortSelected = i
				break
			}
		}

	case "f":
		m.filterMode = true
		m.filterSelected = 0
		for i, filter := range task.Filters {
			if filter == m.filter {
				m.filterSelected = i
				break
			}
		}
	}

	return m, nil
}

func (m Model) updateDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.applyResult("delete", m.store.Delete(m.deleteTaskID), "id", m.deleteTaskID)
		m.selected = m.ensureValidSelection(len(m.visibleTasks()))
	}

	// Any other key cancels
	m.deleteConfirmMode = false
	m.deleteTaskID = 0
	return m, nil
}

func (m Model) updateSortMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.sortMode = false
	case "enter":
		m.sortBy = task.SortKeys[m.sortSelected]
		m.sortMode = false
		m.logger.Debug("Sort changed", "sort", m.sortBy)
		m.persistView()
	case "j", "down":
		if m.sortSelected < len(task.SortKeys)-1 {
			m.sortSelected++
		}
	case "k", "up":
		if m.sortSelected > 0 {
			m.sortSelected--
		}
	}
	return m, nil
}

func (m Model) updateFilterMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filterMode = false
	case "enter":
		m.filter = task.Filters[m.filterSelected]
		m.filterMode = false
		m.selected = m.ensureValidSelection(len(m.visibleTasks()))
		m.logger.Debug("Filter changed", "filter", m.filter)
		m.persistView()
	case "j", "down":
		if m.filterSelected < len(task.Filters)-1 {
			m.filterSelected++
		}
	case "k", "up":
		if m.filterSelected > 0 {
			m.filterSelected--
		}
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.form == formEdit {
			m.store.CancelEdit()
		} else {
			// Keep what was typed so reopening the form resumes the draft
			m.syncDraft()
		}
		m.closeForm()
		return m, nil

	case "enter":
		if m.form == formAdd {
			return m.submitAdd()
		}
		return m.submitEdit()

	case "tab", "down":
		m.focusField((m.formField + 1) % FormFieldCount)
		return m, textinput.Blink

	case "shift+tab", "up":
		m.focusField((m.formField + FormFieldCount - 1) % FormFieldCount)
		return m, textinput.Blink

	case "left", "right", " ":
		if m.formField == FormFieldPriority {
			if msg.String() == "left" {
				m.formPriority = m.formPriority.Prev()
			} else {
				m.formPriority = m.formPriority.Next()
			}
			return m, nil
		}
	}

	// Update the active text input
	if m.formField != FormFieldPriority {
		var cmd tea.Cmd
		m.formInputs[m.formField], cmd = m.formInputs[m.formField].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) submitAdd() (tea.Model, tea.Cmd) {
	m.syncDraft()

	added, err := m.store.Add(&m.draft)
	if errors.Is(err, task.ErrValidationFailed) {
		m.logger.Debug("Add rejected", "err", err)
		return m, m.showNotice(validationNotice)
	}

	m.applyResult("add", err, "id", added.ID, "name", added.Name)
	m.closeForm()

	// Move the selection onto the new task if it is visible
	for i, t := range m.visibleTasks() {
		if t.ID == added.ID {
			m.selected = i
			break
		}
	}
	return m, nil
}

func (m Model) submitEdit() (tea.Model, tea.Cmd) {
	staged, ok := m.store.Editing()
	if !ok {
		m.closeForm()
		return m, nil
	}

	staged.Name = m.formInputs[FormFieldName].Value()
	staged.DueDate = m.formInputs[FormFieldDueDate].Value()
	staged.Priority = m.formPriority

	m.applyResult("edit", m.store.CommitEdit(staged), "id", staged.ID)
	m.closeForm()
	m.selected = m.ensureValidSelection(len(m.visibleTasks()))
	return m, nil
}

// showNotice displays a notice and schedules its dismissal
func (m *Model) showNotice(text string) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	seq := m.noticeSeq
	return tea.Tick(m.noticeTimeout, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

// applyResult records the outcome of a store mutation
func (m *Model) applyResult(op string, err error, keyvals ...interface{}) {
	if err != nil {
		m.err = err
		m.logger.Error("Task "+op+" failed", append(keyvals, "err", err)...)
		return
	}
	m.err = nil
	m.logger.Info("Task "+op, keyvals...)
}

// persistView hands the current sort key and filter to SaveView
func (m *Model) persistView() {
	if m.saveView == nil {
		return
	}
	if err := m.saveView(m.sortBy, m.filter); err != nil {
		m.err = err
		m.logger.Error("Saving view settings failed", "err", err)
		return
	}
	m.logger.Debug("View settings saved", "sort", m.sortBy, "filter", m.filter)
}

// syncDraft copies the add form inputs into the draft
func (m *Model) syncDraft() {
	m.draft.Name = m.formInputs[FormFieldName].Value()
	m.draft.DueDate = m.formInputs[FormFieldDueDate].Value()
	m.draft.Priority = m.formPriority
}

func (m *Model) openForm(mode formMode) {
	m.form = mode
	m.formInputs[FormFieldName].SetValue(m.draft.Name)
	m.formInputs[FormFieldDueDate].SetValue(m.draft.DueDate)
	m.formPriority = m.draft.Priority
	m.focusField(FormFieldName)
}

func (m *Model) closeForm() {
	m.form = formClosed
	m.formField = 0
	for i := range m.formInputs {
		m.formInputs[i].Blur()
	}
}

func (m *Model) focusField(field int) {
	for i := range m.formInputs {
		m.formInputs[i].Blur()
	}
	m.formField = field
	if field != FormFieldPriority {
		m.formInputs[field].Focus()
	}
}

// visibleTasks returns the derived view for the current sort and filter
func (m Model) visibleTasks() []task.Task {
	return task.DerivedView(m.store.Tasks(), m.sortBy, m.filter)
}

// currentTask returns the selected task in the derived view
func (m Model) currentTask() (task.Task, bool) {
	tasks := m.visibleTasks()
	if len(tasks) == 0 || m.selected >= len(tasks) {
		return task.Task{}, false
	}
	return tasks[m.selected], true
}

// ensureValidSelection clamps the selection to a list of n tasks
func (m Model) ensureValidSelection(n int) int {
	if n == 0 {
		return 0
	}
	if m.selected >= n {
		return n - 1
	}
	if m.selected < 0 {
		return 0
	}
	return m.selected
}
