package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdxmph/tasks-tui/internal/task"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Overlays replace the main view
	switch {
	case m.sortMode:
		return m.renderSortSelection()
	case m.filterMode:
		return m.renderFilterSelection()
	case m.deleteConfirmMode:
		return m.renderDeleteConfirmation()
	case m.form != formClosed:
		return m.renderForm()
	}

	// Lines reserved below the panes for notice, error and help
	footer := m.renderFooter()
	paneHeight := m.height - 2 - lipgloss.Height(footer)
	if paneHeight < 3 {
		paneHeight = 3
	}

	// Calculate pane widths
	listWidth := m.width / 2
	detailWidth := m.width - listWidth - 4 // account for borders

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		borderStyle.Width(listWidth).Height(paneHeight).Render(m.renderList(listWidth, paneHeight)),
		borderStyle.Width(detailWidth).Height(paneHeight).Render(m.renderDetail(detailWidth)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, content, footer)
}

// renderFooter renders the notice, the last error and the help line
func (m Model) renderFooter() string {
	var lines []string
	if m.notice != "" {
		lines = append(lines, alertStyle.Render("! "+m.notice))
	}
	if m.err != nil {
		lines = append(lines, errorStyle.Render("Error: "+m.err.Error()))
	}
	lines = append(lines, m.renderHelp())
	return strings.Join(lines, "\n")
}

// renderList renders the task list
func (m Model) renderList(width, height int) string {
	var lines []string
	tasks := m.visibleTasks()

	// Calculate visible range
	visibleHeight := height - 2 // account for header
	startIdx := 0
	if m.selected >= visibleHeight {
		startIdx = m.selected - visibleHeight + 1
	}

	header := fmt.Sprintf("Tasks (%d) [sort: %s, filter: %s]", len(tasks), m.sortBy.Label(), m.filter)
	lines = append(lines, header)
	lines = append(lines, strings.Repeat("─", max(width-2, 0)))

	if len(tasks) == 0 {
		lines = append(lines, labelStyle.Render("No tasks. Press a to add one."))
	}

	today := time.Now()
	for i := startIdx; i < len(tasks) && i < startIdx+visibleHeight; i++ {
		t := tasks[i]

		check := "[ ] "
		if t.Completed {
			check = "[x] "
		}
		line := check + t.Name + " " + t.DueDate + " " + string(t.Priority)

		switch {
		case i == m.selected:
			line = selectedStyle.Render(line)
		case t.Completed:
			line = completedStyle.Render(line)
		default:
			due := t.DueDate
			if isOverdue(t, today) {
				due = overdueStyle.Render(due)
			}
			line = check + t.Name + " " + due + " " + renderPriority(t.Priority)
		}

		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// renderDetail renders the selected task
func (m Model) renderDetail(width int) string {
	t, ok := m.currentTask()
	if !ok {
		return "No task selected"
	}

	lines := wrapText(t.Name, width-2)
	lines = append(lines, strings.Repeat("─", max(width-2, 0)))
	lines = append(lines, "")

	lines = append(lines, fmt.Sprintf("Due: %s%s", t.DueDate, dueSuffix(t, time.Now())))
	lines = append(lines, fmt.Sprintf("Priority: %s", renderPriority(t.Priority)))
	if t.Completed {
		lines = append(lines, "Status: completed")
	} else {
		lines = append(lines, "Status: active")
	}
	lines = append(lines, "")
	lines = append(lines, labelStyle.Render(fmt.Sprintf("Created %s", time.UnixMilli(t.ID).Format("2006-01-02 15:04"))))

	return strings.Join(lines, "\n")
}

// renderHelp renders the help line
func (m Model) renderHelp() string {
	return " j/k: navigate • a: add • e: edit • x: toggle • d: delete • s: sort • f: filter • q: quit"
}

// renderForm renders the add/edit overlay
func (m Model) renderForm() string {
	title := "Add Task"
	if m.form == formEdit {
		title = "Edit Task"
	}

	var lines []string
	lines = append(lines, title)
	lines = append(lines, strings.Repeat("─", 40))
	lines = append(lines, "")

	fieldLabels := []string{
		"Name:      ",
		"Due date:  ",
		"Priority:  ",
	}

	for i, label := range fieldLabels {
		var fieldView string

		if i == FormFieldPriority {
			if i == m.formField {
				fieldView = label + selectedStyle.Render(fmt.Sprintf("< %s >", m.formPriority))
			} else {
				fieldView = label + fmt.Sprintf("  %s  ", m.formPriority)
			}
		} else if i == m.formField {
			fieldView = label + m.formInputs[i].View()
		} else {
			value := m.formInputs[i].Value()
			if value == "" {
				value = labelStyle.Render(m.formInputs[i].Placeholder)
			}
			fieldView = label + value
		}

		lines = append(lines, fieldView)
		lines = append(lines, "")
	}

	if m.notice != "" {
		lines = append(lines, alertStyle.Render("! "+m.notice))
		lines = append(lines, "")
	}

	lines = append(lines, "Tab/↓: next • Shift+Tab/↑: prev • ←/→: priority • Enter: save • Esc: cancel")

	box := borderStyle.
		Padding(1).
		Width(60).
		Background(lipgloss.Color("235")).
		Render(strings.Join(lines, "\n"))

	return m.center(box)
}

// renderSortSelection renders the sort key selection overlay
func (m Model) renderSortSelection() string {
	var lines []string
	lines = append(lines, "Sort by:")
	lines = append(lines, "")

	for i, key := range task.SortKeys {
		line := fmt.Sprintf("  %s", key.Label())
		if i == m.sortSelected {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "")
	lines = append(lines, "Press Enter to confirm, Esc to cancel")

	box := borderStyle.
		Padding(1).
		Background(lipgloss.Color("235")).
		Render(strings.Join(lines, "\n"))

	return m.center(box)
}

// renderFilterSelection renders the status filter overlay
func (m Model) renderFilterSelection() string {
	var lines []string
	lines = append(lines, "Filter by status:")
	lines = append(lines, "")

	for i, filter := range task.Filters {
		line := fmt.Sprintf("  %s", filter)
		if i == m.filterSelected {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "")
	lines = append(lines, "Press Enter to confirm, Esc to cancel")

	box := borderStyle.
		Padding(1).
		Background(lipgloss.Color("235")).
		Render(strings.Join(lines, "\n"))

	return m.center(box)
}

// renderDeleteConfirmation renders the delete confirmation prompt
func (m Model) renderDeleteConfirmation() string {
	name := ""
	if t, ok := m.store.Get(m.deleteTaskID); ok {
		name = t.Name
	}

	width := 60
	height := 7

	prompt := fmt.Sprintf("Delete task '%s'? (y/n)", name)

	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-4).
		Align(lipgloss.Center, lipgloss.Center).
		Render(prompt)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(width).
		Height(height).
		Render(content)

	return m.center(box)
}

// center places a box in the middle of the screen
func (m Model) center(box string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(box)
}

func renderPriority(p task.Priority) string {
	if style, ok := priorityStyles[p]; ok {
		return style.Render(string(p))
	}
	return string(p)
}

// isOverdue reports whether an open task's due date is before today
func isOverdue(t task.Task, now time.Time) bool {
	if t.Completed {
		return false
	}
	due, ok := t.Due()
	if !ok {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return due.Before(today)
}

// dueSuffix describes how far the due date is from today
func dueSuffix(t task.Task, now time.Time) string {
	due, ok := t.Due()
	if !ok {
		return ""
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(due.Sub(today).Hours() / 24)

	switch {
	case days == 0:
		return " (today)"
	case days == 1:
		return " (tomorrow)"
	case days > 1:
		return fmt.Sprintf(" (in %d days)", days)
	case t.Completed:
		return ""
	default:
		return overdueStyle.Render(fmt.Sprintf(" (%d days overdue)", -days))
	}
}

// wrapText wraps text to fit within the specified width
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	currentLine := words[0]
	for _, word := range words[1:] {
		if len(currentLine)+1+len(word) <= width {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}
