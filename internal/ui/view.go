package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tasks-go/internal/notify"
	"github.com/nibzard/tasks-go/internal/todo"
)

// EmptyMessage is shown when the active filter matches nothing.
const EmptyMessage = "No tasks found."

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeGrab
)

func (m mode) String() string {
	switch m {
	case modeAdd:
		return "add"
	case modeEdit:
		return "edit"
	case modeGrab:
		return "move"
	default:
		return "list"
	}
}

// frame is everything one render needs. render is a pure function of it.
type frame struct {
	filter    todo.Filter
	entries   []todo.Entry
	total     int
	completed int

	cursor int
	mode   mode

	// Grab mode, as positions in entries.
	grabFrom int
	grabTo   int

	// Edit mode: store index being edited and the rendered input.
	editIndex int
	editInput string

	// Add mode: rendered inputs.
	addText     string
	addDeadline string

	toasts []notify.Notification
	err    string
	help   string
	width  int
}

func render(f frame) string {
	var b strings.Builder
	writeHeader(&b, f)
	if f.mode == modeAdd {
		writeAddForm(&b, f)
	}
	writeList(&b, f)
	writeSummary(&b, f)
	if f.err != "" {
		b.WriteString(errorStyle.Render("Error: "+f.err) + "\n")
	}
	writeToasts(&b, f.toasts)
	if f.help != "" {
		b.WriteString("\n" + f.help + "\n")
	}
	return b.String()
}

func writeHeader(b *strings.Builder, f frame) {
	tabs := make([]string, 0, 3)
	for i, filter := range todo.Filters() {
		label := fmt.Sprintf("%d %s", i+1, filter.Label())
		if filter == f.filter {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, titleStyle.Render("Tasks"), " ", strings.Join(tabs, "")))
	b.WriteString("\n\n")
}

func writeAddForm(b *strings.Builder, f frame) {
	body := "Task:     " + f.addText + "\nDeadline: " + f.addDeadline
	style := formStyle
	if f.width > 4 {
		style = style.Width(f.width - 4)
	}
	b.WriteString(style.Render(body))
	b.WriteString("\n\n")
}

func writeList(b *strings.Builder, f frame) {
	if len(f.entries) == 0 {
		b.WriteString(mutedStyle.Render("  "+EmptyMessage) + "\n")
		return
	}

	entries := f.entries
	cursor := f.cursor
	if f.mode == modeGrab {
		entries = previewMove(entries, f.grabFrom, f.grabTo)
		cursor = f.grabTo
	}

	for i, e := range entries {
		b.WriteString(formatRow(f, e, i == cursor))
		b.WriteString("\n")
	}
}

// previewMove returns entries with from moved to to, for display only.
func previewMove(entries []todo.Entry, from, to int) []todo.Entry {
	if from < 0 || from >= len(entries) || to < 0 || to >= len(entries) || from == to {
		return entries
	}
	out := make([]todo.Entry, 0, len(entries))
	out = append(out, entries[:from]...)
	out = append(out, entries[from+1:]...)
	held := entries[from]
	out = append(out[:to], append([]todo.Entry{held}, out[to:]...)...)
	return out
}

func formatRow(f frame, e todo.Entry, selected bool) string {
	pointer := "  "
	if selected {
		pointer = "> "
	}

	if f.mode == modeEdit && e.Index == f.editIndex {
		return pointer + "✎ " + f.editInput
	}

	check := "[ ]"
	if e.Task.Completed {
		check = "[x]"
	}

	text := e.Task.Text
	switch {
	case f.mode == modeGrab && selected:
		text = grabbedTaskStyle.Render("≡ " + text)
	case e.Task.Completed:
		text = completedTaskStyle.Render(text)
	case selected:
		text = selectedTaskStyle.Render(text)
	default:
		text = taskStyle.Render(text)
	}

	line := pointer + check + " " + text
	if e.Task.HasDeadline() {
		line += "  " + deadlineStyle.Render("⏰ "+e.Task.DeadlineString())
	}
	return line
}

func writeSummary(b *strings.Builder, f frame) {
	b.WriteString("\n")
	summary := fmt.Sprintf("%d tasks · %d completed · %d shown", f.total, f.completed, len(f.entries))
	if f.mode != modeList {
		summary += " · " + f.mode.String()
	}
	b.WriteString(mutedStyle.Render(summary) + "\n")
}

func writeToasts(b *strings.Builder, toasts []notify.Notification) {
	if len(toasts) == 0 {
		return
	}
	b.WriteString("\n")
	for _, t := range toasts {
		b.WriteString(toastStyle(t.Severity).Render(t.Message) + "\n")
	}
}
