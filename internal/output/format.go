// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/tasks-go/internal/todo"
)

// Format selects how a task view is written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// EmptyMessage is printed by the text format when a view has no tasks.
const EmptyMessage = "No tasks found."

// ParseFormat parses a format name. Empty input means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid format %q, must be one of: text, json, yaml", s)
	}
}

// Write renders entries to w in the given format.
func Write(w io.Writer, f Format, entries []todo.Entry) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, entries)
	case FormatYAML:
		return WriteYAML(w, entries)
	default:
		WriteText(w, entries)
		return nil
	}
}

// WriteText writes one numbered line per entry. Numbers are 1-based store
// indices, so they stay valid for done/edit/rm whatever filter is active.
// Format: "{N:>3}. [x] {TEXT}  ⏰ {DEADLINE}\n"
func WriteText(w io.Writer, entries []todo.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, EmptyMessage)
		return
	}
	for _, e := range entries {
		FormatTask(w, e.Index+1, e.Task)
	}
}

// FormatTask writes a single task line.
func FormatTask(w io.Writer, num int, task todo.Task) {
	mark := " "
	if task.Completed {
		mark = "x"
	}
	line := fmt.Sprintf("%3d. [%s] %s", num, mark, normalizeText(task.Text))
	if task.HasDeadline() {
		line += "  ⏰ " + task.DeadlineString()
	}
	fmt.Fprintln(w, line)
}

// WriteJSON writes the view in the persisted task shape.
func WriteJSON(w io.Writer, entries []todo.Entry) error {
	data, err := todo.Encode(todo.Tasks(entries))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteYAML writes the view as a YAML sequence.
func WriteYAML(w io.Writer, entries []todo.Entry) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(todo.Tasks(entries)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// Summary writes a one-line count of the list, e.g. "3 tasks, 1 completed".
func Summary(w io.Writer, l todo.List) {
	completed, _ := l.Counts()
	noun := "tasks"
	if len(l) == 1 {
		noun = "task"
	}
	fmt.Fprintf(w, "%d %s, %d completed\n", len(l), noun, completed)
}

// normalizeText keeps each task on one line.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	return strings.ReplaceAll(text, "\n", " ")
}
