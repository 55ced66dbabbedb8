// Package todo holds the task list model and its pure transitions.
package todo

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DeadlineLayout is the accepted deadline format (what an HTML date input
// produces).
const DeadlineLayout = "2006-01-02"

var (
	// ErrEmptyText is returned when a task's text is blank after trimming.
	ErrEmptyText = errors.New("task text is empty")
	// ErrIndexOutOfRange is returned when an index does not address a task.
	ErrIndexOutOfRange = errors.New("task index out of range")
	// ErrInvalidDeadline is returned when a deadline is not YYYY-MM-DD.
	ErrInvalidDeadline = errors.New("invalid deadline")
)

// IndexError reports an index that does not address a task in the list.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("task index %d out of range (have %d tasks)", e.Index, e.Len)
}

// Is lets errors.Is match ErrIndexOutOfRange.
func (e *IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// Task is a single to-do record.
type Task struct {
	Text      string  `json:"text" yaml:"text"`
	Completed bool    `json:"completed" yaml:"completed"`
	Deadline  *string `json:"deadline" yaml:"deadline"`
}

// HasDeadline reports whether the task carries a non-empty deadline.
func (t Task) HasDeadline() bool {
	return t.Deadline != nil && *t.Deadline != ""
}

// DeadlineString returns the deadline or "" when unset.
func (t Task) DeadlineString() string {
	if t.Deadline == nil {
		return ""
	}
	return *t.Deadline
}

// List is the ordered task store.
type List []Task

// Len returns the number of tasks.
func (l List) Len() int {
	return len(l)
}

// Clone returns a copy that shares no backing array with l.
func (l List) Clone() List {
	if l == nil {
		return List{}
	}
	out := make(List, len(l))
	for i, t := range l {
		out[i] = t
		if t.Deadline != nil {
			d := *t.Deadline
			out[i].Deadline = &d
		}
	}
	return out
}

func (l List) checkIndex(i int) error {
	if i < 0 || i >= len(l) {
		return &IndexError{Index: i, Len: len(l)}
	}
	return nil
}

// Add appends a new incomplete task. The text is trimmed; a blank text
// returns ErrEmptyText and l unchanged. A nil or empty deadline is stored as
// null.
func (l List) Add(text string, deadline *string) (List, error) {
	text = cleanText(text)
	if text == "" {
		return l, ErrEmptyText
	}
	task := Task{Text: text}
	if deadline != nil && *deadline != "" {
		d := *deadline
		task.Deadline = &d
	}
	out := l.Clone()
	return append(out, task), nil
}

// Toggle flips the completed flag of the task at i.
func (l List) Toggle(i int) (List, error) {
	if err := l.checkIndex(i); err != nil {
		return l, err
	}
	out := l.Clone()
	out[i].Completed = !out[i].Completed
	return out, nil
}

// Delete removes the task at i.
func (l List) Delete(i int) (List, error) {
	if err := l.checkIndex(i); err != nil {
		return l, err
	}
	out := make(List, 0, len(l)-1)
	out = append(out, l[:i].Clone()...)
	out = append(out, l[i+1:].Clone()...)
	return out, nil
}

// Edit replaces the text of the task at i, leaving the other fields as they
// are.
func (l List) Edit(i int, text string) (List, error) {
	if err := l.checkIndex(i); err != nil {
		return l, err
	}
	text = cleanText(text)
	if text == "" {
		return l, ErrEmptyText
	}
	out := l.Clone()
	out[i].Text = text
	return out, nil
}

// cleanText trims text and replaces invalid UTF-8, so the stored JSON
// decodes back to the same string.
func cleanText(text string) string {
	return strings.TrimSpace(strings.ToValidUTF8(text, "\uFFFD"))
}

// Move removes the task at from and reinserts it at to. The destination is
// taken against the list after removal and clamped into range.
func (l List) Move(from, to int) (List, error) {
	if err := l.checkIndex(from); err != nil {
		return l, err
	}
	out := l.Clone()
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	if to < 0 {
		to = 0
	}
	if to > len(out) {
		to = len(out)
	}
	out = append(out, Task{})
	copy(out[to+1:], out[to:])
	out[to] = moved
	return out, nil
}

// Clear returns an empty list.
func (l List) Clear() List {
	return List{}
}

// Counts returns the number of completed and incomplete tasks.
func (l List) Counts() (completed, incomplete int) {
	for _, t := range l {
		if t.Completed {
			completed++
		} else {
			incomplete++
		}
	}
	return completed, incomplete
}

// ParseDeadline normalizes user input into a deadline pointer. Blank input
// yields nil; anything else must parse as YYYY-MM-DD.
func ParseDeadline(input string) (*string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	if _, err := time.Parse(DeadlineLayout, input); err != nil {
		return nil, fmt.Errorf("%w %q: expected YYYY-MM-DD", ErrInvalidDeadline, input)
	}
	return &input, nil
}
