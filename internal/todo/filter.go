package todo

import (
	"fmt"
	"strings"
)

// Filter selects which tasks a view shows.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterCompleted  Filter = "completed"
	FilterIncomplete Filter = "incomplete"
)

// Filters lists the filters in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterCompleted, FilterIncomplete}
}

// ParseFilter parses a filter name. Empty input means FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "completed", "done":
		return FilterCompleted, nil
	case "incomplete", "open", "todo":
		return FilterIncomplete, nil
	default:
		return FilterAll, fmt.Errorf("invalid filter %q, must be one of: all, completed, incomplete", s)
	}
}

// Label returns the capitalized filter name.
func (f Filter) Label() string {
	s := string(f)
	if s == "" {
		s = string(FilterAll)
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Match reports whether the filter keeps t.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterCompleted:
		return t.Completed
	case FilterIncomplete:
		return !t.Completed
	default:
		return true
	}
}

// Entry is a task in a filtered view along with its store index.
type Entry struct {
	Index int
	Task  Task
}

// View projects the list through f, keeping store order.
func (l List) View(f Filter) []Entry {
	entries := make([]Entry, 0, len(l))
	for i, t := range l {
		if f.Match(t) {
			entries = append(entries, Entry{Index: i, Task: t})
		}
	}
	return entries
}

// Tasks returns the tasks of a view without their indices.
func Tasks(entries []Entry) List {
	out := make(List, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Task)
	}
	return out
}
