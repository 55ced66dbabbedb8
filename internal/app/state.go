// Package app applies user intents to the task list: it mutates, persists
// the full snapshot, and emits notifications.
package app

import "github.com/nibzard/tasks-go/internal/todo"

// State is everything the views render from.
type State struct {
	Tasks  todo.List
	Filter todo.Filter
	Edit   EditState
}

// EditState tracks the single task being edited, if any.
type EditState struct {
	Active bool
	Index  int
	Draft  string
}

// DragResult is the outcome of a drag gesture. A nil Destination means the
// item was released outside any drop target.
type DragResult struct {
	Source      int
	Destination *int
}

// LoadReport describes what Open found in storage.
type LoadReport struct {
	Key   string
	Count int
	// Found is false when nothing was stored under Key yet.
	Found bool
	// Quarantined is where a corrupt value was moved, if any.
	Quarantined string
	// Err is the decode error that caused the quarantine.
	Err error
}

// Recovered reports whether loading had to discard stored data.
func (r LoadReport) Recovered() bool {
	return r.Quarantined != ""
}
