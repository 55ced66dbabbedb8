package app

import (
	"errors"
	"strings"

	"github.com/nibzard/tasks-go/internal/todo"
)

// ErrNotEditing is returned by SaveEdit when no edit is in progress.
var ErrNotEditing = errors.New("no edit in progress")

// Editing returns the current edit state.
func (c *Controller) Editing() EditState {
	return c.state.Edit
}

// StartEdit begins editing task i with its current text as the draft. An
// edit already in progress on another task is dropped without saving.
func (c *Controller) StartEdit(i int) error {
	if i < 0 || i >= len(c.state.Tasks) {
		return &todo.IndexError{Index: i, Len: len(c.state.Tasks)}
	}
	c.state.Edit = EditState{Active: true, Index: i, Draft: c.state.Tasks[i].Text}
	return nil
}

// SetDraft replaces the draft text. It does nothing when not editing.
func (c *Controller) SetDraft(s string) {
	if !c.state.Edit.Active {
		return
	}
	c.state.Edit.Draft = s
}

// CancelEdit discards the draft. The list is not touched.
func (c *Controller) CancelEdit() {
	c.state.Edit = EditState{}
}

// SaveEdit writes the draft to the edited task and ends editing. A blank
// draft returns todo.ErrEmptyText and leaves the edit open.
func (c *Controller) SaveEdit() error {
	e := c.state.Edit
	if !e.Active {
		return ErrNotEditing
	}
	if strings.TrimSpace(e.Draft) == "" {
		return todo.ErrEmptyText
	}
	if err := c.Edit(e.Index, e.Draft); err != nil {
		return err
	}
	c.state.Edit = EditState{}
	return nil
}

// editAfterDelete keeps the edit pointed at the same task after index i is
// removed, or ends it if that task was the one removed.
func editAfterDelete(e EditState, i int) EditState {
	if !e.Active {
		return e
	}
	switch {
	case e.Index == i:
		return EditState{}
	case e.Index > i:
		e.Index--
	}
	return e
}

// editAfterMove follows the edited task through a splice of from to to in a
// list of length n.
func editAfterMove(e EditState, from, to, n int) EditState {
	if !e.Active {
		return e
	}
	if to < 0 {
		to = 0
	}
	if to > n-1 {
		to = n - 1
	}
	switch {
	case e.Index == from:
		e.Index = to
	case from < e.Index && e.Index <= to:
		e.Index--
	case to <= e.Index && e.Index < from:
		e.Index++
	}
	return e
}
