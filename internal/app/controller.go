package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/notify"
	"github.com/nibzard/tasks-go/internal/storage"
	"github.com/nibzard/tasks-go/internal/todo"
)

// Notification messages.
const (
	MsgAdded     = "Task added!"
	MsgDeleted   = "Task deleted"
	MsgCleared   = "All tasks cleared"
	MsgUpdated   = "Task updated!"
	MsgReordered = "Tasks reordered"
)

// Controller owns the task list. Every successful mutation rewrites the
// whole list to the store before returning; a failed write restores the
// previous list.
//
// A Controller is not safe for concurrent use.
type Controller struct {
	store    storage.Store
	key      string
	notifier notify.Notifier
	logger   *log.Logger
	state    State
}

// Open loads the list stored under key. A missing value starts an empty
// list. A value that fails to decode is quarantined and the list starts
// empty; the LoadReport says where it went.
func Open(store storage.Store, key string, notifier notify.Notifier, logger *log.Logger) (*Controller, LoadReport, error) {
	if notifier == nil {
		notifier = notify.Discard
	}
	if logger == nil {
		logger = logging.Discard()
	}
	c := &Controller{
		store:    store,
		key:      key,
		notifier: notifier,
		logger:   logger,
		state:    State{Tasks: todo.List{}, Filter: todo.FilterAll},
	}
	report := LoadReport{Key: key}

	data, err := store.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		logger.Debug("no stored tasks", "key", key)
		return c, report, nil
	}
	if err != nil {
		return nil, report, fmt.Errorf("load tasks: %w", err)
	}
	report.Found = true

	list, err := todo.Decode(data)
	if err != nil {
		where, qerr := store.Quarantine(key)
		if qerr != nil {
			return nil, report, fmt.Errorf("quarantine corrupt tasks: %w", qerr)
		}
		report.Quarantined = where
		report.Err = err
		logger.Warn("stored tasks are corrupt; starting empty", "key", key, "moved_to", where, "err", err)
		return c, report, nil
	}

	c.state.Tasks = list
	report.Count = len(list)
	logger.Debug("loaded tasks", "key", key, "count", len(list))
	return c, report, nil
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	s := c.state
	s.Tasks = c.state.Tasks.Clone()
	return s
}

// Tasks returns a copy of the full list.
func (c *Controller) Tasks() todo.List {
	return c.state.Tasks.Clone()
}

// Len returns the number of tasks.
func (c *Controller) Len() int {
	return len(c.state.Tasks)
}

// Filter returns the active filter.
func (c *Controller) Filter() todo.Filter {
	return c.state.Filter
}

// SetFilter changes the active filter. Nothing is persisted.
func (c *Controller) SetFilter(f todo.Filter) {
	c.state.Filter = f
}

// Visible returns the tasks matching the active filter with their store
// indices.
func (c *Controller) Visible() []todo.Entry {
	return c.state.Tasks.View(c.state.Filter)
}

// Add appends a task. Blank text is ignored and reports false with no error.
// deadline is optional and must be YYYY-MM-DD when given.
func (c *Controller) Add(text, deadline string) (bool, error) {
	if strings.TrimSpace(text) == "" {
		return false, nil
	}
	d, err := todo.ParseDeadline(deadline)
	if err != nil {
		return false, err
	}
	next, err := c.state.Tasks.Add(text, d)
	if err != nil {
		return false, err
	}
	if err := c.commit("add", next, len(next)-1); err != nil {
		return false, err
	}
	c.notifier.Notify(notify.SeveritySuccess, MsgAdded)
	return true, nil
}

// Toggle flips the completed flag of task i.
func (c *Controller) Toggle(i int) error {
	next, err := c.state.Tasks.Toggle(i)
	if err != nil {
		return err
	}
	return c.commit("toggle", next, i)
}

// Delete removes task i.
func (c *Controller) Delete(i int) error {
	next, err := c.state.Tasks.Delete(i)
	if err != nil {
		return err
	}
	prevEdit := c.state.Edit
	c.state.Edit = editAfterDelete(c.state.Edit, i)
	if err := c.commit("delete", next, i); err != nil {
		c.state.Edit = prevEdit
		return err
	}
	c.notifier.Notify(notify.SeverityInfo, MsgDeleted)
	return nil
}

// ClearAll removes every task.
func (c *Controller) ClearAll() error {
	prevEdit := c.state.Edit
	c.state.Edit = EditState{}
	if err := c.commit("clear", c.state.Tasks.Clear(), -1); err != nil {
		c.state.Edit = prevEdit
		return err
	}
	c.notifier.Notify(notify.SeverityWarning, MsgCleared)
	return nil
}

// Edit replaces the text of task i. Blank text returns todo.ErrEmptyText.
func (c *Controller) Edit(i int, text string) error {
	next, err := c.state.Tasks.Edit(i, text)
	if err != nil {
		return err
	}
	if err := c.commit("edit", next, i); err != nil {
		return err
	}
	c.notifier.Notify(notify.SeveritySuccess, MsgUpdated)
	return nil
}

// Reorder moves task from to position to (splice semantics).
func (c *Controller) Reorder(from, to int) error {
	next, err := c.state.Tasks.Move(from, to)
	if err != nil {
		return err
	}
	prevEdit := c.state.Edit
	c.state.Edit = editAfterMove(c.state.Edit, from, to, len(next))
	if err := c.commit("reorder", next, from); err != nil {
		c.state.Edit = prevEdit
		return err
	}
	c.notifier.Notify(notify.SeverityNeutral, MsgReordered)
	return nil
}

// DragEnd completes a drag. A drop with no destination changes nothing.
func (c *Controller) DragEnd(r DragResult) error {
	if r.Destination == nil {
		c.logger.Debug("drag cancelled", "op", "reorder", "index", r.Source)
		return nil
	}
	return c.Reorder(r.Source, *r.Destination)
}

// commit installs next and persists it, restoring the previous list if the
// write fails.
func (c *Controller) commit(op string, next todo.List, index int) error {
	prev := c.state.Tasks
	c.state.Tasks = next
	if err := c.persist(); err != nil {
		c.state.Tasks = prev
		c.logger.Error("persist failed", "op", op, "index", index, "err", err)
		return fmt.Errorf("persist tasks: %w", err)
	}
	c.logger.Debug("persisted", "op", op, "index", index, "count", len(next))
	return nil
}

func (c *Controller) persist() error {
	data, err := todo.Encode(c.state.Tasks)
	if err != nil {
		return err
	}
	return c.store.Set(c.key, data)
}
