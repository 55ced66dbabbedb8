package app

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/tasks-go/internal/notify"
	"github.com/nibzard/tasks-go/internal/storage"
	"github.com/nibzard/tasks-go/internal/todo"
)

const key = "tasks"

type sent struct {
	Severity notify.Severity
	Message  string
}

type recorder struct {
	got []sent
}

func (r *recorder) Notify(s notify.Severity, msg string) {
	r.got = append(r.got, sent{s, msg})
}

func open(t *testing.T, seed string) (*Controller, *storage.MemoryStore, *recorder) {
	t.Helper()
	store := storage.NewMemoryStore()
	if seed != "" {
		require.NoError(t, store.Set(key, []byte(seed)))
	}
	rec := &recorder{}
	c, _, err := Open(store, key, rec, nil)
	require.NoError(t, err)
	return c, store, rec
}

func stored(t *testing.T, store *storage.MemoryStore) todo.List {
	t.Helper()
	data, err := store.Get(key)
	require.NoError(t, err)
	list, err := todo.Decode(data)
	require.NoError(t, err)
	return list
}

func texts(l todo.List) []string {
	out := make([]string, len(l))
	for i, task := range l {
		out[i] = task.Text
	}
	return out
}

const abc = `[
  {"text":"A","completed":false,"deadline":null},
  {"text":"B","completed":true,"deadline":"2024-01-01"},
  {"text":"C","completed":false,"deadline":null}
]`

func TestOpenEmpty(t *testing.T) {
	store := storage.NewMemoryStore()
	c, report, err := Open(store, key, nil, nil)
	require.NoError(t, err)
	assert.False(t, report.Found)
	assert.False(t, report.Recovered())
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, todo.FilterAll, c.Filter())
	assert.Empty(t, c.Visible())
}

func TestOpenLoadsSnapshot(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(key, []byte(abc)))

	c, report, err := Open(store, key, nil, nil)
	require.NoError(t, err)
	assert.True(t, report.Found)
	assert.Equal(t, 3, report.Count)
	assert.Equal(t, []string{"A", "B", "C"}, texts(c.Tasks()))
	assert.Equal(t, "2024-01-01", c.Tasks()[1].DeadlineString())
}

func TestOpenQuarantinesCorruptData(t *testing.T) {
	for name, seed := range map[string]string{
		"malformed json": `[{"text":`,
		"wrong shape":    `{"text":"A"}`,
		"missing field":  `[{"text":"A","deadline":null}]`,
	} {
		t.Run(name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			require.NoError(t, store.Set(key, []byte(seed)))
			var logs bytes.Buffer
			logger := log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel})

			c, report, err := Open(store, key, nil, logger)
			require.NoError(t, err)
			assert.Equal(t, 0, c.Len())
			assert.True(t, report.Recovered())
			assert.Equal(t, "memory:tasks#1", report.Quarantined)
			assert.ErrorIs(t, report.Err, todo.ErrMalformed)
			assert.Equal(t, [][]byte{[]byte(seed)}, store.QuarantinedValues(key))
			assert.Contains(t, logs.String(), "corrupt")

			_, err = store.Get(key)
			assert.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

type brokenStore struct {
	storage.Store
	getErr error
}

func (b brokenStore) Get(string) ([]byte, error) { return nil, b.getErr }

func TestOpenReadError(t *testing.T) {
	boom := errors.New("permission denied")
	_, _, err := Open(brokenStore{Store: storage.NewMemoryStore(), getErr: boom}, key, nil, nil)
	assert.ErrorIs(t, err, boom)
}

func TestAdd(t *testing.T) {
	c, store, rec := open(t, "")

	ok, err := c.Add("  Buy milk ", "")
	require.NoError(t, err)
	assert.True(t, ok)

	tasks := c.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, todo.Task{Text: "Buy milk"}, tasks[0])
	assert.Equal(t, tasks, stored(t, store))
	assert.Equal(t, []sent{{notify.SeveritySuccess, MsgAdded}}, rec.got)

	ok, err = c.Add("Pay rent", "2024-02-01")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2024-02-01", c.Tasks()[1].DeadlineString())
}

func TestAddBlankIsSilentNoop(t *testing.T) {
	c, store, rec := open(t, "")
	for _, text := range []string{"", "   ", "\t\n"} {
		ok, err := c.Add(text, "2024-01-01")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, rec.got)
	_, err := store.Get(key)
	assert.ErrorIs(t, err, storage.ErrNotFound, "nothing should be written")
}

func TestAddInvalidDeadline(t *testing.T) {
	c, _, rec := open(t, "")
	ok, err := c.Add("A", "next tuesday")
	assert.False(t, ok)
	assert.ErrorIs(t, err, todo.ErrInvalidDeadline)
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, rec.got)
}

func TestToggleTwiceRestores(t *testing.T) {
	c, store, rec := open(t, abc)
	before := c.Tasks()

	require.NoError(t, c.Toggle(0))
	assert.True(t, c.Tasks()[0].Completed)
	assert.True(t, stored(t, store)[0].Completed)

	require.NoError(t, c.Toggle(0))
	assert.Equal(t, before, c.Tasks())
	assert.Empty(t, rec.got, "toggle emits no notification")
}

func TestDeleteShiftsLaterIndices(t *testing.T) {
	c, store, rec := open(t, abc)
	require.NoError(t, c.Delete(1))
	assert.Equal(t, []string{"A", "C"}, texts(c.Tasks()))
	assert.Equal(t, []string{"A", "C"}, texts(stored(t, store)))
	assert.Equal(t, []sent{{notify.SeverityInfo, MsgDeleted}}, rec.got)
}

func TestClearAll(t *testing.T) {
	c, store, rec := open(t, abc)
	require.NoError(t, c.ClearAll())
	for _, f := range todo.Filters() {
		c.SetFilter(f)
		assert.Empty(t, c.Visible(), "filter %s", f)
	}
	assert.Empty(t, stored(t, store))
	assert.Equal(t, []sent{{notify.SeverityWarning, MsgCleared}}, rec.got)
}

func TestEdit(t *testing.T) {
	c, store, rec := open(t, abc)
	require.NoError(t, c.Edit(1, " Bread "))

	task := c.Tasks()[1]
	assert.Equal(t, "Bread", task.Text)
	assert.True(t, task.Completed, "completed is preserved")
	assert.Equal(t, "2024-01-01", task.DeadlineString(), "deadline is preserved")
	assert.Equal(t, "Bread", stored(t, store)[1].Text)
	assert.Equal(t, []sent{{notify.SeveritySuccess, MsgUpdated}}, rec.got)

	assert.ErrorIs(t, c.Edit(1, "  "), todo.ErrEmptyText)
	assert.Equal(t, "Bread", c.Tasks()[1].Text)
}

func TestReorder(t *testing.T) {
	c, store, rec := open(t, abc)
	require.NoError(t, c.Reorder(0, 2))
	assert.Equal(t, []string{"B", "C", "A"}, texts(c.Tasks()))
	assert.Equal(t, []string{"B", "C", "A"}, texts(stored(t, store)))
	assert.Equal(t, []sent{{notify.SeverityNeutral, MsgReordered}}, rec.got)
}

func TestDragEnd(t *testing.T) {
	c, store, rec := open(t, abc)

	require.NoError(t, c.DragEnd(DragResult{Source: 0}))
	assert.Equal(t, []string{"A", "B", "C"}, texts(c.Tasks()))
	assert.Empty(t, rec.got)
	assert.JSONEq(t, abc, string(mustGet(t, store)), "no persist on cancelled drag")

	dest := 0
	require.NoError(t, c.DragEnd(DragResult{Source: 2, Destination: &dest}))
	assert.Equal(t, []string{"C", "A", "B"}, texts(c.Tasks()))
	assert.Len(t, rec.got, 1)
}

func mustGet(t *testing.T, store *storage.MemoryStore) []byte {
	t.Helper()
	data, err := store.Get(key)
	require.NoError(t, err)
	return data
}

func TestOutOfRange(t *testing.T) {
	c, _, rec := open(t, abc)
	ops := map[string]func() error{
		"toggle":  func() error { return c.Toggle(3) },
		"delete":  func() error { return c.Delete(-1) },
		"edit":    func() error { return c.Edit(5, "x") },
		"reorder": func() error { return c.Reorder(9, 0) },
		"start":   func() error { return c.StartEdit(3) },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := op()
			assert.ErrorIs(t, err, todo.ErrIndexOutOfRange)
			var ie *todo.IndexError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, 3, ie.Len)
		})
	}
	assert.Equal(t, []string{"A", "B", "C"}, texts(c.Tasks()))
	assert.Empty(t, rec.got)
}

func TestPersistFailureRollsBack(t *testing.T) {
	c, store, rec := open(t, abc)
	before := c.Tasks()
	store.SetErr = errors.New("disk full")

	_, err := c.Add("D", "")
	assert.ErrorContains(t, err, "persist tasks: disk full")
	assert.ErrorIs(t, c.Toggle(0), store.SetErr)
	assert.Error(t, c.Delete(0))
	assert.Error(t, c.ClearAll())
	assert.Error(t, c.Edit(0, "Z"))
	assert.Error(t, c.Reorder(0, 2))

	assert.Equal(t, before, c.Tasks())
	assert.Empty(t, rec.got, "no notification for a failed mutation")

	store.SetErr = nil
	require.NoError(t, c.Toggle(0))
	assert.True(t, stored(t, store)[0].Completed)
}

func TestFilterViewsCarryStoreIndices(t *testing.T) {
	c, _, _ := open(t, `[
  {"text":"A","completed":false,"deadline":null},
  {"text":"B","completed":true,"deadline":null}
]`)

	c.SetFilter(todo.FilterCompleted)
	view := c.Visible()
	require.Len(t, view, 1)
	assert.Equal(t, "B", view[0].Task.Text)
	assert.Equal(t, 1, view[0].Index)

	c.SetFilter(todo.FilterIncomplete)
	assert.Equal(t, []string{"A"}, texts(todo.Tasks(c.Visible())))

	c.SetFilter(todo.FilterAll)
	assert.Equal(t, []string{"A", "B"}, texts(todo.Tasks(c.Visible())))

	// Toggling through a filtered view addresses the right record.
	c.SetFilter(todo.FilterCompleted)
	require.NoError(t, c.Toggle(c.Visible()[0].Index))
	assert.False(t, c.Tasks()[1].Completed)
	assert.Empty(t, c.Visible())
}

func TestStateIsACopy(t *testing.T) {
	c, _, _ := open(t, abc)
	s := c.State()
	s.Tasks[0].Text = "mutated"
	*s.Tasks[1].Deadline = "1999-01-01"
	assert.Equal(t, "A", c.Tasks()[0].Text)
	assert.Equal(t, "2024-01-01", c.Tasks()[1].DeadlineString())
}

func TestRoundTripThroughStore(t *testing.T) {
	c, store, _ := open(t, "")
	_, err := c.Add("A", "")
	require.NoError(t, err)
	_, err = c.Add("B", "2024-03-04")
	require.NoError(t, err)
	require.NoError(t, c.Toggle(1))

	reopened, report, err := Open(store, key, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Count)
	assert.Equal(t, c.Tasks(), reopened.Tasks())
	assert.Contains(t, string(mustGet(t, store)), `"deadline": null`)
}
