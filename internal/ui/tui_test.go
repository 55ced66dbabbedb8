package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/tasks-go/internal/app"
	"github.com/nibzard/tasks-go/internal/notify"
	"github.com/nibzard/tasks-go/internal/storage"
	"github.com/nibzard/tasks-go/internal/todo"
)

const seedABC = `[
  {"text":"A","completed":false,"deadline":null},
  {"text":"B","completed":true,"deadline":"2024-01-01"},
  {"text":"C","completed":false,"deadline":null}
]`

func newTestModel(t *testing.T, seed string) (*tuiModel, *app.Controller, *notify.Center) {
	t.Helper()
	store := storage.NewMemoryStore()
	if seed != "" {
		require.NoError(t, store.Set("tasks", []byte(seed)))
	}
	center := notify.NewCenter(time.Minute)
	ctrl, _, err := app.Open(store, "tasks", center, nil)
	require.NoError(t, err)
	return newTUIModel(ctrl, center, nil, DefaultTickInterval), ctrl, center
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	up    = tea.KeyMsg{Type: tea.KeyUp}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	ctrlU = tea.KeyMsg{Type: tea.KeyCtrlU}
)

func press(m *tuiModel, msgs ...tea.Msg) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}

func texts(l todo.List) []string {
	out := make([]string, len(l))
	for i, task := range l {
		out[i] = task.Text
	}
	return out
}

func TestEmptyView(t *testing.T) {
	m, _, _ := newTestModel(t, "")
	view := m.View()
	assert.Contains(t, view, EmptyMessage)
	assert.Contains(t, view, "1 All")
	assert.Contains(t, view, "0 tasks")
}

func TestAddFlow(t *testing.T) {
	m, ctrl, center := newTestModel(t, "")

	press(m, runes("a"))
	require.Equal(t, modeAdd, m.mode)
	assert.Contains(t, m.View(), "Deadline:")

	press(m, runes("Buy milk"), tab, runes("2024-05-06"), enter)
	tasks := ctrl.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Text)
	assert.Equal(t, "2024-05-06", tasks[0].DeadlineString())
	assert.False(t, tasks[0].Completed)

	assert.Equal(t, modeAdd, m.mode, "form stays open for the next task")
	assert.Empty(t, m.textInput.Value())
	assert.Empty(t, m.deadlineInput.Value())
	assert.True(t, m.textInput.Focused())
	assert.Equal(t, 1, center.Len())

	view := m.View()
	assert.Contains(t, view, "Buy milk")
	assert.Contains(t, view, "⏰ 2024-05-06")
	assert.Contains(t, view, app.MsgAdded)

	press(m, esc)
	assert.Equal(t, modeList, m.mode)
}

func TestAddBlankAndInvalidDeadline(t *testing.T) {
	m, ctrl, center := newTestModel(t, "")

	press(m, runes("a"), runes("   "), enter)
	assert.Equal(t, 0, ctrl.Len())
	assert.Nil(t, m.err)
	assert.Equal(t, 0, center.Len())

	press(m, ctrlU, runes("Pay"), tab, runes("tomorrow"), enter)
	assert.Equal(t, 0, ctrl.Len())
	assert.ErrorIs(t, m.err, todo.ErrInvalidDeadline)
	assert.Equal(t, modeAdd, m.mode)
	assert.Contains(t, m.View(), "Error:")
}

func TestTypingInFormDoesNotTriggerListKeys(t *testing.T) {
	m, ctrl, _ := newTestModel(t, seedABC)
	press(m, runes("a"), runes("q"), runes("d"), runes("C"))
	assert.Equal(t, 3, ctrl.Len())
	assert.Equal(t, "qdC", m.textInput.Value())
}

func TestToggleDeleteClear(t *testing.T) {
	m, ctrl, _ := newTestModel(t, seedABC)

	press(m, space)
	assert.True(t, ctrl.Tasks()[0].Completed)
	press(m, runes("x"))
	assert.False(t, ctrl.Tasks()[0].Completed)

	press(m, down, down, runes("d"))
	assert.Equal(t, []string{"A", "B"}, texts(ctrl.Tasks()))
	assert.Equal(t, 1, m.cursor, "cursor is clamped after delete")

	press(m, runes("C"))
	assert.Equal(t, 0, ctrl.Len())
	assert.Contains(t, m.View(), EmptyMessage)
	assert.Contains(t, m.View(), app.MsgCleared)

	// Row keys on an empty list do nothing.
	press(m, space, runes("d"), runes("e"), runes("m"))
	assert.Equal(t, modeList, m.mode)
	assert.Nil(t, m.err)
}

func TestFilterKeysAddressStoreIndices(t *testing.T) {
	m, ctrl, _ := newTestModel(t, seedABC)

	press(m, runes("2"))
	assert.Equal(t, todo.FilterCompleted, ctrl.Filter())
	view := m.View()
	assert.Contains(t, view, "B")
	assert.NotContains(t, view, "> [ ] A")

	press(m, space)
	assert.False(t, ctrl.Tasks()[1].Completed, "toggled B through the completed view")
	assert.Contains(t, m.View(), EmptyMessage)

	press(m, runes("3"))
	assert.Equal(t, todo.FilterIncomplete, ctrl.Filter())
	assert.Len(t, ctrl.Visible(), 3)

	press(m, runes("1"))
	assert.Equal(t, todo.FilterAll, ctrl.Filter())
}

func TestEditFlow(t *testing.T) {
	m, ctrl, _ := newTestModel(t, seedABC)

	press(m, runes("e"))
	require.Equal(t, modeEdit, m.mode)
	assert.Equal(t, "A", m.editInput.Value())
	assert.Contains(t, m.View(), "✎")

	press(m, runes("pples"))
	assert.Equal(t, "Apples", ctrl.Editing().Draft)

	press(m, enter)
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "Apples", ctrl.Tasks()[0].Text)
	assert.False(t, ctrl.Editing().Active)
}

func TestEditKeepsLongText(t *testing.T) {
	m, ctrl, _ := newTestModel(t, "")
	long := strings.Repeat("x", 250)
	_, err := ctrl.Add(long, "")
	require.NoError(t, err)

	press(m, runes("e"), tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, long, ctrl.Editing().Draft, "cursor keys leave the draft alone")

	press(m, runes("!"), enter)
	require.Equal(t, modeList, m.mode)
	assert.Equal(t, long+"!", ctrl.Tasks()[0].Text)
}

func TestEditBlankKeepsEditing(t *testing.T) {
	m, ctrl, _ := newTestModel(t, seedABC)
	press(m, down, runes("e"), ctrlU, enter)

	assert.Equal(t, modeEdit, m.mode)
	assert.ErrorIs(t, m.err, todo.ErrEmptyText)
	assert.Equal(t, "B", ctrl.Tasks()[1].Text)

	press(m, esc)
	assert.Equal(t, modeList, m.mode)
	assert.False(t, ctrl.Editing().Active)
	assert.Equal(t, "B", ctrl.Tasks()[1].Text)
}

func TestGrabAndDrop(t *testing.T) {
	m, ctrl, center := newTestModel(t, seedABC)

	press(m, runes("m"))
	require.Equal(t, modeGrab, m.mode)
	press(m, down, down)
	assert.Contains(t, m.View(), "≡ A", "held task previews at its target")

	press(m, enter)
	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, []string{"B", "C", "A"}, texts(ctrl.Tasks()))
	assert.Equal(t, 2, m.cursor)
	assert.Contains(t, m.View(), app.MsgReordered)
	assert.Equal(t, 1, center.Len())
}

func TestGrabCancelChangesNothing(t *testing.T) {
	m, ctrl, center := newTestModel(t, seedABC)
	press(m, down, runes("m"), up, esc)

	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, []string{"A", "B", "C"}, texts(ctrl.Tasks()))
	assert.Equal(t, 0, center.Len())
}

func TestGrabWithinFilteredView(t *testing.T) {
	m, ctrl, _ := newTestModel(t, seedABC)
	// Incomplete view is [A(0), C(2)]; move C above A.
	press(m, runes("3"), down, runes("m"), up, enter)
	assert.Equal(t, []string{"C", "A", "B"}, texts(ctrl.Tasks()))
}

func TestTickPrunesToasts(t *testing.T) {
	m, ctrl, center := newTestModel(t, "")
	_, err := ctrl.Add("A", "")
	require.NoError(t, err)
	require.Equal(t, 1, center.Len())

	_, cmd := m.Update(tickMsg(time.Now()))
	assert.NotNil(t, cmd, "tick reschedules itself")
	assert.Equal(t, 1, center.Len())

	m.Update(tickMsg(time.Now().Add(time.Hour)))
	assert.Equal(t, 0, center.Len())

	m.now = func() time.Time { return time.Now().Add(time.Hour) }
	assert.NotContains(t, m.View(), app.MsgAdded)
}

func TestHelpAndQuit(t *testing.T) {
	m, _, _ := newTestModel(t, "")
	short := m.View()
	assert.Contains(t, short, "toggle")

	press(m, runes("?"))
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "clear all")

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWindowSize(t *testing.T) {
	m, _, _ := newTestModel(t, "")
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Equal(t, 80, m.width)
	assert.Equal(t, 80, m.help.Width)
}

func TestRenderIsPure(t *testing.T) {
	strptr := func(s string) *string { return &s }
	list := todo.List{
		{Text: "Buy milk", Completed: true, Deadline: strptr("2024-01-01")},
		{Text: "Call mom"},
	}
	f := frame{
		filter:    todo.FilterAll,
		entries:   list.View(todo.FilterAll),
		total:     2,
		completed: 1,
		cursor:    1,
		toasts:    []notify.Notification{{Severity: notify.SeverityInfo, Message: "Task deleted"}},
	}

	first := render(f)
	assert.Equal(t, first, render(f))
	assert.Contains(t, first, "[x] Buy milk")
	assert.Contains(t, first, "⏰ 2024-01-01")
	assert.Contains(t, first, "> [ ] Call mom")
	assert.Contains(t, first, "2 tasks · 1 completed · 2 shown")
	assert.Contains(t, first, "Task deleted")
	assert.Less(t, strings.Index(first, "Buy milk"), strings.Index(first, "Call mom"))
}

func TestPreviewMove(t *testing.T) {
	entries := todo.List{{Text: "A"}, {Text: "B"}, {Text: "C"}}.View(todo.FilterAll)
	got := previewMove(entries, 0, 2)
	assert.Equal(t, []string{"B", "C", "A"}, texts(todo.Tasks(got)))
	assert.Equal(t, []string{"A", "B", "C"}, texts(todo.Tasks(entries)), "input untouched")
	assert.Equal(t, entries, previewMove(entries, 1, 1))
	assert.Equal(t, entries, previewMove(entries, 0, 5))
}
