// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks-go/internal/app"
	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/notify"
	"github.com/nibzard/tasks-go/internal/todo"
)

// DefaultTickInterval is how often expired notifications are pruned.
const DefaultTickInterval = 250 * time.Millisecond

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	altScreen    bool
	tickInterval time.Duration
	logger       *log.Logger
	input        io.Reader
	output       io.Writer
}

// WithAltScreen runs the program in the alternate screen buffer.
func WithAltScreen(enabled bool) TUIOption {
	return func(c *tuiConfig) {
		c.altScreen = enabled
	}
}

// WithTickInterval overrides how often notifications are pruned.
func WithTickInterval(d time.Duration) TUIOption {
	return func(c *tuiConfig) {
		if d > 0 {
			c.tickInterval = d
		}
	}
}

// WithLogger sets the logger for key handling and errors.
func WithLogger(logger *log.Logger) TUIOption {
	return func(c *tuiConfig) {
		c.logger = logger
	}
}

// WithIO replaces the terminal input and output. The TTY check is skipped.
func WithIO(in io.Reader, out io.Writer) TUIOption {
	return func(c *tuiConfig) {
		c.input = in
		c.output = out
	}
}

// RunTUI starts the TUI over ctrl. Notifications raised by ctrl should be
// delivered to center so they show up as toasts.
func RunTUI(ctx context.Context, ctrl *app.Controller, center *notify.Center, opts ...TUIOption) error {
	c := &tuiConfig{
		altScreen:    true,
		tickInterval: DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.input == nil && !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(ctrl, center, c.logger, c.tickInterval)
	return runProgram(ctx, model, c)
}

func runProgram(ctx context.Context, model *tuiModel, c *tuiConfig) error {
	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if c.altScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	if c.input != nil {
		programOpts = append(programOpts, tea.WithInput(c.input))
	}
	if c.output != nil {
		programOpts = append(programOpts, tea.WithOutput(c.output))
	}

	program := tea.NewProgram(model, programOpts...)
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

type tuiModel struct {
	ctrl   *app.Controller
	center *notify.Center
	logger *log.Logger

	keys keyMap
	help help.Model

	textInput     textinput.Model
	deadlineInput textinput.Model
	editInput     textinput.Model

	mode     mode
	cursor   int // position in the visible entries
	grabFrom int
	grabTo   int
	err      error
	width    int

	tickInterval time.Duration
	now          func() time.Time
}

type tickMsg time.Time

func newTUIModel(ctrl *app.Controller, center *notify.Center, logger *log.Logger, tick time.Duration) *tuiModel {
	if logger == nil {
		logger = logging.Discard()
	}
	if center == nil {
		center = notify.NewCenter(0)
	}

	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = 0
	ti.Width = 50

	di := textinput.New()
	di.Placeholder = todo.DeadlineLayout
	di.CharLimit = len(todo.DeadlineLayout)
	di.Width = len(todo.DeadlineLayout) + 1

	// Unlimited, so editing never cuts a task stored through the CLI.
	ei := textinput.New()
	ei.CharLimit = 0
	ei.Width = 50
	ei.Prompt = ""

	return &tuiModel{
		ctrl:          ctrl,
		center:        center,
		logger:        logger,
		keys:          defaultKeyMap(),
		help:          help.New(),
		textInput:     ti,
		deadlineInput: di,
		editInput:     ei,
		tickInterval:  tick,
		now:           time.Now,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		m.center.Prune(time.Time(msg))
		return m, tickCmd(m.tickInterval)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeEdit:
			return m.updateEdit(msg)
		case modeGrab:
			return m.updateGrab(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m *tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	m.clampCursor()
	entries := m.ctrl.Visible()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(entries)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.All):
		m.setFilter(todo.FilterAll)
	case key.Matches(msg, m.keys.Completed):
		m.setFilter(todo.FilterCompleted)
	case key.Matches(msg, m.keys.Incomplete):
		m.setFilter(todo.FilterIncomplete)
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.deadlineInput.Blur()
		return m, m.textInput.Focus()
	case key.Matches(msg, m.keys.Clear):
		m.fail("clear", m.ctrl.ClearAll())
		m.clampCursor()
	case len(entries) == 0:
		// Row actions need a row.
	case key.Matches(msg, m.keys.Toggle):
		m.fail("toggle", m.ctrl.Toggle(entries[m.cursor].Index))
		m.clampCursor()
	case key.Matches(msg, m.keys.Delete):
		m.fail("delete", m.ctrl.Delete(entries[m.cursor].Index))
		m.clampCursor()
	case key.Matches(msg, m.keys.Edit):
		idx := entries[m.cursor].Index
		if m.fail("edit", m.ctrl.StartEdit(idx)) {
			return m, nil
		}
		m.mode = modeEdit
		m.editInput.SetValue(m.ctrl.Editing().Draft)
		m.editInput.CursorEnd()
		return m, m.editInput.Focus()
	case key.Matches(msg, m.keys.Grab):
		m.mode = modeGrab
		m.grabFrom = m.cursor
		m.grabTo = m.cursor
	}
	return m, nil
}

func (m *tuiModel) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.leaveAdd()
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		if m.textInput.Focused() {
			m.textInput.Blur()
			return m, m.deadlineInput.Focus()
		}
		m.deadlineInput.Blur()
		return m, m.textInput.Focus()
	case key.Matches(msg, m.keys.Submit):
		m.err = nil
		added, err := m.ctrl.Add(m.textInput.Value(), m.deadlineInput.Value())
		if m.fail("add", err) || !added {
			return m, nil
		}
		m.textInput.Reset()
		m.deadlineInput.Reset()
		m.deadlineInput.Blur()
		m.cursor = max(0, len(m.ctrl.Visible())-1)
		return m, m.textInput.Focus()
	}

	var cmd tea.Cmd
	if m.textInput.Focused() {
		m.textInput, cmd = m.textInput.Update(msg)
	} else {
		m.deadlineInput, cmd = m.deadlineInput.Update(msg)
	}
	return m, cmd
}

func (m *tuiModel) leaveAdd() {
	m.mode = modeList
	m.err = nil
	m.textInput.Blur()
	m.deadlineInput.Blur()
	m.textInput.Reset()
	m.deadlineInput.Reset()
}

func (m *tuiModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.CancelEdit()
		m.leaveEdit()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		m.err = nil
		if m.fail("edit", m.ctrl.SaveEdit()) {
			return m, nil
		}
		m.leaveEdit()
		m.clampCursor()
		return m, nil
	}

	var cmd tea.Cmd
	before := m.editInput.Value()
	m.editInput, cmd = m.editInput.Update(msg)
	if v := m.editInput.Value(); v != before {
		m.ctrl.SetDraft(v)
	}
	return m, cmd
}

func (m *tuiModel) leaveEdit() {
	m.mode = modeList
	m.editInput.Blur()
	m.editInput.Reset()
}

func (m *tuiModel) updateGrab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.ctrl.Visible()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.grabTo > 0 {
			m.grabTo--
		}
	case key.Matches(msg, m.keys.Down):
		if m.grabTo < len(entries)-1 {
			m.grabTo++
		}
	case key.Matches(msg, m.keys.Submit):
		dest := entries[m.grabTo].Index
		err := m.ctrl.DragEnd(app.DragResult{Source: entries[m.grabFrom].Index, Destination: &dest})
		m.mode = modeList
		if !m.fail("move", err) {
			m.cursor = m.grabTo
		}
	case key.Matches(msg, m.keys.Cancel):
		m.fail("move", m.ctrl.DragEnd(app.DragResult{Source: entries[m.grabFrom].Index}))
		m.mode = modeList
	}
	return m, nil
}

func (m *tuiModel) setFilter(f todo.Filter) {
	m.ctrl.SetFilter(f)
	m.cursor = 0
}

func (m *tuiModel) clampCursor() {
	n := len(m.ctrl.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// fail records err for display and reports whether there was one.
func (m *tuiModel) fail(op string, err error) bool {
	if err == nil {
		return false
	}
	m.err = err
	m.logger.Error("action failed", "op", op, "err", err)
	return true
}

func (m *tuiModel) View() string {
	state := m.ctrl.State()
	completed, _ := state.Tasks.Counts()

	f := frame{
		filter:    state.Filter,
		entries:   state.Tasks.View(state.Filter),
		total:     len(state.Tasks),
		completed: completed,
		cursor:    m.cursor,
		mode:      m.mode,
		grabFrom:  m.grabFrom,
		grabTo:    m.grabTo,
		toasts:    m.center.Active(m.now()),
		width:     m.width,
	}
	if m.err != nil {
		f.err = m.err.Error()
	}

	switch m.mode {
	case modeAdd:
		f.addText = m.textInput.View()
		f.addDeadline = m.deadlineInput.View()
		f.help = m.help.View(formKeys{keyMap: m.keys, withTab: true})
	case modeEdit:
		f.editIndex = state.Edit.Index
		f.editInput = m.editInput.View()
		f.help = m.help.View(formKeys{keyMap: m.keys})
	case modeGrab:
		f.help = m.help.View(grabKeys{m.keys})
	default:
		f.help = m.help.View(m.keys)
	}
	return render(f)
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
