package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tel9980/KVideo/internal/gate"
	"github.com/tel9980/KVideo/internal/store"
	"github.com/tel9980/KVideo/internal/sync"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CheckingView ViewState = iota
	LockedView
	LibraryView
)

const shakeFrames = 6

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	gate   *gate.Gate
	store  store.SettingsStore
	syncer *sync.Syncer

	view   ViewState
	width  int
	height int

	input      textinput.Model
	sourceList list.Model
	listReady  bool

	states     chan gate.State
	stopNotify func()

	shakeFrame int
	errText    string
	statusText string

	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model wired to the gate and settings store.
// The syncer may be nil when manual refresh is unavailable.
func NewModel(ctx context.Context, g *gate.Gate, st store.SettingsStore, syncer *sync.Syncer) *Model {
	input := textinput.New()
	input.Placeholder = "password"
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	input.CharLimit = 128

	m := &Model{
		ctx:    ctx,
		gate:   g,
		store:  st,
		syncer: syncer,
		view:   CheckingView,
		input:  input,
		states: make(chan gate.State, 8),
		help:   help.New(),
		keys:   newKeyMap(),
	}

	m.stopNotify = g.Notify(func(s gate.State) {
		select {
		case m.states <- s:
		default:
		}
	})

	return m
}

// Init resolves the gate locally, kicks off server confirmation, and starts
// listening for transitions.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.resolveGate(), m.waitForGate())
}

// Close unregisters the gate listener.
func (m *Model) Close() {
	if m.stopNotify != nil {
		m.stopNotify()
		m.stopNotify = nil
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listReady {
			m.sourceList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LockedView:
			return m.handleLockedKeys(msg)
		case LibraryView:
			return m.handleLibraryKeys(msg)
		default:
			if msg.String() == "q" || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}

	case gateStateMsg:
		m.applyState(gate.State(msg))
		return m, m.waitForGate()

	case unlockResultMsg:
		if msg.err != nil {
			m.errText = "Wrong password"
			m.input.Reset()
			m.shakeFrame = shakeFrames
			return m, m.shakeTick(m.shakeFrame)
		}
		// Success arrives as a gate transition via the listener.
		m.errText = ""
		return m, nil

	case shakeTickMsg:
		if msg.frame != m.shakeFrame {
			return m, nil
		}
		m.shakeFrame--
		if m.shakeFrame <= 0 {
			m.shakeFrame = 0
			return m, nil
		}
		return m, m.shakeTick(m.shakeFrame)

	case syncDoneMsg:
		if msg.err != nil {
			m.statusText = styles.err.Render(fmt.Sprintf("refresh failed: %v", msg.err))
		} else {
			m.statusText = styles.ok.Render(fmt.Sprintf("refreshed %d feeds, skipped %d", len(msg.result.Results), msg.result.Skipped))
			m.rebuildList()
		}
		return m, nil
	}

	if m.view == LibraryView && m.listReady {
		var cmd tea.Cmd
		m.sourceList, cmd = m.sourceList.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case CheckingView:
		return m.renderChecking()
	case LockedView:
		return m.renderLocked()
	case LibraryView:
		return m.renderLibrary()
	default:
		return ""
	}
}

func (m *Model) applyState(s gate.State) {
	switch s {
	case gate.Locked:
		m.view = LockedView
		m.input.Focus()
	case gate.Unlocked:
		m.view = LibraryView
		m.errText = ""
		m.rebuildList()
	default:
		m.view = CheckingView
	}
}

func (m *Model) rebuildList() {
	items := sourceItems(m.store.Get())
	if !m.listReady {
		m.sourceList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.sourceList.Title = "Library"
		m.sourceList.SetSize(m.width-4, m.height-8)
		m.listReady = true
		return
	}
	m.sourceList.SetItems(items)
}

func (m *Model) handleLockedKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.input.Reset()
		m.errText = ""
		return m, nil
	case "enter":
		candidate := strings.TrimSpace(m.input.Value())
		if candidate == "" {
			return m, nil
		}
		return m, m.attemptUnlock(candidate)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleLibraryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Let an active list filter swallow plain keys.
	if m.listReady && m.sourceList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.sourceList, cmd = m.sourceList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "s":
		if m.syncer != nil {
			m.statusText = styles.warn.Render("refreshing subscriptions...")
			return m, m.runSync()
		}
		return m, nil
	case "L":
		if err := m.gate.Lock(); err != nil {
			m.statusText = styles.err.Render(fmt.Sprintf("lock failed: %v", err))
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.listReady {
		m.sourceList, cmd = m.sourceList.Update(msg)
	}
	return m, cmd
}

func (m *Model) resolveGate() tea.Cmd {
	return func() tea.Msg {
		m.gate.Init()
		// Best effort. Failure keeps the provisional state.
		_ = m.gate.RefreshConfig(m.ctx)
		return gateStateMsg(m.gate.State())
	}
}

func (m *Model) waitForGate() tea.Cmd {
	return func() tea.Msg {
		return gateStateMsg(<-m.states)
	}
}

func (m *Model) attemptUnlock(candidate string) tea.Cmd {
	return func() tea.Msg {
		return unlockResultMsg{err: m.gate.Unlock(m.ctx, candidate)}
	}
}

func (m *Model) runSync() tea.Cmd {
	return func() tea.Msg {
		result, err := m.syncer.SyncNow(m.ctx)
		return syncDoneMsg{result: result, err: err}
	}
}

func (m *Model) shakeTick(frame int) tea.Cmd {
	return tea.Tick(40*time.Millisecond, func(time.Time) tea.Msg {
		return shakeTickMsg{frame: frame}
	})
}

func (m *Model) renderChecking() string {
	// Nothing is shown until the first local read resolves; neither the gate
	// nor the library may flash early.
	if m.gate.State() == gate.Uninitialized {
		return ""
	}

	title := styles.title.Render("KVideo")
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})
	return fmt.Sprintf("%s\nChecking access...\n\n%s", title, helpView)
}

func (m *Model) renderLocked() string {
	title := styles.title.Render("KVideo is locked")

	// Horizontal nudge while the shake animation runs.
	indent := ""
	if m.shakeFrame > 0 && m.shakeFrame%2 == 0 {
		indent = "  "
	} else if m.shakeFrame > 0 {
		indent = " "
	}

	prompt := indent + m.input.View()

	errLine := ""
	if m.errText != "" {
		errLine = "\n" + styles.err.Render(m.errText)
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.submit, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s%s\n\n%s", title, prompt, errLine, helpView)
}

func (m *Model) renderLibrary() string {
	listView := ""
	if m.listReady {
		listView = m.sourceList.View()
	}

	status := ""
	if m.statusText != "" {
		status = "\n" + m.statusText
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.sync, m.keys.lock, m.keys.quit})
	return fmt.Sprintf("%s%s\n\n%s", listView, status, helpView)
}
