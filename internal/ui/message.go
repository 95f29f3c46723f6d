package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tel9980/KVideo/internal/gate"
	"github.com/tel9980/KVideo/internal/sync"
)

var (
	_ tea.Msg = gateStateMsg(0)
	_ tea.Msg = unlockResultMsg{}
	_ tea.Msg = syncDoneMsg{}
	_ tea.Msg = shakeTickMsg{}
)

// gateStateMsg carries a gate transition into the Elm loop.
type gateStateMsg gate.State

// unlockResultMsg reports the outcome of a password attempt.
type unlockResultMsg struct {
	err error
}

// syncDoneMsg reports a manual subscription refresh.
type syncDoneMsg struct {
	result *sync.Result
	err    error
}

// shakeTickMsg advances the locked prompt's shake animation.
type shakeTickMsg struct {
	frame int
}
