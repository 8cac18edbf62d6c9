// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and the user action channel
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ActionKind names a user request from the keyboard
type ActionKind int

const (
	ToggleMic ActionKind = iota
	ToggleCamera
	Reconnect
	AddSelected
	Checkout
	Home
	SendText
)

// Action is one user request
type Action struct {
	Kind      ActionKind
	ProductID string
	Text      string
}

// QuitMsg signals the user asked to quit
type QuitMsg struct{}

// Controls holds channels for user requests
type Controls struct {
	Actions chan Action
	Quit    chan QuitMsg
}

// NewControls creates a new control handler
func NewControls() *Controls {
	return &Controls{
		Actions: make(chan Action, 10),
		Quit:    make(chan QuitMsg, 1),
	}
}

// send queues an action without blocking the UI
func (c *Controls) send(a Action) {
	if c == nil {
		return
	}
	select {
	case c.Actions <- a:
	default:
	}
}

func (c *Controls) quit() {
	if c == nil {
		return
	}
	select {
	case c.Quit <- QuitMsg{}:
	default:
	}
}

// NewModel creates a new TUI model
func NewModel(controls *Controls) Model {
	return Model{
		connection: "disconnected",
		controls:   controls,
	}
}

// Run starts the TUI
func Run(controls *Controls) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(controls), tea.WithAltScreen())
	return p, nil
}
