// ABOUTME: Bubbletea model for the shopping assistant TUI
// ABOUTME: Defines view state and update logic
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/voicecart/internal/catalog"
	"github.com/harperreed/voicecart/internal/store"
)

// ToastDuration is how long an acknowledgement stays on screen
const ToastDuration = 3 * time.Second

// Model represents the TUI state
type Model struct {
	// Connection
	connection string
	serverURL  string
	sessionID  string

	// Capture
	micOn bool
	camOn bool

	// Shop
	shop   store.State
	cursor int

	// Toast
	toast    string
	toastSeq int

	// Prompt entry
	typing bool
	input  []rune

	// Stats
	played  int64
	queued  int
	dropped int64

	controls *Controls

	// Dimensions
	width  int
	height int
}

// StatusMsg updates connection and capture state
type StatusMsg struct {
	Connection string
	ServerURL  string
	SessionID  string
	Mic        *bool
	Camera     *bool
	Played     int64
	Queued     int
	Dropped    int64
}

// StateMsg carries a new application state snapshot
type StateMsg store.State

// ToastMsg shows an acknowledgement
type ToastMsg string

type toastExpiredMsg struct {
	seq int
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.typing {
			return m.handlePromptKey(msg)
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	case StateMsg:
		m.applyState(store.State(msg))
	case ToastMsg:
		return m, m.showToast(string(msg))
	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
	}

	return m, nil
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.controls.quit()
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.shop.Filtered)-1 {
			m.cursor++
		}
	case "m":
		m.controls.send(Action{Kind: ToggleMic})
	case "c":
		m.controls.send(Action{Kind: ToggleCamera})
	case "r":
		m.controls.send(Action{Kind: Reconnect})
	case "a", "enter":
		if p, ok := m.selected(); ok && !m.shop.IsCheckout {
			m.controls.send(Action{Kind: AddSelected, ProductID: p.ID})
		}
	case "o":
		m.controls.send(Action{Kind: Checkout})
	case "esc", "h":
		m.controls.send(Action{Kind: Home})
	case "/":
		m.typing = true
		m.input = m.input[:0]
	}

	return m, nil
}

// handlePromptKey edits the text prompt
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.controls.quit()
		return m, tea.Quit
	case tea.KeyEsc:
		m.typing = false
		m.input = nil
	case tea.KeyEnter:
		text := string(m.input)
		m.typing = false
		m.input = nil
		if text != "" {
			m.controls.send(Action{Kind: SendText, Text: text})
		}
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	}
	return m, nil
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Connection != "" {
		m.connection = msg.Connection
	}
	if msg.ServerURL != "" {
		m.serverURL = msg.ServerURL
	}
	if msg.SessionID != "" {
		m.sessionID = msg.SessionID
	}
	if msg.Mic != nil {
		m.micOn = *msg.Mic
	}
	if msg.Camera != nil {
		m.camOn = *msg.Camera
	}
	if msg.Played != 0 || msg.Queued != 0 || msg.Dropped != 0 {
		m.played = msg.Played
		m.queued = msg.Queued
		m.dropped = msg.Dropped
	}
}

// applyState replaces the shop snapshot and keeps the cursor in range
func (m *Model) applyState(state store.State) {
	m.shop = state
	if m.cursor >= len(state.Filtered) {
		m.cursor = len(state.Filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// showToast displays message and schedules it to hide
func (m *Model) showToast(message string) tea.Cmd {
	m.toast = message
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(ToastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// selected returns the product under the cursor
func (m Model) selected() (catalog.Product, bool) {
	if m.cursor < 0 || m.cursor >= len(m.shop.Filtered) {
		return catalog.Product{}, false
	}
	return m.shop.Filtered[m.cursor], true
}
