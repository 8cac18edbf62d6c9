// ABOUTME: WebSocket session with the shopping assistant
// ABOUTME: Owns the channel, serializes writes and dispatches inbound messages
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/harperreed/voicecart/internal/version"
	"github.com/harperreed/voicecart/pkg/protocol"
)

const (
	defaultWriteTimeout = 5 * time.Second
	defaultDialTimeout  = 10 * time.Second
	closeWait           = time.Second
)

// Config holds session configuration
type Config struct {
	URL          string
	WriteTimeout time.Duration
	DialTimeout  time.Duration

	// Callbacks run on the read goroutine in message order. They must not
	// call Close.
	OnAudio       func(protocol.AudioFragment)
	OnToolCall    func(protocol.ToolCallArgs)
	OnStateChange func(State)
	OnError       func(error)
}

// Stats tracks session traffic
type Stats struct {
	AudioSent     int64
	AudioDropped  int64
	ImagesSent    int64
	ImagesDropped int64
	TextSent      int64
	Inbound       int64
	Malformed     int64
}

// Session is one persistent channel to the assistant
type Session struct {
	config Config

	mu         sync.RWMutex
	state      State
	conn       *websocket.Conn
	id         string
	done       chan struct{}
	dialCancel context.CancelFunc
	abortDial  bool

	// afterDial runs between a successful dial and the move to Connected
	afterDial func()

	writeMu    sync.Mutex
	dropLogged atomic.Bool

	audioSent     atomic.Int64
	audioDropped  atomic.Int64
	imagesSent    atomic.Int64
	imagesDropped atomic.Int64
	textSent      atomic.Int64
	inbound       atomic.Int64
	malformed     atomic.Int64
}

// New creates a disconnected session
func New(config Config) *Session {
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = defaultWriteTimeout
	}
	if config.DialTimeout <= 0 {
		config.DialTimeout = defaultDialTimeout
	}
	return &Session{config: config}
}

// Open dials the assistant. There is no automatic retry.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Disconnected {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("session is %s", state)
	}
	dialCtx, cancel := context.WithTimeout(ctx, s.config.DialTimeout)
	s.dialCancel = cancel
	s.abortDial = false
	s.state = Connecting
	s.mu.Unlock()
	defer cancel()

	s.notifyState(Connecting)

	header := http.Header{}
	header.Set("User-Agent", version.UserAgent())

	log.Printf("Connecting to %s", s.config.URL)
	conn, resp, err := websocket.DefaultDialer.DialContext(dialCtx, s.config.URL, header)
	if err == nil && dialCtx.Err() != nil {
		conn.Close()
		err = dialCtx.Err()
	}
	if err != nil {
		if resp != nil {
			err = fmt.Errorf("%w (status %s)", err, resp.Status)
		}
		s.mu.Lock()
		s.state = Disconnected
		s.dialCancel = nil
		s.mu.Unlock()
		s.notifyState(Disconnected)
		return &TransportError{Op: "dial", URL: s.config.URL, Err: err}
	}

	if s.afterDial != nil {
		s.afterDial()
	}

	done := make(chan struct{})

	s.mu.Lock()
	if s.abortDial {
		s.abortDial = false
		s.state = Disconnected
		s.dialCancel = nil
		s.mu.Unlock()
		conn.Close()
		s.notifyState(Disconnected)
		return &TransportError{Op: "dial", URL: s.config.URL, Err: context.Canceled}
	}
	s.conn = conn
	s.id = uuid.New().String()
	s.done = done
	s.dialCancel = nil
	s.state = Connected
	id := s.id
	s.mu.Unlock()

	s.dropLogged.Store(false)
	log.Printf("Connected to %s (session %s)", s.config.URL, id)
	s.notifyState(Connected)

	go s.readLoop(conn, done)

	return nil
}

// readLoop handles every inbound message in order until the channel ends
func (s *Session) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			s.handleDisconnect(conn, err)
			return
		}

		switch messageType {
		case websocket.TextMessage:
			s.handleMessage(data)
		case websocket.BinaryMessage:
			log.Printf("Ignoring inbound binary frame (%d bytes)", len(data))
		}
	}
}

// handleMessage decodes one text message and fans it out to the callbacks
func (s *Session) handleMessage(data []byte) {
	s.inbound.Add(1)

	items, err := protocol.Decode(data)
	if err != nil {
		s.malformed.Add(1)
		log.Printf("Dropping malformed message: %v", err)
		return
	}

	for _, item := range items {
		switch msg := item.(type) {
		case protocol.AudioFragment:
			if s.config.OnAudio != nil {
				s.config.OnAudio(msg)
			}
		case protocol.ToolCall:
			log.Printf("Tool call: %s action=%s target=%q details=%q",
				msg.Name, msg.Args.Action, msg.Args.Target, msg.Args.Details)
			if s.config.OnToolCall != nil {
				s.config.OnToolCall(msg.Args)
			}
		case protocol.Unrecognized:
		}
	}
}

// handleDisconnect finishes teardown once the read side ends
func (s *Session) handleDisconnect(conn *websocket.Conn, err error) {
	s.mu.Lock()
	if s.conn != conn {
		s.mu.Unlock()
		return
	}
	wasClosing := s.state == Closing
	s.state = Closing
	s.mu.Unlock()

	if !wasClosing {
		s.notifyState(Closing)
	}

	conn.Close()

	s.mu.Lock()
	s.conn = nil
	s.state = Disconnected
	s.mu.Unlock()

	log.Printf("Disconnected from %s: %v", s.config.URL, err)
	s.notifyState(Disconnected)

	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseNormalClosure {
		return
	}
	if !wasClosing {
		s.notifyError(&TransportError{Op: "read", URL: s.config.URL, Err: err})
	}
}

// fail tears the channel down after a write error
func (s *Session) fail(conn *websocket.Conn, err error) {
	s.mu.Lock()
	if s.conn != conn || s.state != Connected {
		s.mu.Unlock()
		return
	}
	s.state = Closing
	s.mu.Unlock()

	s.notifyState(Closing)
	s.notifyError(err)
	conn.Close()
}

// write sends one frame under the write lock with a deadline
func (s *Session) write(messageType int, data []byte) error {
	s.mu.RLock()
	conn := s.conn
	state := s.state
	s.mu.RUnlock()

	if state != Connected || conn == nil {
		return ErrChannelClosed
	}

	s.writeMu.Lock()
	conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	err := conn.WriteMessage(messageType, data)
	s.writeMu.Unlock()

	if err != nil {
		terr := &TransportError{Op: "write", URL: s.config.URL, Err: err}
		s.fail(conn, terr)
		return terr
	}
	return nil
}

// SendAudio sends one encoded PCM chunk as a binary frame. Chunks sent
// while disconnected are dropped and nil is returned.
func (s *Session) SendAudio(chunk []byte) error {
	err := s.write(websocket.BinaryMessage, chunk)
	if errors.Is(err, ErrChannelClosed) {
		s.audioDropped.Add(1)
		if s.dropLogged.CompareAndSwap(false, true) {
			log.Printf("Dropping audio while %s", s.State())
		}
		return nil
	}
	if err != nil {
		return err
	}
	s.audioSent.Add(1)
	return nil
}

// SendImage sends one base64 camera frame
func (s *Session) SendImage(data, mimeType string) error {
	err := s.sendJSON(protocol.NewImage(data, mimeType))
	if errors.Is(err, ErrChannelClosed) {
		s.imagesDropped.Add(1)
		log.Printf("Dropping image while %s", s.State())
		return err
	}
	if err != nil {
		return err
	}
	s.imagesSent.Add(1)
	return nil
}

// SendText sends a typed prompt
func (s *Session) SendText(text string) error {
	err := s.sendJSON(protocol.NewText(text))
	if errors.Is(err, ErrChannelClosed) {
		log.Printf("Dropping text while %s", s.State())
		return err
	}
	if err != nil {
		return err
	}
	s.textSent.Add(1)
	return nil
}

func (s *Session) sendJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return s.write(websocket.TextMessage, data)
}

// Close ends the session and waits for the read side to finish. It must
// not be called from a session callback.
func (s *Session) Close() error {
	s.mu.Lock()
	switch s.state {
	case Disconnected:
		s.mu.Unlock()
		return nil
	case Connecting:
		cancel := s.dialCancel
		s.abortDial = true
		s.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		return nil
	case Closing:
		done := s.done
		s.mu.Unlock()
		if done != nil {
			<-done
		}
		return nil
	}

	conn := s.conn
	done := s.done
	s.state = Closing
	s.mu.Unlock()

	s.notifyState(Closing)

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(s.config.WriteTimeout)); err != nil {
		log.Printf("Failed to send close frame: %v", err)
	}

	select {
	case <-done:
	case <-time.After(closeWait):
		conn.Close()
		<-done
	}
	return nil
}

// State returns the current connection state
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsConnected reports whether sends will reach the channel
func (s *Session) IsConnected() bool {
	return s.State() == Connected
}

// ID returns the id of the current or last connection
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// Stats returns traffic counters
func (s *Session) Stats() Stats {
	return Stats{
		AudioSent:     s.audioSent.Load(),
		AudioDropped:  s.audioDropped.Load(),
		ImagesSent:    s.imagesSent.Load(),
		ImagesDropped: s.imagesDropped.Load(),
		TextSent:      s.textSent.Load(),
		Inbound:       s.inbound.Load(),
		Malformed:     s.malformed.Load(),
	}
}

func (s *Session) notifyState(state State) {
	if s.config.OnStateChange != nil {
		s.config.OnStateChange(state)
	}
}

func (s *Session) notifyError(err error) {
	log.Printf("Session error: %v", err)
	if s.config.OnError != nil {
		s.config.OnError(err)
	}
}
