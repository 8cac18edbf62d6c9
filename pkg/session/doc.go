// ABOUTME: Session package for the assistant channel
// ABOUTME: Connection lifecycle, outbound sends and inbound dispatch
// Package session owns the single WebSocket channel to the assistant.
//
// A session moves Disconnected → Connecting → Connected → Closing →
// Disconnected. It never reconnects on its own; callers open it again.
//
// Example:
//
//	s := session.New(session.Config{
//		URL:        "ws://localhost:8080/",
//		OnAudio:    func(f protocol.AudioFragment) { /* decode and enqueue */ },
//		OnToolCall: func(a protocol.ToolCallArgs) { /* dispatch */ },
//	})
//	if err := s.Open(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer s.Close()
package session
