// ABOUTME: Tests for client metrics
// ABOUTME: Checks counters, source functions and the /metrics handler
package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return string(body)
}

func TestRecordToolCall(t *testing.T) {
	m := New(Sources{})

	m.RecordToolCall("FILTER", nil)
	m.RecordToolCall("FILTER", nil)
	m.RecordToolCall("ADD_TO_CART", errors.New("unresolved"))

	text := scrape(t, m)
	for _, want := range []string{
		`voicecart_tool_calls_total{action="FILTER",result="ok"} 2`,
		`voicecart_tool_calls_total{action="ADD_TO_CART",result="error"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestRecordToolCallFoldsUnknownActions(t *testing.T) {
	m := New(Sources{})

	m.RecordToolCall("TELEPORT", errors.New("unknown"))
	m.RecordToolCall("X1", errors.New("unknown"))
	m.RecordToolCall("X2", errors.New("unknown"))

	text := scrape(t, m)
	if want := `voicecart_tool_calls_total{action="unknown",result="error"} 3`; !strings.Contains(text, want) {
		t.Errorf("metrics output missing %q", want)
	}
	for _, action := range []string{"TELEPORT", "X1", "X2"} {
		if strings.Contains(text, `action="`+action+`"`) {
			t.Errorf("unexpected label for %s", action)
		}
	}
}

func TestHandlerExposesSources(t *testing.T) {
	m := New(Sources{
		Session: func() SessionStats {
			return SessionStats{State: 2, AudioSent: 7, Malformed: 1}
		},
		Playback: func() PlaybackStats {
			return PlaybackStats{Received: 3, Played: 2, Queued: 1}
		},
		Pipeline: func() CaptureStats { return CaptureStats{Captured: 9} },
		Vision:   func() VisionStats { return VisionStats{Sent: 4} },
	})
	m.Connects.Inc()

	text := scrape(t, m)

	for _, want := range []string{
		"voicecart_session_state 2",
		"voicecart_audio_chunks_sent_total 7",
		"voicecart_malformed_messages_total 1",
		"voicecart_segments_played_total 2",
		"voicecart_playback_queue_depth 1",
		"voicecart_capture_frames_total 9",
		"voicecart_vision_frames_sent_total 4",
		"voicecart_session_connects_total 1",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNewUsesPrivateRegistry(t *testing.T) {
	// Two instances must not collide on registration
	_ = New(Sources{})
	_ = New(Sources{})
}
