// ABOUTME: Tests for playback scheduler
// ABOUTME: Verifies FIFO order, single active segment and teardown
package player

import (
	"errors"
	"sync"
	"testing"

	"github.com/harperreed/voicecart/pkg/audio"
)

// fakeOutput records played segments and lets the test finish them
type fakeOutput struct {
	mu       sync.Mutex
	openErr  error
	rate     int
	played   [][]float32
	pending  func()
	active   int
	maxActv  int
	stops    int
	closed   bool
}

func (f *fakeOutput) Open(sampleRate, channels int) error {
	if f.openErr != nil {
		return f.openErr
	}
	f.rate = sampleRate
	return nil
}

func (f *fakeOutput) Play(samples []float32, onFinished func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.played = append(f.played, samples)
	f.active++
	if f.active > f.maxActv {
		f.maxActv = f.active
	}
	f.pending = onFinished
	return nil
}

func (f *fakeOutput) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.active = 0
	f.pending = nil
}

func (f *fakeOutput) Close() error {
	f.closed = true
	return nil
}

// finish completes the active segment the way a device callback would
func (f *fakeOutput) finish() bool {
	f.mu.Lock()
	done := f.pending
	f.pending = nil
	if done != nil {
		f.active--
	}
	f.mu.Unlock()

	if done == nil {
		return false
	}
	done()
	return true
}

func seg(v float32) audio.Segment {
	return audio.Segment{Samples: []float32{v}, SampleRate: audio.PlaybackSampleRate}
}

func TestSchedulerPlaysInArrivalOrder(t *testing.T) {
	out := &fakeOutput{}
	s := NewScheduler(out)

	for i := 1; i <= 3; i++ {
		if err := s.Enqueue(seg(float32(i))); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	if out.rate != audio.PlaybackSampleRate {
		t.Errorf("expected device opened at %d, got %d", audio.PlaybackSampleRate, out.rate)
	}

	// Only the first segment starts immediately
	if len(out.played) != 1 {
		t.Fatalf("expected 1 started segment, got %d", len(out.played))
	}

	for out.finish() {
	}

	if len(out.played) != 3 {
		t.Fatalf("expected 3 played segments, got %d", len(out.played))
	}
	for i, samples := range out.played {
		if samples[0] != float32(i+1) {
			t.Errorf("position %d: expected segment %d, got %v", i, i+1, samples[0])
		}
	}
	if out.maxActv != 1 {
		t.Errorf("expected at most one active segment, got %d", out.maxActv)
	}

	stats := s.Stats()
	if stats.Received != 3 || stats.Played != 3 || stats.Queued != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if s.Playing() {
		t.Error("expected scheduler to be idle")
	}
}

func TestSchedulerNoPreemption(t *testing.T) {
	out := &fakeOutput{}
	s := NewScheduler(out)

	_ = s.Enqueue(seg(1))
	_ = s.Enqueue(seg(2))

	if len(out.played) != 1 || out.played[0][0] != 1 {
		t.Fatalf("second segment must wait for the first, played=%v", out.played)
	}
}

func TestSchedulerRestartsAfterIdle(t *testing.T) {
	out := &fakeOutput{}
	s := NewScheduler(out)

	_ = s.Enqueue(seg(1))
	out.finish()
	if s.Playing() {
		t.Fatal("expected idle after queue drained")
	}

	_ = s.Enqueue(seg(2))
	if len(out.played) != 2 {
		t.Fatalf("expected new segment to start immediately, got %d", len(out.played))
	}
}

func TestSchedulerOutputUnavailable(t *testing.T) {
	out := &fakeOutput{openErr: errors.New("no device")}
	s := NewScheduler(out)

	err := s.Enqueue(seg(1))
	if !errors.Is(err, ErrOutputUnavailable) {
		t.Fatalf("expected ErrOutputUnavailable, got %v", err)
	}
	if len(out.played) != 0 {
		t.Error("segment should have been discarded")
	}
	if stats := s.Stats(); stats.Dropped != 1 || stats.Queued != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestSchedulerClear(t *testing.T) {
	out := &fakeOutput{}
	s := NewScheduler(out)

	_ = s.Enqueue(seg(1))
	_ = s.Enqueue(seg(2))
	_ = s.Enqueue(seg(3))

	stale := out.pending
	s.Clear()

	if out.stops != 1 {
		t.Errorf("expected device stop, got %d", out.stops)
	}
	if s.Playing() {
		t.Error("expected idle after Clear")
	}

	// A finish from before the clear must not start anything
	stale()
	if len(out.played) != 1 {
		t.Errorf("stale finish started a segment, played=%d", len(out.played))
	}

	if stats := s.Stats(); stats.Dropped != 3 {
		t.Errorf("expected 3 dropped, got %d", stats.Dropped)
	}

	_ = s.Enqueue(seg(4))
	if len(out.played) != 2 || out.played[1][0] != 4 {
		t.Errorf("expected playback to resume after Clear, played=%v", out.played)
	}
}

func TestSchedulerClose(t *testing.T) {
	out := &fakeOutput{}
	s := NewScheduler(out)

	if err := s.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !out.closed {
		t.Error("expected output to be closed")
	}
}
