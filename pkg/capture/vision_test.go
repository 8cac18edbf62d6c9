// ABOUTME: Tests for the camera frame loop
// ABOUTME: Checks frame encoding, source failure and directory cycling
package capture

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type fakeFrames struct {
	mu    sync.Mutex
	calls int
	fail  int
}

func (f *fakeFrames) Next() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail > 0 && f.calls >= f.fail {
		return nil, errors.New("camera unplugged")
	}
	return []byte{0xFF, 0xD8, byte(f.calls)}, nil
}

type fakeImageSink struct {
	mu     sync.Mutex
	images []string
	mimes  []string
	got    chan struct{}
}

func (s *fakeImageSink) SendImage(data, mimeType string) error {
	s.mu.Lock()
	s.images = append(s.images, data)
	s.mimes = append(s.mimes, mimeType)
	s.mu.Unlock()
	select {
	case s.got <- struct{}{}:
	default:
	}
	return nil
}

func TestVisionLoopSendsFrames(t *testing.T) {
	frames := &fakeFrames{}
	sink := &fakeImageSink{got: make(chan struct{}, 8)}
	v := NewVisionLoop(frames, sink, VisionConfig{Interval: 10 * time.Millisecond})

	v.Start(context.Background())
	if !v.Running() {
		t.Fatal("expected running")
	}

	for i := 0; i < 2; i++ {
		select {
		case <-sink.got:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for frame")
		}
	}
	v.Stop()

	if v.Running() {
		t.Error("expected stopped")
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()

	raw, err := base64.StdEncoding.DecodeString(sink.images[0])
	if err != nil {
		t.Fatalf("frame is not base64: %v", err)
	}
	if len(raw) != 3 || raw[0] != 0xFF || raw[2] != 1 {
		t.Errorf("unexpected first frame %v", raw)
	}
	if sink.mimes[0] != "image/jpeg" {
		t.Errorf("unexpected mime %s", sink.mimes[0])
	}
	if v.Stats().Sent < 2 {
		t.Errorf("expected at least 2 sent, got %d", v.Stats().Sent)
	}
}

func TestVisionLoopDefaultInterval(t *testing.T) {
	v := NewVisionLoop(&fakeFrames{}, &fakeImageSink{}, VisionConfig{})
	if v.config.Interval != time.Second {
		t.Errorf("expected 1s interval, got %v", v.config.Interval)
	}
}

func TestVisionLoopSourceFailure(t *testing.T) {
	stopped := make(chan error, 1)
	frames := &fakeFrames{fail: 1}
	v := NewVisionLoop(frames, &fakeImageSink{got: make(chan struct{}, 1)}, VisionConfig{
		Interval:  5 * time.Millisecond,
		OnStopped: func(err error) { stopped <- err },
	})

	v.Start(context.Background())

	select {
	case err := <-stopped:
		if err == nil {
			t.Error("expected source error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on source failure")
	}

	if v.Running() {
		t.Error("camera should revert to off")
	}

	// Stop after a self-stop is a no-op
	v.Stop()
}

func TestVisionLoopStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	v := NewVisionLoop(&fakeFrames{}, &fakeImageSink{}, VisionConfig{Interval: time.Hour})

	v.Start(ctx)
	cancel()
	v.Stop()

	if v.Running() {
		t.Error("expected stopped")
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.jpg":  "second",
		"a.jpeg": "first",
		"c.png":  "ignored",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.jpg"), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	src, err := NewDirSource(dir)
	if err != nil {
		t.Fatalf("NewDirSource failed: %v", err)
	}

	for _, want := range []string{"first", "second", "first"} {
		data, err := src.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if string(data) != want {
			t.Errorf("expected %s, got %s", want, data)
		}
	}
}

func TestDirSourceEmpty(t *testing.T) {
	if _, err := NewDirSource(t.TempDir()); err == nil {
		t.Error("expected error for directory without frames")
	}
	if _, err := NewDirSource(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}
