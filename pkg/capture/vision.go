// ABOUTME: Camera frame loop
// ABOUTME: Sends one JPEG frame per tick to the session
package capture

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// DefaultFrameInterval is one camera frame per second
	DefaultFrameInterval = time.Second

	jpegMIME = "image/jpeg"
)

// FrameSource produces JPEG camera frames
type FrameSource interface {
	Next() ([]byte, error)
}

// ImageSink accepts base64 encoded images
type ImageSink interface {
	SendImage(data, mimeType string) error
}

// VisionConfig holds vision loop configuration
type VisionConfig struct {
	Interval time.Duration

	// OnStopped is called when the loop ends because the source failed
	OnStopped func(error)
}

// VisionStats tracks vision loop metrics
type VisionStats struct {
	Sent   int64
	Failed int64
}

// VisionLoop sends camera frames on a fixed ticker, independent of audio
type VisionLoop struct {
	source FrameSource
	sink   ImageSink
	config VisionConfig

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	sent   atomic.Int64
	failed atomic.Int64
}

// NewVisionLoop creates a stopped vision loop
func NewVisionLoop(source FrameSource, sink ImageSink, config VisionConfig) *VisionLoop {
	if config.Interval <= 0 {
		config.Interval = DefaultFrameInterval
	}
	return &VisionLoop{
		source: source,
		sink:   sink,
		config: config,
	}
}

// Start begins sending frames until ctx ends or Stop is called
func (v *VisionLoop) Start(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.done = make(chan struct{})

	go v.run(ctx, v.done)
	log.Printf("Camera started (%v interval)", v.config.Interval)
}

// Stop halts the loop and waits for it to exit
func (v *VisionLoop) Stop() {
	v.mu.Lock()
	cancel, done := v.cancel, v.done
	v.cancel = nil
	v.done = nil
	v.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Printf("Camera stopped")
}

// Running reports whether frames are being sent
func (v *VisionLoop) Running() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cancel != nil
}

// Stats returns vision loop statistics
func (v *VisionLoop) Stats() VisionStats {
	return VisionStats{
		Sent:   v.sent.Load(),
		Failed: v.failed.Load(),
	}
}

func (v *VisionLoop) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(v.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			frame, err := v.source.Next()
			if err != nil {
				log.Printf("Camera unavailable: %v", err)
				v.stopFromLoop(done)
				if v.config.OnStopped != nil {
					v.config.OnStopped(err)
				}
				return
			}

			encoded := base64.StdEncoding.EncodeToString(frame)
			if err := v.sink.SendImage(encoded, jpegMIME); err != nil {
				v.failed.Add(1)
				continue
			}
			v.sent.Add(1)
		}
	}
}

// stopFromLoop clears the running state without waiting on done
func (v *VisionLoop) stopFromLoop(done chan struct{}) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.done == done {
		v.cancel()
		v.cancel = nil
		v.done = nil
	}
}

// DirSource cycles through the JPEG files in a directory
type DirSource struct {
	files []string
	next  int
	mu    sync.Mutex
}

// NewDirSource lists *.jpg and *.jpeg files in dir in name order
func NewDirSource(dir string) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no JPEG frames in %s", dir)
	}
	sort.Strings(files)

	return &DirSource{files: files}, nil
}

// Next returns the next frame, wrapping around at the end
func (d *DirSource) Next() ([]byte, error) {
	d.mu.Lock()
	path := d.files[d.next]
	d.next = (d.next + 1) % len(d.files)
	d.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame %s: %w", path, err)
	}
	return data, nil
}
