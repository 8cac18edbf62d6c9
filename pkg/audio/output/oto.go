// ABOUTME: Oto-based audio output implementation
// ABOUTME: Streams the segment feed to a persistent oto player
package output

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

// Oto output implementation using oto library
type Oto struct {
	otoCtx     *oto.Context
	player     *oto.Player
	sampleRate int
	channels   int
	ready      atomic.Bool

	feed feed
	mu   sync.Mutex
}

// NewOto creates a new Oto output
func NewOto() Output {
	return &Oto{}
}

// Open initializes the output device
func (o *Oto) Open(sampleRate, channels int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoCtx != nil && o.sampleRate == sampleRate && o.channels == channels {
		log.Printf("Audio output already initialized with same format, reusing context")
		return nil
	}

	// oto allows one context per process
	if o.otoCtx != nil {
		return fmt.Errorf("oto cannot be reinitialized (%dHz %dch -> %dHz %dch)",
			o.sampleRate, o.channels, sampleRate, channels)
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	o.otoCtx = ctx
	o.sampleRate = sampleRate
	o.channels = channels

	// A persistent player pulls from the feed; silence while idle
	o.player = o.otoCtx.NewPlayer(&feedReader{feed: &o.feed, channels: channels})
	o.player.Play()

	o.ready.Store(true)

	log.Printf("Audio output initialized: %dHz, %d channels (oto)", sampleRate, channels)

	return nil
}

// Play starts a segment
func (o *Oto) Play(samples []float32, onFinished func()) error {
	if !o.ready.Load() {
		return fmt.Errorf("output not initialized")
	}
	return o.feed.start(samples, onFinished)
}

// Stop discards the active segment
func (o *Oto) Stop() {
	o.feed.stop()
}

// Close releases output resources
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.feed.stop()
	if o.player != nil {
		if err := o.player.Close(); err != nil {
			log.Printf("Warning: oto player close error: %v", err)
		}
		o.player = nil
	}
	if o.otoCtx != nil {
		if err := o.otoCtx.Suspend(); err != nil {
			log.Printf("Warning: oto suspend error: %v", err)
		}
		o.ready.Store(false)
	}
	return nil
}

// feedReader adapts a feed to the io.Reader oto pulls float32LE bytes from
type feedReader struct {
	feed     *feed
	channels int
	buf      []float32
}

func (r *feedReader) Read(p []byte) (int, error) {
	frameBytes := 4 * r.channels
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}

	if cap(r.buf) < frames {
		r.buf = make([]float32, frames)
	}
	mono := r.buf[:frames]
	r.feed.fill(mono)

	for i, s := range mono {
		bits := math.Float32bits(s)
		for ch := 0; ch < r.channels; ch++ {
			binary.LittleEndian.PutUint32(p[(i*r.channels+ch)*4:], bits)
		}
	}
	return frames * frameBytes, nil
}
