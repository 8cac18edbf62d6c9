// ABOUTME: Microphone capture pipeline
// ABOUTME: Encodes device frames to PCM16 and hands them to the session
package capture

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/harperreed/voicecart/pkg/audio"
	audiocapture "github.com/harperreed/voicecart/pkg/audio/capture"
	"github.com/harperreed/voicecart/pkg/audio/encode"
	"github.com/harperreed/voicecart/pkg/audio/resample"
)

const defaultQueueDepth = 32

// AudioSink accepts encoded microphone chunks
type AudioSink interface {
	SendAudio(chunk []byte) error
}

// PipelineConfig holds pipeline configuration
type PipelineConfig struct {
	// QueueDepth bounds the hand-off between the device and the sender
	QueueDepth int

	OnError func(error)
}

// PipelineStats tracks pipeline metrics
type PipelineStats struct {
	Captured int64
	Sent     int64
	Dropped  int64
}

// Pipeline moves microphone audio from a device to an AudioSink. The
// device callback never blocks: when the hand-off queue is full the chunk
// is dropped.
type Pipeline struct {
	source  audiocapture.Source
	sink    AudioSink
	encoder encode.Encoder
	config  PipelineConfig

	mu      sync.RWMutex
	running bool
	chunks  chan []byte
	done    chan struct{}

	captured atomic.Int64
	sent     atomic.Int64
	dropped  atomic.Int64
}

// NewPipeline creates a stopped pipeline
func NewPipeline(source audiocapture.Source, sink AudioSink, config PipelineConfig) (*Pipeline, error) {
	if config.QueueDepth <= 0 {
		config.QueueDepth = defaultQueueDepth
	}

	enc, err := encode.NewPCM(audio.CaptureFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to create encoder: %w", err)
	}

	return &Pipeline{
		source:  source,
		sink:    sink,
		encoder: enc,
		config:  config,
	}, nil
}

// Start acquires the device and begins streaming. If the device cannot be
// opened the pipeline stays stopped and the error is returned.
func (p *Pipeline) Start() error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.chunks = make(chan []byte, p.config.QueueDepth)
	p.done = make(chan struct{})
	p.running = true
	chunks, done := p.chunks, p.done
	p.mu.Unlock()

	go p.sendLoop(chunks, done)

	if err := p.source.Start(p.onFrame); err != nil {
		p.mu.Lock()
		p.running = false
		close(chunks)
		p.mu.Unlock()
		<-done
		return fmt.Errorf("microphone unavailable: %w", err)
	}

	log.Printf("Microphone streaming started")
	return nil
}

// Stop releases the device and waits for queued chunks to be handed off
func (p *Pipeline) Stop() {
	p.mu.RLock()
	running := p.running
	p.mu.RUnlock()
	if !running {
		return
	}

	if err := p.source.Stop(); err != nil {
		log.Printf("Warning: capture stop error: %v", err)
	}

	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.chunks)
	done := p.done
	p.mu.Unlock()

	<-done
	log.Printf("Microphone streaming stopped")
}

// Running reports whether the microphone is streaming
func (p *Pipeline) Running() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}

// Stats returns pipeline statistics
func (p *Pipeline) Stats() PipelineStats {
	return PipelineStats{
		Captured: p.captured.Load(),
		Sent:     p.sent.Load(),
		Dropped:  p.dropped.Load(),
	}
}

// onFrame runs on the device callback
func (p *Pipeline) onFrame(frame audio.Frame) {
	samples := frame.Samples
	if frame.SampleRate != 0 && frame.SampleRate != audio.CaptureSampleRate {
		samples = resample.Convert(samples, frame.SampleRate, audio.CaptureSampleRate)
	}

	chunk, err := p.encoder.Encode(samples)
	if err != nil {
		log.Printf("Failed to encode capture frame: %v", err)
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.running {
		return
	}

	p.captured.Add(1)
	select {
	case p.chunks <- chunk:
	default:
		p.dropped.Add(1)
	}
}

// sendLoop forwards chunks to the sink in capture order
func (p *Pipeline) sendLoop(chunks <-chan []byte, done chan struct{}) {
	defer close(done)

	for chunk := range chunks {
		if err := p.sink.SendAudio(chunk); err != nil {
			p.dropped.Add(1)
			log.Printf("Failed to send audio: %v", err)
			if p.config.OnError != nil {
				p.config.OnError(err)
			}
			continue
		}
		p.sent.Add(1)
	}
}
