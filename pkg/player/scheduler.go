// ABOUTME: Gapless FIFO playback scheduler
// ABOUTME: Plays decoded speech segments back to back in arrival order
package player

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/harperreed/voicecart/pkg/audio"
	"github.com/harperreed/voicecart/pkg/audio/output"
)

// ErrOutputUnavailable is returned when the playback device cannot be opened
var ErrOutputUnavailable = errors.New("output device unavailable")

// Scheduler plays segments one at a time, starting each as the previous
// one finishes
type Scheduler struct {
	out        output.Output
	sampleRate int

	mu      sync.Mutex
	queue   []audio.Segment
	playing bool
	epoch   uint64
	opened  bool
	openErr error

	stats SchedulerStats
}

// SchedulerStats tracks scheduler metrics
type SchedulerStats struct {
	Received int64
	Played   int64
	Dropped  int64
	Queued   int
}

// NewScheduler creates a scheduler over out at the playback rate
func NewScheduler(out output.Output) *Scheduler {
	return &Scheduler{
		out:        out,
		sampleRate: audio.PlaybackSampleRate,
	}
}

// Open acquires the output device. Enqueue opens it on first use if
// Open was not called.
func (s *Scheduler) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open()
}

// open must hold s.mu
func (s *Scheduler) open() error {
	if s.opened {
		return nil
	}
	if s.openErr != nil {
		return s.openErr
	}

	if err := s.out.Open(s.sampleRate, audio.Channels); err != nil {
		s.openErr = fmt.Errorf("%w: %v", ErrOutputUnavailable, err)
		log.Printf("Playback disabled: %v", err)
		return s.openErr
	}
	s.opened = true
	return nil
}

// Enqueue appends seg and starts it right away if nothing is playing.
// When the device is unavailable the segment is discarded.
func (s *Scheduler) Enqueue(seg audio.Segment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Received++

	if err := s.open(); err != nil {
		s.stats.Dropped++
		return err
	}

	s.queue = append(s.queue, seg)
	if !s.playing {
		s.playing = true
		s.startNext()
	}
	return nil
}

// startNext pops the head and hands it to the device (must hold s.mu)
func (s *Scheduler) startNext() {
	for len(s.queue) > 0 {
		seg := s.queue[0]
		s.queue[0] = audio.Segment{}
		s.queue = s.queue[1:]

		epoch := s.epoch
		err := s.out.Play(seg.Samples, func() {
			s.onSegmentFinished(epoch)
		})
		if err == nil {
			return
		}

		log.Printf("Failed to start segment (%v), skipping", err)
		s.stats.Dropped++
	}
	s.playing = false
}

// onSegmentFinished runs from the device when the active segment ends
func (s *Scheduler) onSegmentFinished(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A Clear happened after this segment started
	if epoch != s.epoch {
		return
	}

	s.stats.Played++
	s.startNext()
}

// Clear discards queued segments and silences the active one
func (s *Scheduler) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := len(s.queue)
	if s.playing {
		dropped++
	}
	s.stats.Dropped += int64(dropped)

	s.epoch++
	s.queue = nil
	s.playing = false
	s.openErr = nil

	if s.opened {
		s.out.Stop()
	}

	if dropped > 0 {
		log.Printf("Playback cleared, discarded %d segments", dropped)
	}
}

// Playing reports whether a segment is active
func (s *Scheduler) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Stats returns scheduler statistics
func (s *Scheduler) Stats() SchedulerStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := s.stats
	stats.Queued = len(s.queue)
	return stats
}

// Close clears playback and releases the device
func (s *Scheduler) Close() error {
	s.Clear()

	s.mu.Lock()
	opened := s.opened
	s.opened = false
	s.mu.Unlock()

	if !opened {
		return nil
	}
	return s.out.Close()
}
