// ABOUTME: Segment feed shared by the device backends
// ABOUTME: Hands samples to the device and chains to the next segment without a gap
package output

import (
	"errors"
	"sync"
)

// ErrBusy is returned when Play is called while a segment is still active
var ErrBusy = errors.New("output busy")

// feed holds the active segment and the read position into it
type feed struct {
	mu         sync.Mutex
	samples    []float32
	pos        int
	onFinished func()
}

// start installs a new active segment
func (f *feed) start(samples []float32, onFinished func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.samples != nil {
		return ErrBusy
	}

	if samples == nil {
		samples = []float32{}
	}
	f.samples = samples
	f.pos = 0
	f.onFinished = onFinished
	return nil
}

// stop drops the active segment silently
func (f *feed) stop() {
	f.mu.Lock()
	f.samples = nil
	f.pos = 0
	f.onFinished = nil
	f.mu.Unlock()
}

// active reports whether a segment is installed
func (f *feed) active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.samples != nil
}

// fill copies samples into dst. When the active segment runs out its
// onFinished runs with the lock released, so it may start the next segment
// and the remainder of dst is filled from it. Whatever is left is silence.
// It returns the number of real samples written.
func (f *feed) fill(dst []float32) int {
	n := 0
	for n < len(dst) {
		f.mu.Lock()
		if f.samples == nil {
			f.mu.Unlock()
			break
		}

		c := copy(dst[n:], f.samples[f.pos:])
		f.pos += c
		n += c

		var done func()
		if f.pos >= len(f.samples) {
			done = f.onFinished
			f.samples = nil
			f.pos = 0
			f.onFinished = nil
		}
		f.mu.Unlock()

		if done != nil {
			done()
		}
	}

	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
	return n
}
