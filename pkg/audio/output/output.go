// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for audio playback backends
package output

import "fmt"

// Output represents an audio output device that plays one segment at a time
type Output interface {
	// Open initializes the output device
	Open(sampleRate, channels int) error

	// Play starts a segment. onFinished is called once the last sample has
	// been handed to the device. Only one segment may be active.
	Play(samples []float32, onFinished func()) error

	// Stop discards the active segment without calling its onFinished
	Stop()

	// Close releases output resources
	Close() error
}

// New returns the output backend registered under name
func New(name string) (Output, error) {
	switch name {
	case "", "malgo":
		return NewMalgo(), nil
	case "oto":
		return NewOto(), nil
	default:
		return nil, fmt.Errorf("unknown output backend: %s", name)
	}
}
