// ABOUTME: Audio capture interface definition
// ABOUTME: Common interface for microphone input backends
package capture

import "github.com/harperreed/voicecart/pkg/audio"

// Source delivers microphone frames from a device callback
type Source interface {
	// Start opens the device and calls onFrame for every captured block
	Start(onFrame func(audio.Frame)) error

	// Stop halts capture and releases the device. No onFrame call runs
	// after Stop returns.
	Stop() error
}
