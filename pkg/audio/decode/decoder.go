// ABOUTME: Decoder interface definition
// ABOUTME: Common interface for inbound audio decoders
package decode

import "github.com/harperreed/voicecart/pkg/audio"

// Decoder decodes one inbound audio fragment to normalized samples
type Decoder interface {
	// Decode converts encoded audio data to a playback segment
	Decode(data []byte) (audio.Segment, error)

	// Close releases decoder resources
	Close() error
}
