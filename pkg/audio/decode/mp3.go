// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes a complete MP3 fragment to mono float samples
package decode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/harperreed/voicecart/pkg/audio"
	"github.com/hajimehoshi/go-mp3"
)

// MP3Decoder decodes MP3 audio
type MP3Decoder struct{}

// NewMP3 creates a new MP3 decoder
func NewMP3(format audio.Format) (Decoder, error) {
	if format.Codec != "mp3" {
		return nil, fmt.Errorf("invalid codec for MP3 decoder: %s", format.Codec)
	}

	return &MP3Decoder{}, nil
}

// Decode converts MP3 bytes to a mono segment at the stream's own rate
func (d *MP3Decoder) Decode(data []byte) (audio.Segment, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return audio.Segment{}, fmt.Errorf("%w: mp3: %v", ErrMalformedPayload, err)
	}

	// go-mp3 always produces 16-bit little-endian stereo
	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return audio.Segment{}, fmt.Errorf("%w: mp3: %v", ErrMalformedPayload, err)
	}

	frames := len(pcm) / 4
	samples := make([]float32, frames)
	for i := 0; i < frames; i++ {
		left := audio.SampleFromInt16(int16(binary.LittleEndian.Uint16(pcm[i*4:])))
		right := audio.SampleFromInt16(int16(binary.LittleEndian.Uint16(pcm[i*4+2:])))
		samples[i] = (left + right) / 2
	}

	return audio.Segment{Samples: samples, SampleRate: decoder.SampleRate()}, nil
}

// Close releases decoder resources
func (d *MP3Decoder) Close() error {
	return nil
}
