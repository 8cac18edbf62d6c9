// ABOUTME: PCM audio decoder
// ABOUTME: Decodes 16-bit little-endian PCM to normalized float samples
package decode

import (
	"encoding/binary"
	"fmt"

	"github.com/harperreed/voicecart/pkg/audio"
)

// PCMDecoder decodes 16-bit PCM audio
type PCMDecoder struct {
	sampleRate int
}

// NewPCM creates a new PCM decoder
func NewPCM(format audio.Format) (Decoder, error) {
	if format.Codec != "pcm" {
		return nil, fmt.Errorf("invalid codec for PCM decoder: %s", format.Codec)
	}

	if format.BitDepth != 16 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16)", format.BitDepth)
	}

	if format.Channels != 1 {
		return nil, fmt.Errorf("unsupported channel count: %d (supported: 1)", format.Channels)
	}

	return &PCMDecoder{
		sampleRate: format.SampleRate,
	}, nil
}

// Decode converts PCM bytes to a segment at the decoder's sample rate
func (d *PCMDecoder) Decode(data []byte) (audio.Segment, error) {
	samples, err := PCM16(data)
	if err != nil {
		return audio.Segment{}, err
	}
	return audio.Segment{Samples: samples, SampleRate: d.sampleRate}, nil
}

// Close releases resources
func (d *PCMDecoder) Close() error {
	return nil
}

// PCM16 reads signed 16-bit little-endian samples. Negative values scale by
// 1/32768, non-negative values by 1/32767.
func PCM16(data []byte) ([]float32, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("%w: odd PCM length %d", ErrMalformedPayload, len(data))
	}

	samples := make([]float32, len(data)/2)
	for i := range samples {
		samples[i] = audio.SampleFromInt16(int16(binary.LittleEndian.Uint16(data[i*2:])))
	}
	return samples, nil
}
