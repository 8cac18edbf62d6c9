// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes a complete FLAC fragment to mono float samples
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/harperreed/voicecart/pkg/audio"
	"github.com/mewkiz/flac"
)

// FLACDecoder decodes FLAC audio
type FLACDecoder struct{}

// NewFLAC creates a new FLAC decoder
func NewFLAC(format audio.Format) (Decoder, error) {
	if format.Codec != "flac" {
		return nil, fmt.Errorf("invalid codec for FLAC decoder: %s", format.Codec)
	}

	return &FLACDecoder{}, nil
}

// Decode converts FLAC bytes to a mono segment at the stream's own rate
func (d *FLACDecoder) Decode(data []byte) (audio.Segment, error) {
	stream, err := flac.New(bytes.NewReader(data))
	if err != nil {
		return audio.Segment{}, fmt.Errorf("%w: flac: %v", ErrMalformedPayload, err)
	}
	defer stream.Close()

	bps := int(stream.Info.BitsPerSample)
	if bps < 4 || bps > 32 {
		return audio.Segment{}, fmt.Errorf("%w: flac: unsupported bit depth %d", ErrMalformedPayload, bps)
	}
	scale := float64(int64(1) << (bps - 1))

	var samples []float32
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return audio.Segment{}, fmt.Errorf("%w: flac: %v", ErrMalformedPayload, err)
		}
		if len(frame.Subframes) == 0 {
			continue
		}

		// Downmix all channels to mono
		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			var sum float64
			for _, sub := range frame.Subframes {
				sum += float64(sub.Samples[i])
			}
			mixed := sum / float64(len(frame.Subframes)) / scale
			samples = append(samples, float32(audio.Clamp(mixed)))
		}
	}

	return audio.Segment{Samples: samples, SampleRate: int(stream.Info.SampleRate)}, nil
}

// Close releases decoder resources
func (d *FLACDecoder) Close() error {
	return nil
}
