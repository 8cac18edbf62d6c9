// ABOUTME: Audio type definitions
// ABOUTME: Defines capture frames, playback segments and sample conversion
package audio

import "math"

const (
	// CaptureSampleRate is the microphone rate sent over the channel
	CaptureSampleRate = 16000

	// PlaybackSampleRate is the rate of synthesized speech from the assistant
	PlaybackSampleRate = 24000

	// Channels is fixed to mono in both directions
	Channels = 1

	// 16-bit scaling constants
	NegativeScale = 32768 // 0x8000
	PositiveScale = 32767 // 0x7FFF
)

// Format describes an audio stream format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// CaptureFormat is the outbound microphone format
var CaptureFormat = Format{Codec: "pcm", SampleRate: CaptureSampleRate, Channels: Channels, BitDepth: 16}

// PlaybackFormat is the format the playback scheduler runs at
var PlaybackFormat = Format{Codec: "pcm", SampleRate: PlaybackSampleRate, Channels: Channels, BitDepth: 16}

// Frame is one block of captured audio, consumed immediately by the encoder
type Frame struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

// Segment is one decoded unit of playback audio
type Segment struct {
	Samples    []float32
	SampleRate int
}

// Duration returns the segment length in seconds
func (s Segment) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// Clamp limits a sample to [-1, 1]. NaN becomes silence.
func Clamp(s float64) float64 {
	if math.IsNaN(s) {
		return 0
	}
	if s < -1 {
		return -1
	}
	if s > 1 {
		return 1
	}
	return s
}

// SampleToInt16 converts a normalized sample to int16, truncating toward zero
func SampleToInt16(sample float32) int16 {
	s := Clamp(float64(sample))
	if s < 0 {
		return int16(s * NegativeScale)
	}
	return int16(s * PositiveScale)
}

// SampleFromInt16 converts an int16 sample to a normalized float
func SampleFromInt16(sample int16) float32 {
	if sample < 0 {
		return float32(float64(sample) / NegativeScale)
	}
	return float32(float64(sample) / PositiveScale)
}
