// ABOUTME: Tests for PCM decoder
// ABOUTME: Tests 16-bit PCM decoding and encode/decode round trips
package decode

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/harperreed/voicecart/pkg/audio"
	"github.com/harperreed/voicecart/pkg/audio/encode"
)

func TestNewPCM(t *testing.T) {
	decoder, err := NewPCM(audio.PlaybackFormat)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	if decoder == nil {
		t.Fatal("expected decoder to be created")
	}
}

func TestNewPCM_InvalidCodec(t *testing.T) {
	format := audio.Format{
		Codec:      "opus",
		SampleRate: 24000,
		Channels:   1,
		BitDepth:   16,
	}

	decoder, err := NewPCM(format)
	if err == nil {
		t.Fatal("expected error for invalid codec, got nil")
	}

	if decoder != nil {
		t.Fatal("expected decoder to be nil for invalid codec")
	}

	expectedError := "invalid codec for PCM decoder: opus"
	if err.Error() != expectedError {
		t.Errorf("expected error %q, got %q", expectedError, err.Error())
	}
}

func TestNewPCM_UnsupportedBitDepth(t *testing.T) {
	format := audio.Format{
		Codec:      "pcm",
		SampleRate: 24000,
		Channels:   1,
		BitDepth:   24,
	}

	_, err := NewPCM(format)
	if err == nil {
		t.Fatal("expected error for unsupported bit depth, got nil")
	}

	expectedError := "unsupported bit depth: 24 (supported: 16)"
	if err.Error() != expectedError {
		t.Errorf("expected error %q, got %q", expectedError, err.Error())
	}
}

func TestPCMDecode16Bit(t *testing.T) {
	decoder, err := NewPCM(audio.PlaybackFormat)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}

	// 0xFF,0x7F -> 32767 -> 1.0 ; 0x00,0x80 -> -32768 -> -1.0
	input := []byte{0xFF, 0x7F, 0x00, 0x80, 0x00, 0x00}
	seg, err := decoder.Decode(input)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if seg.SampleRate != audio.PlaybackSampleRate {
		t.Errorf("expected sample rate %d, got %d", audio.PlaybackSampleRate, seg.SampleRate)
	}

	expected := []float32{1, -1, 0}
	if len(seg.Samples) != len(expected) {
		t.Fatalf("expected %d samples, got %d", len(expected), len(seg.Samples))
	}
	for i := range expected {
		if seg.Samples[i] != expected[i] {
			t.Errorf("sample %d: expected %v, got %v", i, expected[i], seg.Samples[i])
		}
	}
}

func TestPCMDecode_OddLength(t *testing.T) {
	_, err := PCM16([]byte{0x01, 0x02, 0x03})
	if !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
}

func TestPCMDecode_EmptyInput(t *testing.T) {
	output, err := PCM16([]byte{})
	if err != nil {
		t.Fatalf("decode failed with empty input: %v", err)
	}

	if len(output) != 0 {
		t.Errorf("expected 0 samples from empty input, got %d", len(output))
	}
}

func TestRoundTripWithinOneStep(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	samples := make([]float32, 4096)
	for i := range samples {
		// include out-of-range values, they are clamped first
		samples[i] = float32(rng.Float64()*2.4 - 1.2)
	}
	samples = append(samples, 0, 1, -1, 1e-6, -1e-6)

	decoded, err := PCM16(encode.PCM16(samples))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	const step = 1.0 / 32767
	for i, s := range samples {
		want := audio.Clamp(float64(s))
		if diff := math.Abs(float64(decoded[i]) - want); diff > step+1e-7 {
			t.Errorf("sample %d: %v decoded to %v (diff %v)", i, want, decoded[i], diff)
		}
	}
}
