// ABOUTME: Unit tests for PCM encoder
// ABOUTME: Tests 16-bit PCM encoding and clamping
package encode

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/harperreed/voicecart/pkg/audio"
)

func TestNewPCM(t *testing.T) {
	tests := []struct {
		name        string
		format      audio.Format
		wantErr     bool
		errContains string
	}{
		{
			name:    "valid capture format",
			format:  audio.CaptureFormat,
			wantErr: false,
		},
		{
			name: "invalid codec",
			format: audio.Format{
				Codec:      "opus",
				SampleRate: 16000,
				Channels:   1,
				BitDepth:   16,
			},
			wantErr:     true,
			errContains: "invalid codec",
		},
		{
			name: "unsupported bit depth",
			format: audio.Format{
				Codec:      "pcm",
				SampleRate: 16000,
				Channels:   1,
				BitDepth:   24,
			},
			wantErr:     true,
			errContains: "unsupported bit depth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoder, err := NewPCM(tt.format)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewPCM() expected error, got nil")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("NewPCM() error = %v, want error containing %v", err, tt.errContains)
				}
			} else {
				if err != nil {
					t.Errorf("NewPCM() unexpected error = %v", err)
				}
				if encoder == nil {
					t.Errorf("NewPCM() returned nil encoder")
				}
			}
		})
	}
}

func TestPCM16(t *testing.T) {
	samples := []float32{0, 1, -1, 0.5, -0.5, 2, -2}
	expected := []int16{0, 32767, -32768, 16383, -16384, 32767, -32768}

	output := PCM16(samples)

	if len(output) != len(samples)*2 {
		t.Fatalf("output size = %d, want %d", len(output), len(samples)*2)
	}

	for i, want := range expected {
		got := int16(binary.LittleEndian.Uint16(output[i*2:]))
		if got != want {
			t.Errorf("sample %d: got %d, want %d", i, got, want)
		}
	}
}

func TestPCM16LittleEndian(t *testing.T) {
	// 1.0 -> 0x7FFF -> FF 7F
	output := PCM16([]float32{1})
	if output[0] != 0xFF || output[1] != 0x7F {
		t.Errorf("expected [FF 7F], got [%X %X]", output[0], output[1])
	}

	// -1.0 -> 0x8000 -> 00 80
	output = PCM16([]float32{-1})
	if output[0] != 0x00 || output[1] != 0x80 {
		t.Errorf("expected [00 80], got [%X %X]", output[0], output[1])
	}
}

func TestPCM16ClampNeverOverflows(t *testing.T) {
	inputs := []float32{
		1.0000001, -1.0000001, 100, -100,
		float32(math.Inf(1)), float32(math.Inf(-1)), float32(math.NaN()),
		math.MaxFloat32, -math.MaxFloat32,
	}

	for _, in := range inputs {
		out := PCM16([]float32{in})
		v := int16(binary.LittleEndian.Uint16(out))
		clamped := audio.Clamp(float64(in))
		if clamped > 0 && v < 0 {
			t.Errorf("input %v wrapped to negative value %d", in, v)
		}
		if clamped < 0 && v > 0 {
			t.Errorf("input %v wrapped to positive value %d", in, v)
		}
	}
}

func TestPCM16Empty(t *testing.T) {
	if out := PCM16(nil); len(out) != 0 {
		t.Errorf("expected empty output, got %d bytes", len(out))
	}
}

func TestPCMEncoder_Encode(t *testing.T) {
	encoder, err := NewPCM(audio.CaptureFormat)
	if err != nil {
		t.Fatalf("NewPCM() failed: %v", err)
	}
	defer encoder.Close()

	samples := make([]float32, 128)
	for i := range samples {
		samples[i] = float32(math.Sin(float64(i) / 8))
	}

	output, err := encoder.Encode(samples)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	if len(output) != 256 {
		t.Errorf("Encode() output size = %d, want 256", len(output))
	}
}
