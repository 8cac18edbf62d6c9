// ABOUTME: Tests for inline fragment decoding
// ABOUTME: Covers MIME selection, resampling and malformed fragments
package decode

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/harperreed/voicecart/pkg/audio"
	"github.com/harperreed/voicecart/pkg/audio/encode"
)

func TestForMIME(t *testing.T) {
	tests := []struct {
		mime    string
		wantErr bool
	}{
		{"audio/pcm", false},
		{"audio/pcm;rate=24000", false},
		{"audio/pcm; rate=16000", false},
		{"audio/L16;rate=24000", false},
		{"audio/mpeg", false},
		{"audio/flac", false},
		{"audio/pcm;rate=fast", true},
		{"audio/ogg", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			dec, err := ForMIME(tt.mime)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedPayload) {
					t.Errorf("expected ErrMalformedPayload, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if dec == nil {
				t.Fatal("expected decoder")
			}
		})
	}
}

func TestFragmentPCM(t *testing.T) {
	samples := []float32{0, 0.25, -0.25, 1, -1}
	data := base64.URLEncoding.EncodeToString(encode.PCM16(samples))

	seg, err := Fragment("audio/pcm;rate=24000", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seg.SampleRate != audio.PlaybackSampleRate {
		t.Errorf("expected %d Hz, got %d", audio.PlaybackSampleRate, seg.SampleRate)
	}
	if len(seg.Samples) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(seg.Samples))
	}
}

func TestFragmentResamplesToPlaybackRate(t *testing.T) {
	samples := make([]float32, 1600) // 100ms at 16kHz
	data := base64.StdEncoding.EncodeToString(encode.PCM16(samples))

	seg, err := Fragment("audio/pcm;rate=16000", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seg.SampleRate != audio.PlaybackSampleRate {
		t.Errorf("expected %d Hz, got %d", audio.PlaybackSampleRate, seg.SampleRate)
	}
	if len(seg.Samples) != 2400 {
		t.Errorf("expected 2400 samples, got %d", len(seg.Samples))
	}
}

func TestFragmentOddPCM(t *testing.T) {
	data := base64.StdEncoding.EncodeToString([]byte{1, 2, 3})
	if _, err := Fragment("audio/pcm", data); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
}

func TestFragmentInvalidFLAC(t *testing.T) {
	data := base64.StdEncoding.EncodeToString([]byte("definitely not flac"))
	if _, err := Fragment("audio/flac", data); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
}

func TestFragmentEmptyMP3(t *testing.T) {
	if _, err := Fragment("audio/mpeg", ""); !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
}
