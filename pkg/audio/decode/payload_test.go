// ABOUTME: Tests for base64 payload normalization
// ABOUTME: Covers standard, URL-safe and unpadded inputs
package decode

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"
)

func TestPayload(t *testing.T) {
	raw := []byte{0xFB, 0xFF, 0xBF, 0x00, 0x3E, 0x3F}

	tests := []struct {
		name  string
		input string
	}{
		{"standard", base64.StdEncoding.EncodeToString(raw)},
		{"url safe", base64.URLEncoding.EncodeToString(raw)},
		{"url safe unpadded", base64.RawURLEncoding.EncodeToString(raw[:5])},
		{"surrounding whitespace", " " + base64.StdEncoding.EncodeToString(raw) + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Payload(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := raw
			if tt.name == "url safe unpadded" {
				want = raw[:5]
			}
			if !bytes.Equal(got, want) {
				t.Errorf("expected %v, got %v", want, got)
			}
		})
	}
}

func TestPayloadInvalid(t *testing.T) {
	_, err := Payload("!!!not base64!!!")
	if !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
}
