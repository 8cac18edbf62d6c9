// ABOUTME: Audio decoder package for inbound speech fragments
// ABOUTME: Provides Decoder interface and implementations for PCM, MP3, FLAC
// Package decode turns inline audio parts received from the assistant into
// playback segments.
//
// The common case is URL-safe base64 of 16-bit little-endian PCM at 24 kHz.
// MP3 and FLAC fragments are decoded, downmixed to mono and resampled.
//
// Example:
//
//	seg, err := decode.Fragment("audio/pcm;rate=24000", part.Data)
//	if errors.Is(err, decode.ErrMalformedPayload) {
//	    // drop this fragment only
//	}
package decode
