// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Frame, Segment types and sample conversion functions
// Package audio provides the audio types shared by capture, encoding,
// decoding and playback.
//
// Capture runs at 16 kHz mono, playback at 24 kHz mono. Samples are carried
// as normalized float32 values in [-1, 1] and converted to signed 16-bit
// integers at the wire boundary:
//
//	v := audio.SampleToInt16(0.5)  // 16383
//	s := audio.SampleFromInt16(v)  // ~0.49998
package audio
