// ABOUTME: Audio encoder package for encoding captured audio
// ABOUTME: Provides Encoder interface and the 16-bit PCM implementation
// Package encode provides the outbound audio encoder.
//
// Microphone samples are clamped to [-1, 1] and written as signed 16-bit
// little-endian PCM. Negative samples scale by 32768, non-negative samples
// by 32767.
//
// Example:
//
//	encoder, err := encode.NewPCM(audio.CaptureFormat)
//	data, err := encoder.Encode(samples)
package encode
