// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts audio between different sample rates
// Package resample provides audio sample rate conversion.
//
// Uses linear interpolation. Inbound speech that does not arrive at the
// 24 kHz playback rate is converted before it is queued.
//
// Example:
//
//	out := resample.Convert(samples, 16000, 24000)
package resample
