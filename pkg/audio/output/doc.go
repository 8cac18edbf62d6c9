// ABOUTME: Audio output package for playing synthesized speech
// ABOUTME: Provides Output interface with malgo and oto implementations
// Package output provides audio playback backends.
//
// Each backend keeps one device stream open and plays a single segment at a
// time. When a segment's last sample reaches the device the segment's
// onFinished callback runs; if it starts the next segment, playback continues
// within the same device buffer so consecutive segments have no gap.
//
// Example:
//
//	out, err := output.New("malgo")
//	err = out.Open(24000, 1)
//	err = out.Play(samples, func() { /* start next */ })
package output
