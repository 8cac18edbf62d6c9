// ABOUTME: Audio capture package for microphone input
// ABOUTME: Provides the Source interface and a malgo implementation
// Package capture reads microphone audio from an input device.
//
// Frames are delivered from the device callback as float32 samples at the
// requested rate. Callers must not block in onFrame.
package capture
