// ABOUTME: Capture package for outbound microphone and camera streams
// ABOUTME: Provides the audio Pipeline and the 1 Hz VisionLoop
// Package capture streams local input to the assistant.
//
// Pipeline encodes microphone frames to 16 kHz PCM16 and sends them as
// binary frames. VisionLoop sends a base64 JPEG frame every tick. Both run
// independently of each other and of the channel state; the session drops
// what it cannot send.
package capture
