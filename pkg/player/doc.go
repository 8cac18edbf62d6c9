// ABOUTME: Player package for synthesized speech playback
// ABOUTME: Provides the gapless FIFO Scheduler over an output device
// Package player schedules decoded speech segments for playback.
//
// Segments play strictly in arrival order with at most one active at a
// time. A new segment never interrupts the active one; it waits in the
// queue until the device reports the previous segment finished.
package player
