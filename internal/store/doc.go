// ABOUTME: Store package for the shopping application state
// ABOUTME: Pure reducer plus a locked container with subscribers
// Package store holds the application state shown by the UI.
//
// Every change goes through Reduce, a pure function from a state and an
// action to the next state. Store wraps it with a mutex so assistant
// commands and manual user actions apply one at a time and observers only
// ever see complete transitions.
package store
