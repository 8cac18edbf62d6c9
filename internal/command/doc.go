// ABOUTME: Command package for assistant tool calls
// ABOUTME: Dispatches update_ui actions into store transitions
// Package command turns update_ui tool calls into application state changes.
//
// The dispatcher gets the catalog and the notification sink from its
// caller. Each call produces at most one store transition and one
// acknowledgement.
package command
