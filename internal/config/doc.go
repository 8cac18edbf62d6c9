// ABOUTME: Configuration package for the voicecart client
// ABOUTME: Defaults, YAML file, .env and environment layering
// Package config loads the voicecart client configuration.
//
// Values come from built-in defaults, then an optional YAML file, then a
// .env file and VOICECART_* environment variables. Command-line flags are
// applied last by main.
package config
