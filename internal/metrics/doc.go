// ABOUTME: Metrics package for the voicecart client
// ABOUTME: Prometheus collectors on a private registry
// Package metrics exposes client counters for Prometheus.
package metrics
