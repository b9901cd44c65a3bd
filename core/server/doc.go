// Package server holds configuration for the operational HTTP surface.
//
// The sync daemon exposes a small status API (health and last-pass metrics)
// while the periodic loop runs in the background. This package only carries
// the configuration; the Fiber app is wired in cmd/start.
package server
