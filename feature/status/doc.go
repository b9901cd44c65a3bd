// Package status exposes the sync engine's operational state over HTTP.
//
// It registers two routes: /healthz as a plain liveness probe, and /status
// reporting whether a pass is in flight, the persisted checkpoint, and the
// counters of the last completed pass.
package status
