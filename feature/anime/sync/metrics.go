package sync

import (
	"time"

	"go.uber.org/zap"
)

// Metrics aggregates per-pass counters. A pass is sequential, so the
// counters need no synchronization.
type Metrics struct {
	Added     int       `json:"added"`
	Updated   int       `json:"updated"`
	Unchanged int       `json:"unchanged"`
	Errors    int       `json:"errors"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// NewMetrics returns metrics with the start time set.
func NewMetrics() *Metrics {
	return &Metrics{StartedAt: time.Now()}
}

func (m *Metrics) MarkAdded()     { m.Added++ }
func (m *Metrics) MarkUpdated()   { m.Updated++ }
func (m *Metrics) MarkUnchanged() { m.Unchanged++ }
func (m *Metrics) MarkError()     { m.Errors++ }

// Total is the number of successfully processed records.
func (m *Metrics) Total() int {
	return m.Added + m.Updated + m.Unchanged
}

// Finish stamps the end time.
func (m *Metrics) Finish() {
	m.EndedAt = time.Now()
}

// Duration returns the pass duration, zero until Finish is called.
func (m *Metrics) Duration() time.Duration {
	if m.EndedAt.IsZero() {
		return 0
	}
	return m.EndedAt.Sub(m.StartedAt)
}

// LogSummary finishes the metrics and writes the pass summary.
func (m *Metrics) LogSummary(log *zap.Logger) {
	m.Finish()
	log.Info("sync pass summary",
		zap.Int("total", m.Total()),
		zap.Int("added", m.Added),
		zap.Int("updated", m.Updated),
		zap.Int("unchanged", m.Unchanged),
		zap.Int("errors", m.Errors),
		zap.Duration("duration", m.Duration()))
}
