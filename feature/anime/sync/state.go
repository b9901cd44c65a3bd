package sync

import (
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// StateStore persists the sync checkpoint: the maximum upstream updated_at
// timestamp seen in the most recent completed pass. It is a single scalar in
// a text file, durable across restarts.
type StateStore struct {
	path string
	log  *zap.Logger
}

// NewStateStore creates a checkpoint store at the given path.
func NewStateStore(path string, log *zap.Logger) *StateStore {
	return &StateStore{path: path, log: log}
}

// Load reads the checkpoint. A missing or corrupt file is treated as "no
// checkpoint" (first-ever sync), never as an error.
func (s *StateStore) Load() *time.Time {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("failed to load checkpoint", zap.Error(err))
		}
		return nil
	}

	raw := strings.TrimSpace(string(data))
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		s.log.Warn("corrupt checkpoint, treating as first sync",
			zap.String("value", raw), zap.Error(err))
		return nil
	}
	return &t
}

// Save writes the checkpoint.
func (s *StateStore) Save(t time.Time) error {
	if err := os.WriteFile(s.path, []byte(t.Format(time.RFC3339Nano)), 0o644); err != nil {
		s.log.Error("failed to save checkpoint", zap.Error(err))
		return err
	}
	s.log.Info("saved checkpoint", zap.Time("checkpoint", t))
	return nil
}

// Clear removes the checkpoint so the next pass processes the full feed.
func (s *StateStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
