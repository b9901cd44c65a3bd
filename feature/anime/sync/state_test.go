package sync

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestStateStore(t *testing.T) {
	t.Run("Missing file is first sync", func(t *testing.T) {
		s := NewStateStore(filepath.Join(t.TempDir(), "last_sync.txt"), zap.NewNop())
		assert.Nil(t, s.Load())
	})

	t.Run("Roundtrip", func(t *testing.T) {
		s := NewStateStore(filepath.Join(t.TempDir(), "last_sync.txt"), zap.NewNop())
		want := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)

		assert.NoError(t, s.Save(want))

		got := s.Load()
		assert.NotNil(t, got)
		assert.True(t, got.Equal(want))
	})

	t.Run("Corrupt file is first sync", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "last_sync.txt")
		assert.NoError(t, os.WriteFile(path, []byte("not a timestamp"), 0o644))

		s := NewStateStore(path, zap.NewNop())
		assert.Nil(t, s.Load())
	})

	t.Run("Clear", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "last_sync.txt")
		s := NewStateStore(path, zap.NewNop())

		assert.NoError(t, s.Save(time.Now()))
		assert.NoError(t, s.Clear())
		assert.Nil(t, s.Load())

		// Clearing twice is fine.
		assert.NoError(t, s.Clear())
	})
}
