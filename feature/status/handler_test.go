package status

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"anime-sync/core/database"
	"anime-sync/feature/anime/client"
	"anime-sync/feature/anime/models"
	"anime-sync/feature/anime/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubFetcher serves a single-page feed.
type stubFetcher struct {
	items []models.CatalogItem
}

func (s *stubFetcher) FirstPageURL() string { return "page-0" }

func (s *stubFetcher) FetchPage(context.Context, string) (*client.Page, error) {
	return &client.Page{Results: s.items}, nil
}

func newTestApp(t *testing.T) (*fiber.App, *sync.Syncer) {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	fetcher := &stubFetcher{items: []models.CatalogItem{
		{ID: "k1", Title: "Тестовый тайтл", TitleOrig: "test title", Year: 2020, UpdatedAt: "2024-06-01T10:00:00Z"},
	}}
	state := sync.NewStateStore(filepath.Join(t.TempDir(), "last_sync.txt"), zap.NewNop())
	syncer := sync.NewSyncer(db, fetcher, state, sync.Config{BatchSize: 200, OldThreshold: 50}, zap.NewNop())

	app := fiber.New()
	f := NewFeature(syncer, zap.NewNop())
	require.NoError(t, f.Load(app))
	return app, syncer
}

func TestHandleHealth(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandleStatus(t *testing.T) {
	app, syncer := newTestApp(t)

	t.Run("Before first pass", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/status", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body statusResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.False(t, body.Running)
		assert.Nil(t, body.Checkpoint)
		assert.Nil(t, body.LastPass)
	})

	t.Run("After a pass", func(t *testing.T) {
		_, err := syncer.RunPass(context.Background())
		require.NoError(t, err)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/status", nil))
		require.NoError(t, err)

		var body statusResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.False(t, body.Running)
		assert.NotNil(t, body.Checkpoint)
		require.NotNil(t, body.LastPass)
		assert.Equal(t, 1, body.LastPass.Added)
	})
}
