package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const pageJSON = `{
  "results": [
    {"id": "serial-1", "title": "Test Show", "year": 2021, "updated_at": "2024-01-01T00:00:00Z"}
  ],
  "next_page": null
}`

func TestFetchPage(t *testing.T) {
	t.Run("Empty URL ends pagination", func(t *testing.T) {
		c := NewClient(Config{Retries: 3}, zap.NewNop())
		page, err := c.FetchPage(context.Background(), "")
		assert.NoError(t, err)
		assert.Nil(t, page)
	})

	t.Run("Decodes a page", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(pageJSON))
		}))
		defer srv.Close()

		c := NewClient(Config{Retries: 1}, zap.NewNop())
		page, err := c.FetchPage(context.Background(), srv.URL)
		assert.NoError(t, err)
		assert.NotNil(t, page)
		assert.Len(t, page.Results, 1)
		assert.Equal(t, "serial-1", page.Results[0].ID)
		assert.Nil(t, page.NextPage)
	})

	t.Run("Retries then succeeds", func(t *testing.T) {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(pageJSON))
		}))
		defer srv.Close()

		// BackoffBaseSeconds 0 keeps the test fast.
		c := NewClient(Config{Retries: 2, BackoffBaseSeconds: 0}, zap.NewNop())
		page, err := c.FetchPage(context.Background(), srv.URL)
		assert.NoError(t, err)
		assert.NotNil(t, page)
		assert.Equal(t, 2, calls)
	})

	t.Run("Exhausts retries", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c := NewClient(Config{Retries: 2, BackoffBaseSeconds: 0}, zap.NewNop())
		page, err := c.FetchPage(context.Background(), srv.URL)
		assert.Error(t, err)
		assert.Nil(t, page)
	})
}

func TestListURL(t *testing.T) {
	cfg := Config{Token: "secret", BaseURL: "https://kodikapi.com/list"}
	u := cfg.ListURL()
	assert.True(t, strings.HasPrefix(u, "https://kodikapi.com/list?"))
	assert.Contains(t, u, "token=secret")
	assert.Contains(t, u, "with_material_data=true")
	assert.Contains(t, u, "types=anime-serial%2Canime")
}
