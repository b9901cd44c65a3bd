package sync

import (
	"testing"

	"anime-sync/feature/anime/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testItem(kodikID, updated string) *models.CatalogItem {
	return &models.CatalogItem{
		ID:          kodikID,
		Type:        "anime-serial",
		Link:        "//kodik.example/serial/" + kodikID,
		Title:       "Стальной алхимик",
		TitleOrig:   "Fullmetal Alchemist",
		Year:        2009,
		ShikimoriID: "5114",
		Quality:     "BDRip 1080p",
		CreatedAt:   "2020-01-01T00:00:00Z",
		UpdatedAt:   updated,
	}
}

func TestFindExistingWithoutIdentifiers(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	engine := NewEngine(db, zap.NewNop())

	// No shikimori id, no imdb id, no (title_orig, year) pair: the matcher
	// must answer without touching the store. Any query would fail the
	// sqlmock expectations.
	item := &models.CatalogItem{ID: "k-bare", Title: "Без опознавательных знаков"}

	id, err := engine.findExisting(item, nil)
	require.NoError(t, err)
	assert.Zero(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert(t *testing.T) {
	t.Run("Inserts new record", func(t *testing.T) {
		db := newTestDB(t)
		engine := NewEngine(db, zap.NewNop())

		id, changed, added, err := engine.Upsert(testItem("k1", "2024-06-01T10:00:00Z"), nil)
		require.NoError(t, err)
		assert.NotZero(t, id)
		assert.True(t, changed)
		assert.True(t, added)

		var row models.Anime
		require.NoError(t, db.First(&row, id).Error)
		assert.Equal(t, "k1", row.KodikID)
		require.NotNil(t, row.Title)
		assert.Equal(t, "Стальной алхимик", *row.Title)
		require.NotNil(t, row.Year)
		assert.Equal(t, 2009, *row.Year)
	})

	t.Run("Same freshness leaves record untouched", func(t *testing.T) {
		db := newTestDB(t)
		engine := NewEngine(db, zap.NewNop())

		first, _, _, err := engine.Upsert(testItem("k1", "2024-06-01T10:00:00Z"), nil)
		require.NoError(t, err)

		id, changed, added, err := engine.Upsert(testItem("k1", "2024-06-01T10:00:00Z"), nil)
		require.NoError(t, err)
		assert.Equal(t, first, id)
		assert.False(t, changed)
		assert.False(t, added)
	})

	t.Run("Older payload leaves record untouched", func(t *testing.T) {
		db := newTestDB(t)
		engine := NewEngine(db, zap.NewNop())

		first, _, _, err := engine.Upsert(testItem("k1", "2024-06-01T10:00:00Z"), nil)
		require.NoError(t, err)

		stale := testItem("k1", "2024-05-01T10:00:00Z")
		stale.Title = "Устаревшее название"

		id, changed, _, err := engine.Upsert(stale, nil)
		require.NoError(t, err)
		assert.Equal(t, first, id)
		assert.False(t, changed)

		var row models.Anime
		require.NoError(t, db.First(&row, first).Error)
		assert.Equal(t, "Стальной алхимик", *row.Title)
	})

	t.Run("Newer payload replaces fields", func(t *testing.T) {
		db := newTestDB(t)
		engine := NewEngine(db, zap.NewNop())

		first, _, _, err := engine.Upsert(testItem("k1", "2024-06-01T10:00:00Z"), nil)
		require.NoError(t, err)

		fresh := testItem("k1", "2024-07-01T10:00:00Z")
		fresh.Title = "Стальной алхимик: Братство"
		fresh.Quality = ""

		id, changed, added, err := engine.Upsert(fresh, nil)
		require.NoError(t, err)
		assert.Equal(t, first, id)
		assert.True(t, changed)
		assert.False(t, added)

		var row models.Anime
		require.NoError(t, db.First(&row, first).Error)
		assert.Equal(t, "Стальной алхимик: Братство", *row.Title)
		// Replacement is full-field: the absent quality clears the column.
		assert.Nil(t, row.Quality)
	})

	t.Run("Reidentifies under a new external id", func(t *testing.T) {
		db := newTestDB(t)
		engine := NewEngine(db, zap.NewNop())

		first, _, _, err := engine.Upsert(testItem("k1", "2024-06-01T10:00:00Z"), nil)
		require.NoError(t, err)

		// Same shikimori identity published under a different kodik id.
		moved := testItem("k2", "2024-07-01T10:00:00Z")

		id, changed, added, err := engine.Upsert(moved, nil)
		require.NoError(t, err)
		assert.Equal(t, first, id)
		assert.True(t, changed)
		assert.False(t, added)

		var count int64
		require.NoError(t, db.Model(&models.Anime{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)

		var row models.Anime
		require.NoError(t, db.First(&row, first).Error)
		assert.Equal(t, "k2", row.KodikID)
	})

	t.Run("Matches by original title and year", func(t *testing.T) {
		db := newTestDB(t)
		engine := NewEngine(db, zap.NewNop())

		first, _, _, err := engine.Upsert(testItem("k1", "2024-06-01T10:00:00Z"), nil)
		require.NoError(t, err)

		byTitle := testItem("k3", "2024-07-01T10:00:00Z")
		byTitle.ShikimoriID = ""

		id, _, added, err := engine.Upsert(byTitle, nil)
		require.NoError(t, err)
		assert.Equal(t, first, id)
		assert.False(t, added)
	})

	t.Run("Falls back to external id lookup", func(t *testing.T) {
		db := newTestDB(t)
		engine := NewEngine(db, zap.NewNop())

		bare := &models.CatalogItem{ID: "k-bare", Title: "Без идентификаторов", UpdatedAt: "2024-06-01T10:00:00Z"}
		first, _, added, err := engine.Upsert(bare, nil)
		require.NoError(t, err)
		assert.True(t, added)

		again := &models.CatalogItem{ID: "k-bare", Title: "Без идентификаторов", UpdatedAt: "2024-07-01T10:00:00Z"}
		id, changed, added, err := engine.Upsert(again, nil)
		require.NoError(t, err)
		assert.Equal(t, first, id)
		assert.True(t, changed)
		assert.False(t, added)
	})
}

func TestHasNewTranslation(t *testing.T) {
	db := newTestDB(t)
	engine := NewEngine(db, zap.NewNop())

	item := testItem("k1", "2024-06-01T10:00:00Z")
	item.Translation = &models.TranslationInfo{ID: 610, Title: "AniLibria", Type: "voice"}

	id, _, _, err := engine.Upsert(item, nil)
	require.NoError(t, err)

	fresh, err := engine.HasNewTranslation(id, item)
	require.NoError(t, err)
	assert.True(t, fresh)

	require.NoError(t, engine.appendTranslation(id, item))

	fresh, err = engine.HasNewTranslation(id, item)
	require.NoError(t, err)
	assert.False(t, fresh)

	item.Translation = &models.TranslationInfo{ID: 611, Title: "AniDUB", Type: "voice"}
	fresh, err = engine.HasNewTranslation(id, item)
	require.NoError(t, err)
	assert.True(t, fresh)
}
