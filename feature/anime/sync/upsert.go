package sync

import (
	"fmt"
	"time"

	"anime-sync/core/utils"
	"anime-sync/feature/anime/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Engine applies one catalog item to the store. It runs inside the driver's
// current transaction.
type Engine struct {
	tx  *gorm.DB
	log *zap.Logger
}

// NewEngine creates an engine bound to a transaction.
func NewEngine(tx *gorm.DB, log *zap.Logger) *Engine {
	return &Engine{tx: tx, log: log}
}

// findExisting resolves an incoming item to a stored record id via a
// priority-ordered identity search: shikimori id (item, then material),
// imdb id, then original title plus year. Conditions whose inputs are absent
// are not built; with no usable input the search returns 0 without issuing a
// query. When several rows satisfy the disjunction, the freshest one wins,
// newest row breaking ties.
func (e *Engine) findExisting(item *models.CatalogItem, material *models.MaterialData) (uint, error) {
	shikimoriID := item.ShikimoriID
	if shikimoriID == "" && material != nil {
		shikimoriID = material.ShikimoriID
	}

	var cond *gorm.DB
	addOr := func(c *gorm.DB) {
		if cond == nil {
			cond = c
		} else {
			cond = cond.Or(c)
		}
	}

	if shikimoriID != "" {
		addOr(e.tx.Where("shikimori_id = ?", shikimoriID))
	}
	if item.ImdbID != "" {
		addOr(e.tx.Where("imdb_id = ?", item.ImdbID))
	}
	if item.TitleOrig != "" && item.Year != 0 {
		addOr(e.tx.Where("title_orig = ? AND year = ?", item.TitleOrig, item.Year))
	}

	if cond == nil {
		return 0, nil
	}

	var row struct{ ID uint }
	err := e.tx.Model(&models.Anime{}).
		Select("id").
		Where(cond).
		Order("updated_at DESC").
		Order("id DESC").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return 0, fmt.Errorf("find existing: %w", err)
	}

	if row.ID != 0 {
		e.log.Debug("matched existing record",
			zap.Uint("anime_id", row.ID),
			zap.String("kodik_id", item.ID))
	}
	return row.ID, nil
}

// Upsert inserts or updates the record for an item. It returns the internal
// id, whether the row changed, and whether it was newly inserted.
//
// A record whose stored freshness timestamp is at least as new as the
// incoming one is left untouched.
func (e *Engine) Upsert(item *models.CatalogItem, material *models.MaterialData) (uint, bool, bool, error) {
	itemUpdated := utils.ParseDateTime(item.UpdatedAt)

	existingID, err := e.findExisting(item, material)
	if err != nil {
		return 0, false, false, err
	}

	values := animeValues(item, material)

	if existingID != 0 {
		var row struct{ UpdatedAt *time.Time }
		err := e.tx.Model(&models.Anime{}).
			Select("updated_at").
			Where("id = ?", existingID).
			Scan(&row).Error
		if err != nil {
			return 0, false, false, fmt.Errorf("load stored freshness: %w", err)
		}

		if row.UpdatedAt != nil && itemUpdated != nil && !itemUpdated.After(*row.UpdatedAt) {
			return existingID, false, false, nil
		}

		err = e.tx.Model(&models.Anime{}).
			Where("id = ?", existingID).
			UpdateColumns(values).Error
		if err != nil {
			return 0, false, false, fmt.Errorf("update record: %w", err)
		}

		// The record may have been re-identified under a new external id
		// while keeping its internal identity; keep the external id current.
		err = e.tx.Model(&models.Anime{}).
			Where("id = ?", existingID).
			UpdateColumn("kodik_id", item.ID).Error
		if err != nil {
			return 0, false, false, fmt.Errorf("refresh external id: %w", err)
		}

		return existingID, true, false, nil
	}

	// No identity match. The record may still exist from a prior pass that
	// saw it before any cross-reference ids were published.
	var row struct{ ID uint }
	err = e.tx.Model(&models.Anime{}).
		Select("id").
		Where("kodik_id = ?", item.ID).
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return 0, false, false, fmt.Errorf("lookup by external id: %w", err)
	}

	if row.ID != 0 {
		err = e.tx.Model(&models.Anime{}).
			Where("id = ?", row.ID).
			UpdateColumns(values).Error
		if err != nil {
			return 0, false, false, fmt.Errorf("update record: %w", err)
		}
		return row.ID, true, false, nil
	}

	values["kodik_id"] = item.ID
	if err := e.tx.Model(&models.Anime{}).Create(values).Error; err != nil {
		return 0, false, false, fmt.Errorf("insert record: %w", err)
	}

	var created struct{ ID uint }
	err = e.tx.Model(&models.Anime{}).
		Select("id").
		Where("kodik_id = ?", item.ID).
		Limit(1).
		Scan(&created).Error
	if err != nil || created.ID == 0 {
		return 0, false, false, fmt.Errorf("load inserted id: %w", err)
	}

	return created.ID, true, true, nil
}

// HasNewTranslation reports whether the item carries a translation that is
// not yet stored for the record. This is the narrow existence check used to
// trigger relation reconciliation on otherwise unchanged records.
func (e *Engine) HasNewTranslation(animeID uint, item *models.CatalogItem) (bool, error) {
	if item.Translation == nil {
		return false, nil
	}

	var count int64
	err := e.tx.Model(&models.AnimeTranslation{}).
		Where("anime_id = ? AND external_id = ?", animeID, item.Translation.ID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check translation: %w", err)
	}
	return count == 0, nil
}

// animeValues flattens an item and its material block into column values.
// Single source of truth for the field mapping, used by both insert and
// update paths. Pure and total: absent inputs map to NULL, never panic.
func animeValues(item *models.CatalogItem, material *models.MaterialData) map[string]any {
	mat := material
	if mat == nil {
		mat = &models.MaterialData{}
	}

	shikimoriID := item.ShikimoriID
	if shikimoriID == "" {
		shikimoriID = mat.ShikimoriID
	}

	return map[string]any{
		"kodik_type":        nullStr(item.Type),
		"link":              nullStr(item.Link),
		"title":             nullStr(item.Title),
		"title_orig":        nullStr(item.TitleOrig),
		"other_title":       nullStr(item.OtherTitle),
		"year":              nullInt(item.Year),
		"last_season":       item.LastSeason,
		"last_episode":      item.LastEpisode,
		"episodes_count":    item.EpisodesCount,
		"kinopoisk_id":      nullStr(item.KinopoiskID),
		"imdb_id":           nullStr(item.ImdbID),
		"shikimori_id":      nullStr(shikimoriID),
		"quality":           nullStr(item.Quality),
		"camrip":            item.Camrip,
		"lgbt":              item.LGBT,
		"created_at":        utils.ParseDateTime(item.CreatedAt),
		"updated_at":        utils.ParseDateTime(item.UpdatedAt),
		"description":       nullStr(mat.Description),
		"anime_description": nullStr(mat.AnimeDescription),
		"poster_url":        nullStr(mat.PosterURL),
		"anime_poster_url":  nullStr(mat.AnimePosterURL),
		"premiere_world":    utils.ParseDate(mat.PremiereWorld),
		"aired_at":          utils.ParseDate(mat.AiredAt),
		"released_at":       utils.ParseDate(mat.ReleasedAt),
		"rating_mpaa":       nullStr(mat.RatingMPAA),
		"minimal_age":       mat.MinimalAge,
		"episodes_total":    mat.EpisodesTotal,
		"episodes_aired":    mat.EpisodesAired,
		"imdb_rating":       nullRating(mat.ImdbRating),
		"imdb_votes":        mat.ImdbVotes,
		"shikimori_rating":  nullRating(mat.ShikimoriRating),
		"shikimori_votes":   mat.ShikimoriVotes,
		"next_episode_at":   utils.ParseDateTime(mat.NextEpisodeAt),
		"all_status":        nullStr(mat.AllStatus),
		"anime_kind":        nullStr(mat.AnimeKind),
		"duration":          mat.Duration,
	}
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(v int) any {
	if v == 0 {
		return nil
	}
	return v
}

// nullRating drops ratings outside the 0..10 scale.
func nullRating(r *float64) any {
	if r == nil || !utils.ValidRating(*r) {
		return nil
	}
	return *r
}
