package sync

import (
	"fmt"

	"anime-sync/feature/anime/models"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// personRef is one desired (person, role) pair.
type personRef struct {
	PersonID uint
	Role     string
}

// SyncRelations reconciles every relation owned by a record against the
// incoming item.
//
// Genres, screenshots, persons, and studios are diffed: only the symmetric
// difference between the stored and desired sets is written, so the cost is
// proportional to what changed. An empty desired set removes the stored set.
// Translations are append-only. Blocked countries and seasons are cheap and
// fully specified by each payload, so they are replaced wholesale.
func (e *Engine) SyncRelations(cache *Cache, animeID uint, item *models.CatalogItem, material *models.MaterialData) error {
	if err := e.syncGenres(cache, animeID, material); err != nil {
		return err
	}
	if err := e.syncScreenshots(animeID, item); err != nil {
		return err
	}
	if err := e.syncPersons(cache, animeID, material); err != nil {
		return err
	}
	if err := e.syncStudios(cache, animeID, material); err != nil {
		return err
	}
	if err := e.appendTranslation(animeID, item); err != nil {
		return err
	}
	if err := e.replaceBlocked(animeID, item); err != nil {
		return err
	}
	return nil
}

func (e *Engine) syncGenres(cache *Cache, animeID uint, material *models.MaterialData) error {
	names := material.Genres()
	if len(names) == 0 {
		return e.deleteAll(&models.AnimeGenre{}, animeID, "genres")
	}

	desiredIDs, err := cache.GetOrCreateBatch(e.tx, KindGenre, names)
	if err != nil {
		return err
	}

	var currentIDs []uint
	if err := e.tx.Model(&models.AnimeGenre{}).Where("anime_id = ?", animeID).Pluck("genre_id", &currentIDs).Error; err != nil {
		return fmt.Errorf("load genre links: %w", err)
	}

	toRemove, toAdd := diffIDs(currentIDs, desiredIDs)

	if len(toRemove) > 0 {
		if err := e.tx.Where("anime_id = ? AND genre_id IN ?", animeID, toRemove).Delete(&models.AnimeGenre{}).Error; err != nil {
			return fmt.Errorf("remove genre links: %w", err)
		}
	}
	if len(toAdd) > 0 {
		links := make([]models.AnimeGenre, 0, len(toAdd))
		for _, id := range toAdd {
			links = append(links, models.AnimeGenre{AnimeID: animeID, GenreID: id})
		}
		if err := e.tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error; err != nil {
			return fmt.Errorf("add genre links: %w", err)
		}
	}
	return nil
}

func (e *Engine) syncScreenshots(animeID uint, item *models.CatalogItem) error {
	desired := models.ExtractScreenshots(item)
	if len(desired) == 0 {
		return e.deleteAll(&models.AnimeScreenshot{}, animeID, "screenshots")
	}

	var current []string
	if err := e.tx.Model(&models.AnimeScreenshot{}).Where("anime_id = ?", animeID).Pluck("url", &current).Error; err != nil {
		return fmt.Errorf("load screenshots: %w", err)
	}

	toRemove, toAdd := diffStrings(current, desired)

	if len(toRemove) > 0 {
		if err := e.tx.Where("anime_id = ? AND url IN ?", animeID, toRemove).Delete(&models.AnimeScreenshot{}).Error; err != nil {
			return fmt.Errorf("remove screenshots: %w", err)
		}
	}
	if len(toAdd) > 0 {
		rows := make([]models.AnimeScreenshot, 0, len(toAdd))
		for _, url := range toAdd {
			rows = append(rows, models.AnimeScreenshot{AnimeID: animeID, URL: url})
		}
		if err := e.tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("add screenshots: %w", err)
		}
	}
	return nil
}

func (e *Engine) syncPersons(cache *Cache, animeID uint, material *models.MaterialData) error {
	desired := make(map[personRef]struct{})
	for role, names := range material.PersonsByRole() {
		ids, err := cache.GetOrCreateBatch(e.tx, KindPerson, names)
		if err != nil {
			return err
		}
		for _, id := range ids {
			desired[personRef{PersonID: id, Role: role}] = struct{}{}
		}
	}

	if len(desired) == 0 {
		return e.deleteAll(&models.AnimePerson{}, animeID, "persons")
	}

	var links []models.AnimePerson
	if err := e.tx.Where("anime_id = ?", animeID).Find(&links).Error; err != nil {
		return fmt.Errorf("load person links: %w", err)
	}

	current := make(map[personRef]struct{}, len(links))
	for _, l := range links {
		current[personRef{PersonID: l.PersonID, Role: l.Role}] = struct{}{}
	}

	for ref := range current {
		if _, keep := desired[ref]; keep {
			continue
		}
		err := e.tx.Where("anime_id = ? AND person_id = ? AND role = ?", animeID, ref.PersonID, ref.Role).
			Delete(&models.AnimePerson{}).Error
		if err != nil {
			return fmt.Errorf("remove person link: %w", err)
		}
	}

	var toAdd []models.AnimePerson
	for ref := range desired {
		if _, exists := current[ref]; exists {
			continue
		}
		toAdd = append(toAdd, models.AnimePerson{AnimeID: animeID, PersonID: ref.PersonID, Role: ref.Role})
	}
	if len(toAdd) > 0 {
		if err := e.tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&toAdd).Error; err != nil {
			return fmt.Errorf("add person links: %w", err)
		}
	}
	return nil
}

func (e *Engine) syncStudios(cache *Cache, animeID uint, material *models.MaterialData) error {
	names := material.Studios()
	if len(names) == 0 {
		return e.deleteAll(&models.AnimeStudio{}, animeID, "studios")
	}

	desiredIDs, err := cache.GetOrCreateBatch(e.tx, KindStudio, names)
	if err != nil {
		return err
	}

	var currentIDs []uint
	if err := e.tx.Model(&models.AnimeStudio{}).Where("anime_id = ?", animeID).Pluck("studio_id", &currentIDs).Error; err != nil {
		return fmt.Errorf("load studio links: %w", err)
	}

	toRemove, toAdd := diffIDs(currentIDs, desiredIDs)

	if len(toRemove) > 0 {
		if err := e.tx.Where("anime_id = ? AND studio_id IN ?", animeID, toRemove).Delete(&models.AnimeStudio{}).Error; err != nil {
			return fmt.Errorf("remove studio links: %w", err)
		}
	}
	if len(toAdd) > 0 {
		links := make([]models.AnimeStudio, 0, len(toAdd))
		for _, id := range toAdd {
			links = append(links, models.AnimeStudio{AnimeID: animeID, StudioID: id})
		}
		if err := e.tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error; err != nil {
			return fmt.Errorf("add studio links: %w", err)
		}
	}
	return nil
}

// appendTranslation inserts the item's translation descriptor when the
// (anime, external translation id) pair is new. Existing rows are never
// updated or removed.
func (e *Engine) appendTranslation(animeID uint, item *models.CatalogItem) error {
	tr := item.Translation
	if tr == nil {
		return nil
	}

	var count int64
	err := e.tx.Model(&models.AnimeTranslation{}).
		Where("anime_id = ? AND external_id = ?", animeID, tr.ID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("check translation: %w", err)
	}
	if count > 0 {
		return nil
	}

	row := models.AnimeTranslation{
		AnimeID:    animeID,
		ExternalID: tr.ID,
		Title:      strPtr(tr.Title),
		TransType:  strPtr(tr.Type),
	}
	if err := e.tx.Create(&row).Error; err != nil {
		return fmt.Errorf("insert translation: %w", err)
	}

	e.log.Info("added translation",
		zap.Uint("anime_id", animeID),
		zap.String("title", tr.Title))
	return nil
}

// replaceBlocked rewrites blocked countries and seasons from the payload.
func (e *Engine) replaceBlocked(animeID uint, item *models.CatalogItem) error {
	if err := e.deleteAll(&models.BlockedCountry{}, animeID, "blocked countries"); err != nil {
		return err
	}
	if err := e.deleteAll(&models.BlockedSeason{}, animeID, "blocked seasons"); err != nil {
		return err
	}

	if len(item.BlockedCountries) > 0 {
		rows := make([]models.BlockedCountry, 0, len(item.BlockedCountries))
		for _, country := range item.BlockedCountries {
			rows = append(rows, models.BlockedCountry{AnimeID: animeID, Country: country})
		}
		if err := e.tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert blocked countries: %w", err)
		}
	}

	seasons, ok := models.NormalizeBlockedSeasons(item.BlockedSeasons)
	if !ok {
		e.log.Warn("unexpected blocked_seasons shape, skipping",
			zap.String("kodik_id", item.ID),
			zap.ByteString("raw", item.BlockedSeasons))
		return nil
	}
	if len(seasons) == 0 {
		return nil
	}

	rows := make([]models.BlockedSeason, 0, len(seasons))
	for season, data := range seasons {
		rows = append(rows, models.BlockedSeason{
			AnimeID:     animeID,
			Season:      season,
			BlockedData: datatypes.JSON(data),
		})
	}
	if err := e.tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert blocked seasons: %w", err)
	}
	return nil
}

func (e *Engine) deleteAll(model any, animeID uint, what string) error {
	if err := e.tx.Where("anime_id = ?", animeID).Delete(model).Error; err != nil {
		return fmt.Errorf("clear %s: %w", what, err)
	}
	return nil
}

// diffIDs returns current−desired and desired−current.
func diffIDs(current, desired []uint) (toRemove, toAdd []uint) {
	currentSet := make(map[uint]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}
	desiredSet := make(map[uint]struct{}, len(desired))
	for _, id := range desired {
		desiredSet[id] = struct{}{}
	}

	for id := range currentSet {
		if _, keep := desiredSet[id]; !keep {
			toRemove = append(toRemove, id)
		}
	}
	for id := range desiredSet {
		if _, exists := currentSet[id]; !exists {
			toAdd = append(toAdd, id)
		}
	}
	return toRemove, toAdd
}

func diffStrings(current, desired []string) (toRemove, toAdd []string) {
	currentSet := make(map[string]struct{}, len(current))
	for _, s := range current {
		currentSet[s] = struct{}{}
	}
	desiredSet := make(map[string]struct{}, len(desired))
	for _, s := range desired {
		desiredSet[s] = struct{}{}
	}

	for s := range currentSet {
		if _, keep := desiredSet[s]; !keep {
			toRemove = append(toRemove, s)
		}
	}
	for s := range desiredSet {
		if _, exists := currentSet[s]; !exists {
			toAdd = append(toAdd, s)
		}
	}
	return toRemove, toAdd
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
