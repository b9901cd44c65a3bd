package sync

import (
	"context"
	"fmt"
	stdsync "sync"
	"time"

	"anime-sync/core/logger"
	"anime-sync/core/utils"
	"anime-sync/feature/anime/client"
	"anime-sync/feature/anime/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Syncer owns the sync pass: pagination, the incremental-stop heuristic,
// batching and commit cadence, and metrics aggregation.
type Syncer struct {
	db      *gorm.DB
	fetcher client.PageFetcher
	state   *StateStore
	cfg     Config
	log     *zap.Logger

	mu      stdsync.RWMutex
	last    *Metrics
	running bool
}

// NewSyncer creates a sync driver.
func NewSyncer(db *gorm.DB, fetcher client.PageFetcher, state *StateStore, cfg Config, log *zap.Logger) *Syncer {
	return &Syncer{
		db:      db,
		fetcher: fetcher,
		state:   state,
		cfg:     cfg,
		log:     log,
	}
}

// LastMetrics returns the metrics of the most recent pass, nil before the
// first one.
func (s *Syncer) LastMetrics() *Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil
	}
	m := *s.last
	return &m
}

// Running reports whether a pass is in flight.
func (s *Syncer) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Checkpoint returns the persisted checkpoint timestamp, nil before the
// first completed pass.
func (s *Syncer) Checkpoint() *time.Time {
	return s.state.Load()
}

// RunPass executes one sync pass.
//
// The pass walks the feed newest-first, upserts each item, reconciles its
// relations when it changed (or carries a new translation), and commits at
// batch and page boundaries. The pass ends on feed exhaustion, the
// consecutive-old cutoff, fetch-retry exhaustion, or cancellation; whatever
// was committed stays, and the checkpoint advances to the maximum freshness
// timestamp seen among processed items.
func (s *Syncer) RunPass(ctx context.Context) (*Metrics, error) {
	passLog := logger.WithPass(s.log, uuid.NewString())
	metrics := NewMetrics()

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
	defer func() {
		metrics.Finish()
		s.mu.Lock()
		s.last = metrics
		s.running = false
		s.mu.Unlock()
	}()

	lastSync := s.state.Load()
	firstSync := lastSync == nil
	if firstSync {
		passLog.Info("first sync, processing all records")
	} else {
		passLog.Info("incremental sync", zap.Time("last_sync", *lastSync))
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin transaction: %w", tx.Error)
	}

	cache := NewCache(passLog)
	if err := cache.Preload(tx); err != nil {
		tx.Rollback()
		return nil, err
	}

	var newest *time.Time
	pageURL := s.fetcher.FirstPageURL()
	pageNum := 0
	total := 0
	consecutiveOld := 0

	for pageURL != "" {
		if ctx.Err() != nil {
			passLog.Info("stop signal received, halting pass")
			break
		}

		page, err := s.fetcher.FetchPage(ctx, pageURL)
		if err != nil {
			passLog.Error("failed to fetch page, aborting pass", zap.Error(err))
			metrics.MarkError()
			break
		}
		if page == nil {
			break
		}

		pageNum++
		passLog.Info("processing page",
			zap.Int("page", pageNum),
			zap.Int("items", len(page.Results)))

		pageURL = ""
		if page.NextPage != nil {
			pageURL = *page.NextPage
		}

		for i := range page.Results {
			if ctx.Err() != nil {
				passLog.Info("stop signal received during page processing")
				pageURL = ""
				break
			}

			item := &page.Results[i]
			itemUpdated := utils.ParseDateTime(item.UpdatedAt)

			if !firstSync && itemUpdated != nil && !itemUpdated.After(*lastSync) {
				// At or below the checkpoint means a previous pass already
				// applied this state.
				metrics.MarkUnchanged()
				consecutiveOld++
				if s.cfg.OldThreshold > 0 && consecutiveOld >= s.cfg.OldThreshold {
					// The cutoff assumes the feed is newest-first. If the
					// upstream ever violates that ordering, legitimately new
					// records behind this point are skipped until they are
					// touched again.
					passLog.Warn("consecutive already-synced records reached threshold, stopping pass",
						zap.Int("count", consecutiveOld))
					pageURL = ""
					break
				}
				continue
			}
			consecutiveOld = 0

			if err := s.processItem(tx, cache, item, metrics, passLog); err != nil {
				passLog.Error("error processing record",
					zap.String("kodik_id", item.ID),
					zap.Error(err))
				metrics.MarkError()
			} else {
				total++
				if s.cfg.BatchSize > 0 && total%s.cfg.BatchSize == 0 {
					if tx, err = s.rotate(tx); err != nil {
						return metrics, err
					}
					passLog.Info("batch committed",
						zap.Int("processed", total),
						zap.Int("added", metrics.Added),
						zap.Int("updated", metrics.Updated),
						zap.Int("unchanged", metrics.Unchanged))
				}
			}

			if itemUpdated != nil && (newest == nil || itemUpdated.After(*newest)) {
				newest = itemUpdated
			}
		}

		// Page boundary is a durability point.
		var rerr error
		if tx, rerr = s.rotate(tx); rerr != nil {
			return metrics, rerr
		}
	}

	if err := tx.Commit().Error; err != nil {
		return metrics, fmt.Errorf("final commit: %w", err)
	}

	// The checkpoint only ever advances: it is the max freshness seen this
	// pass, and incremental passes never process anything at or below the
	// previous checkpoint.
	if newest != nil {
		_ = s.state.Save(*newest)
	}

	metrics.LogSummary(passLog)
	return metrics, nil
}

// RunPeriodic runs passes in a loop, idling between them, until the context
// is cancelled. A failed pass is logged and retried on the next cycle.
func (s *Syncer) RunPeriodic(ctx context.Context, interval time.Duration) {
	s.log.Info("starting periodic sync", zap.Duration("interval", interval))

	for {
		s.log.Info("sync cycle started")
		if _, err := s.RunPass(ctx); err != nil {
			s.log.Error("sync cycle failed", zap.Error(err))
		}

		if ctx.Err() != nil {
			break
		}

		s.log.Info("sync cycle completed, waiting", zap.Duration("interval", interval))
		select {
		case <-ctx.Done():
		case <-time.After(interval):
			continue
		}
		break
	}

	s.log.Info("periodic sync stopped")
}

// processItem applies one catalog item: upsert, then relation
// reconciliation when the record changed or gained a translation.
func (s *Syncer) processItem(tx *gorm.DB, cache *Cache, item *models.CatalogItem, metrics *Metrics, log *zap.Logger) error {
	engine := NewEngine(tx, log)

	id, changed, added, err := engine.Upsert(item, item.MaterialData)
	if err != nil {
		return err
	}

	newTranslation := false
	if !changed && !added && id != 0 {
		if newTranslation, err = engine.HasNewTranslation(id, item); err != nil {
			return err
		}
	}

	if changed || newTranslation {
		if err := engine.SyncRelations(cache, id, item, item.MaterialData); err != nil {
			return err
		}

		switch {
		case added:
			metrics.MarkAdded()
			log.Debug("added record", zap.Uint("anime_id", id), zap.String("title", item.Title))
		case newTranslation:
			metrics.MarkUpdated()
			log.Info("added translation to unchanged record", zap.Uint("anime_id", id))
		default:
			metrics.MarkUpdated()
			log.Debug("updated record", zap.Uint("anime_id", id), zap.String("title", item.Title))
		}
	} else {
		metrics.MarkUnchanged()
	}

	return nil
}

// rotate commits the current batch and opens the next transaction.
func (s *Syncer) rotate(tx *gorm.DB) (*gorm.DB, error) {
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("commit batch: %w", err)
	}
	next := s.db.Begin()
	if next.Error != nil {
		return nil, fmt.Errorf("begin transaction: %w", next.Error)
	}
	return next, nil
}
