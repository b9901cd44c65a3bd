package sync

import (
	"fmt"
	stdsync "sync"

	"anime-sync/feature/anime/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Kind identifies one of the reference entity tables. Kinds are deliberate
// namespaces: a person and a studio may share a name without colliding.
type Kind int

const (
	KindGenre Kind = iota
	KindPerson
	KindStudio
)

func (k Kind) String() string {
	switch k {
	case KindGenre:
		return "genre"
	case KindPerson:
		return "person"
	case KindStudio:
		return "studio"
	default:
		return "unknown"
	}
}

// kindCache is the per-kind name→id map with its own lock, so concurrent
// get-or-create calls for different kinds never contend and calls for the
// same kind collapse the check-then-create into one insert.
type kindCache struct {
	mu  stdsync.RWMutex
	ids map[string]uint
}

// Cache resolves reference entity names to ids, creating rows lazily.
// Reference entities are create-only, so cached ids never go stale. The
// cache is scoped to one sync pass and preloaded at pass start.
type Cache struct {
	kinds map[Kind]*kindCache
	log   *zap.Logger
}

// NewCache creates an empty lookup cache.
func NewCache(log *zap.Logger) *Cache {
	return &Cache{
		kinds: map[Kind]*kindCache{
			KindGenre:  {ids: make(map[string]uint)},
			KindPerson: {ids: make(map[string]uint)},
			KindStudio: {ids: make(map[string]uint)},
		},
		log: log,
	}
}

// Preload bulk-loads all three reference tables.
func (c *Cache) Preload(tx *gorm.DB) error {
	var genres []models.Genre
	if err := tx.Find(&genres).Error; err != nil {
		return fmt.Errorf("preload genres: %w", err)
	}
	for _, g := range genres {
		c.kinds[KindGenre].ids[g.Name] = g.ID
	}

	var persons []models.Person
	if err := tx.Find(&persons).Error; err != nil {
		return fmt.Errorf("preload persons: %w", err)
	}
	for _, p := range persons {
		c.kinds[KindPerson].ids[p.Name] = p.ID
	}

	var studios []models.Studio
	if err := tx.Find(&studios).Error; err != nil {
		return fmt.Errorf("preload studios: %w", err)
	}
	for _, s := range studios {
		c.kinds[KindStudio].ids[s.Name] = s.ID
	}

	c.log.Info("lookup cache preloaded",
		zap.Int("genres", len(genres)),
		zap.Int("persons", len(persons)),
		zap.Int("studios", len(studios)))
	return nil
}

// GetOrCreate resolves a name to its reference entity id, creating the row
// if absent. An empty name resolves to 0 without touching the store; a cache
// hit returns without a store round-trip.
func (c *Cache) GetOrCreate(tx *gorm.DB, kind Kind, name string) (uint, error) {
	if name == "" {
		return 0, nil
	}

	kc := c.kinds[kind]

	kc.mu.RLock()
	id, ok := kc.ids[name]
	kc.mu.RUnlock()
	if ok {
		return id, nil
	}

	kc.mu.Lock()
	defer kc.mu.Unlock()

	// Double-check: a concurrent caller may have created it while we waited.
	if id, ok := kc.ids[name]; ok {
		return id, nil
	}

	if err := insertIfAbsent(tx, kind, name); err != nil {
		return 0, fmt.Errorf("create %s %q: %w", kind, name, err)
	}

	id, err := lookupByName(tx, kind, name)
	if err != nil {
		return 0, fmt.Errorf("lookup %s %q: %w", kind, name, err)
	}
	if id == 0 {
		return 0, nil
	}

	kc.ids[name] = id
	return id, nil
}

// GetOrCreateBatch resolves names in order, skipping empty names and names
// that fail to resolve to an id. Store errors propagate.
func (c *Cache) GetOrCreateBatch(tx *gorm.DB, kind Kind, names []string) ([]uint, error) {
	ids := make([]uint, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		id, err := c.GetOrCreate(tx, kind, name)
		if err != nil {
			return nil, err
		}
		if id != 0 {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func insertIfAbsent(tx *gorm.DB, kind Kind, name string) error {
	ignore := tx.Clauses(clause.OnConflict{DoNothing: true})
	switch kind {
	case KindGenre:
		return ignore.Create(&models.Genre{Name: name}).Error
	case KindPerson:
		return ignore.Create(&models.Person{Name: name}).Error
	case KindStudio:
		return ignore.Create(&models.Studio{Name: name}).Error
	default:
		return fmt.Errorf("unknown kind %d", kind)
	}
}

func lookupByName(tx *gorm.DB, kind Kind, name string) (uint, error) {
	var row struct{ ID uint }

	q := tx.Select("id").Where("name = ?", name).Limit(1)
	switch kind {
	case KindGenre:
		q = q.Model(&models.Genre{})
	case KindPerson:
		q = q.Model(&models.Person{})
	case KindStudio:
		q = q.Model(&models.Studio{})
	default:
		return 0, fmt.Errorf("unknown kind %d", kind)
	}

	if err := q.Scan(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}
