package models

import (
	"time"

	"gorm.io/datatypes"
)

// Credit roles stored on anime↔person links.
const (
	RoleActor    = "actor"
	RoleDirector = "director"
	RoleProducer = "producer"
	RoleWriter   = "writer"
	RoleComposer = "composer"
)

// Anime is the persisted catalog record. Identity is the internal id; the
// external catalog id (kodik_id) is unique but may be re-pointed when the
// matcher re-identifies a record under a new external id.
//
// created_at/updated_at are upstream freshness timestamps, not row-tracking
// columns, so GORM's automatic time tracking is disabled on them.
type Anime struct {
	ID            uint       `gorm:"column:id;primaryKey"`
	KodikID       string     `gorm:"column:kodik_id;size:100;not null;uniqueIndex"`
	KodikType     *string    `gorm:"column:kodik_type;size:50"`
	Link          *string    `gorm:"column:link;size:500"`
	Title         *string    `gorm:"column:title;size:500"`
	TitleOrig     *string    `gorm:"column:title_orig;size:500;index:idx_anime_title_year"`
	OtherTitle    *string    `gorm:"column:other_title;size:1000"`
	Year          *int       `gorm:"column:year;index:idx_anime_title_year"`
	LastSeason    *int       `gorm:"column:last_season"`
	LastEpisode   *int       `gorm:"column:last_episode"`
	EpisodesCount *int       `gorm:"column:episodes_count"`
	KinopoiskID   *string    `gorm:"column:kinopoisk_id;size:50"`
	ImdbID        *string    `gorm:"column:imdb_id;size:50;index"`
	ShikimoriID   *string    `gorm:"column:shikimori_id;size:50;index"`
	Quality       *string    `gorm:"column:quality;size:100"`
	Camrip        bool       `gorm:"column:camrip"`
	LGBT          bool       `gorm:"column:lgbt"`
	CreatedAt     *time.Time `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt     *time.Time `gorm:"column:updated_at;index;autoUpdateTime:false"`

	Description      *string    `gorm:"column:description;type:text"`
	AnimeDescription *string    `gorm:"column:anime_description;type:text"`
	PosterURL        *string    `gorm:"column:poster_url;size:500"`
	AnimePosterURL   *string    `gorm:"column:anime_poster_url;size:500"`
	PremiereWorld    *time.Time `gorm:"column:premiere_world"`
	AiredAt          *time.Time `gorm:"column:aired_at"`
	ReleasedAt       *time.Time `gorm:"column:released_at"`
	RatingMPAA       *string    `gorm:"column:rating_mpaa;size:20"`
	MinimalAge       *int       `gorm:"column:minimal_age"`
	EpisodesTotal    *int       `gorm:"column:episodes_total"`
	EpisodesAired    *int       `gorm:"column:episodes_aired"`
	ImdbRating       *float64   `gorm:"column:imdb_rating"`
	ImdbVotes        *int       `gorm:"column:imdb_votes"`
	ShikimoriRating  *float64   `gorm:"column:shikimori_rating"`
	ShikimoriVotes   *float64   `gorm:"column:shikimori_votes"`
	NextEpisodeAt    *time.Time `gorm:"column:next_episode_at"`
	AllStatus        *string    `gorm:"column:all_status;size:50"`
	AnimeKind        *string    `gorm:"column:anime_kind;size:50"`
	Duration         *int       `gorm:"column:duration"`

	Translations     []AnimeTranslation `gorm:"foreignKey:AnimeID;constraint:OnDelete:CASCADE"`
	GenreLinks       []AnimeGenre       `gorm:"foreignKey:AnimeID;constraint:OnDelete:CASCADE"`
	PersonLinks      []AnimePerson      `gorm:"foreignKey:AnimeID;constraint:OnDelete:CASCADE"`
	StudioLinks      []AnimeStudio      `gorm:"foreignKey:AnimeID;constraint:OnDelete:CASCADE"`
	ScreenshotLinks  []AnimeScreenshot  `gorm:"foreignKey:AnimeID;constraint:OnDelete:CASCADE"`
	BlockedCountries []BlockedCountry   `gorm:"foreignKey:AnimeID;constraint:OnDelete:CASCADE"`
	BlockedSeasons   []BlockedSeason    `gorm:"foreignKey:AnimeID;constraint:OnDelete:CASCADE"`
}

func (Anime) TableName() string { return "anime" }

// AnimeTranslation is append-only: rows are inserted when a new
// (anime, external translation id) pair is seen and never updated or removed
// by sync.
type AnimeTranslation struct {
	ID         uint    `gorm:"column:id;primaryKey"`
	AnimeID    uint    `gorm:"column:anime_id;index"`
	ExternalID int     `gorm:"column:external_id"`
	Title      *string `gorm:"column:title;size:500"`
	TransType  *string `gorm:"column:trans_type;size:50"`
}

func (AnimeTranslation) TableName() string { return "anime_translations" }

// Genre is a create-only reference entity.
type Genre struct {
	ID   uint   `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;size:200;uniqueIndex"`
}

func (Genre) TableName() string { return "genres" }

// Person is a create-only reference entity. Persons and studios share no
// namespace: identical names live in separate tables on purpose.
type Person struct {
	ID   uint   `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;size:255;uniqueIndex"`
}

func (Person) TableName() string { return "persons" }

// Studio is a create-only reference entity.
type Studio struct {
	ID   uint   `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;size:255;uniqueIndex"`
}

func (Studio) TableName() string { return "studios" }

// AnimeGenre links an anime to a genre.
type AnimeGenre struct {
	AnimeID uint `gorm:"column:anime_id;primaryKey;autoIncrement:false"`
	GenreID uint `gorm:"column:genre_id;primaryKey;autoIncrement:false"`
}

func (AnimeGenre) TableName() string { return "anime_genres" }

// AnimePerson links an anime to a person under a specific credit role. The
// same person may appear under several roles for one anime.
type AnimePerson struct {
	AnimeID  uint   `gorm:"column:anime_id;primaryKey;autoIncrement:false"`
	PersonID uint   `gorm:"column:person_id;primaryKey;autoIncrement:false"`
	Role     string `gorm:"column:role;size:50;primaryKey"`
}

func (AnimePerson) TableName() string { return "anime_persons" }

// AnimeStudio links an anime to a studio.
type AnimeStudio struct {
	AnimeID  uint `gorm:"column:anime_id;primaryKey;autoIncrement:false"`
	StudioID uint `gorm:"column:studio_id;primaryKey;autoIncrement:false"`
}

func (AnimeStudio) TableName() string { return "anime_studios" }

// AnimeScreenshot stores a screenshot URL for an anime.
type AnimeScreenshot struct {
	ID      uint   `gorm:"column:id;primaryKey"`
	AnimeID uint   `gorm:"column:anime_id;index"`
	URL     string `gorm:"column:url;size:500"`
}

func (AnimeScreenshot) TableName() string { return "anime_screenshots" }

// BlockedCountry stores a country where an anime is unavailable.
type BlockedCountry struct {
	ID      uint   `gorm:"column:id;primaryKey"`
	AnimeID uint   `gorm:"column:anime_id;index"`
	Country string `gorm:"column:country;size:100"`
}

func (BlockedCountry) TableName() string { return "blocked_countries" }

// BlockedSeason stores a blocked season label with its opaque block
// descriptor. The "all" sentinel is stored as a single row.
type BlockedSeason struct {
	ID          uint           `gorm:"column:id;primaryKey"`
	AnimeID     uint           `gorm:"column:anime_id;index"`
	Season      string         `gorm:"column:season;size:50"`
	BlockedData datatypes.JSON `gorm:"column:blocked_data"`
}

func (BlockedSeason) TableName() string { return "blocked_seasons" }

// All returns every persisted entity for schema migration.
func All() []any {
	return []any{
		&Anime{},
		&AnimeTranslation{},
		&Genre{},
		&Person{},
		&Studio{},
		&AnimeGenre{},
		&AnimePerson{},
		&AnimeStudio{},
		&AnimeScreenshot{},
		&BlockedCountry{},
		&BlockedSeason{},
	}
}
