package models

import "encoding/json"

// CatalogItem is a single entry of the upstream list feed. It is ephemeral:
// decoded from one page, flattened into the persisted record, and dropped.
type CatalogItem struct {
	ID               string           `json:"id"`
	Type             string           `json:"type"`
	Link             string           `json:"link"`
	Title            string           `json:"title"`
	TitleOrig        string           `json:"title_orig"`
	OtherTitle       string           `json:"other_title"`
	Year             int              `json:"year"`
	LastSeason       *int             `json:"last_season"`
	LastEpisode      *int             `json:"last_episode"`
	EpisodesCount    *int             `json:"episodes_count"`
	KinopoiskID      string           `json:"kinopoisk_id"`
	ImdbID           string           `json:"imdb_id"`
	ShikimoriID      string           `json:"shikimori_id"`
	Quality          string           `json:"quality"`
	Camrip           bool             `json:"camrip"`
	LGBT             bool             `json:"lgbt"`
	CreatedAt        string           `json:"created_at"`
	UpdatedAt        string           `json:"updated_at"`
	Translation      *TranslationInfo `json:"translation"`
	Screenshots      []string         `json:"screenshots"`
	BlockedCountries []string         `json:"blocked_countries"`
	// BlockedSeasons is either a season→block-descriptor object or the
	// literal string "all". Kept raw and normalized at reconcile time.
	BlockedSeasons json.RawMessage `json:"blocked_seasons"`
	MaterialData   *MaterialData   `json:"material_data"`
}

// TranslationInfo describes the translation a catalog item was published
// under.
type TranslationInfo struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// MaterialData carries the optional descriptive block nested in a catalog
// item. All fields may be absent.
type MaterialData struct {
	Description      string   `json:"description"`
	AnimeDescription string   `json:"anime_description"`
	PosterURL        string   `json:"poster_url"`
	AnimePosterURL   string   `json:"anime_poster_url"`
	PremiereWorld    string   `json:"premiere_world"`
	AiredAt          string   `json:"aired_at"`
	ReleasedAt       string   `json:"released_at"`
	RatingMPAA       string   `json:"rating_mpaa"`
	MinimalAge       *int     `json:"minimal_age"`
	EpisodesTotal    *int     `json:"episodes_total"`
	EpisodesAired    *int     `json:"episodes_aired"`
	ImdbRating       *float64 `json:"imdb_rating"`
	ImdbVotes        *int     `json:"imdb_votes"`
	ShikimoriID      string   `json:"shikimori_id"`
	ShikimoriRating  *float64 `json:"shikimori_rating"`
	ShikimoriVotes   *float64 `json:"shikimori_votes"`
	NextEpisodeAt    string   `json:"next_episode_at"`
	AllStatus        string   `json:"all_status"`
	AnimeKind        string   `json:"anime_kind"`
	Duration         *int     `json:"duration"`

	AnimeGenres  []string `json:"anime_genres"`
	GenresAlt    []string `json:"genres"`
	AllGenres    []string `json:"all_genres"`
	Actors       []string `json:"actors"`
	Directors    []string `json:"directors"`
	Producers    []string `json:"producers"`
	Writers      []string `json:"writers"`
	Composers    []string `json:"composers"`
	AnimeStudios []string `json:"anime_studios"`
	Screenshots  []string `json:"screenshots"`
}

// Genres returns the genre list. The feed publishes genres under three
// alternate keys; the first non-empty list wins. Empty names are dropped.
func (m *MaterialData) Genres() []string {
	if m == nil {
		return nil
	}

	source := m.AnimeGenres
	if len(source) == 0 {
		source = m.GenresAlt
	}
	if len(source) == 0 {
		source = m.AllGenres
	}

	return compact(source)
}

// Studios returns the studio names with empty entries dropped.
func (m *MaterialData) Studios() []string {
	if m == nil {
		return nil
	}
	return compact(m.AnimeStudios)
}

// PersonsByRole maps each credit role to its list of names.
func (m *MaterialData) PersonsByRole() map[string][]string {
	if m == nil {
		return nil
	}

	return map[string][]string{
		RoleActor:    m.Actors,
		RoleDirector: m.Directors,
		RoleProducer: m.Producers,
		RoleWriter:   m.Writers,
		RoleComposer: m.Composers,
	}
}

// ExtractScreenshots merges item and material screenshot URLs, deduplicating
// while preserving first-seen order.
func ExtractScreenshots(item *CatalogItem) []string {
	var urls []string
	urls = append(urls, item.Screenshots...)
	if item.MaterialData != nil {
		urls = append(urls, item.MaterialData.Screenshots...)
	}

	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// blockedAllSentinel is the upstream marker for "blocked everywhere".
const blockedAllSentinel = "all"

// NormalizeBlockedSeasons normalizes the raw blocked_seasons value.
//
// Three shapes are valid: absent (nil map, ok), the string sentinel "all"
// (normalized to a single "all" entry), and a season→descriptor object
// (returned as-is, each descriptor kept as an opaque blob). Any other shape
// returns ok=false so the caller can log and skip it.
func NormalizeBlockedSeasons(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	if len(raw) == 0 {
		return nil, true
	}

	var probe any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, false
	}

	switch v := probe.(type) {
	case nil:
		return nil, true
	case string:
		if v != blockedAllSentinel {
			return nil, false
		}
		sentinel, _ := json.Marshal(blockedAllSentinel)
		return map[string]json.RawMessage{blockedAllSentinel: sentinel}, true
	case map[string]any:
		var seasons map[string]json.RawMessage
		if err := json.Unmarshal(raw, &seasons); err != nil {
			return nil, false
		}
		return seasons, true
	default:
		return nil, false
	}
}

func compact(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}
