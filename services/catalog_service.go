package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"reelmate_server/models"
)

const (
	defaultTMDBBaseURL  = "https://api.themoviedb.org/3"
	tmdbImageBaseURL    = "https://image.tmdb.org/t/p/w500"
	youtubeWatchBaseURL = "https://www.youtube.com/watch?v="

	// All catalogs are scoped to the Dutch market.
	catalogRegion = "NL"

	defaultCatalogCacheTTL = 30 * time.Minute
)

// TMDB watch-provider ids for the home catalog.
const (
	providerNetflix     = "8"
	providerAmazonPrime = "9"
	providerDisneyPlus  = "337"
)

// Trailer lookup tries Dutch-localized videos first, then English.
var trailerLanguages = []string{"nl-NL", "en-US"}

// CatalogService fetches the swipeable movie list from TMDB: cinema
// mode serves now-playing titles, home mode serves what the major
// streaming services carry. It also resolves per-movie trailers and
// streaming availability for the session view. Responses are cached in
// Redis; the cache is an optimization and every cache failure falls
// through to the provider.
type CatalogService struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Cache      *redis.Client
	CacheTTL   time.Duration
}

type tmdbMovie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
}

type tmdbPage struct {
	Results []tmdbMovie `json:"results"`
}

type tmdbVideo struct {
	Key      string `json:"key"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

type tmdbVideoPage struct {
	Results []tmdbVideo `json:"results"`
}

type tmdbWatchProviders struct {
	Results map[string]struct {
		Flatrate []struct {
			ProviderName string `json:"provider_name"`
		} `json:"flatrate"`
	} `json:"results"`
}

// GetMovies returns the catalog for a session mode.
func (cs *CatalogService) GetMovies(ctx context.Context, mode string) ([]models.Movie, error) {
	if _, err := models.ParseMode(mode); err != nil {
		return nil, fmt.Errorf("%w: mode must be %q or %q", ErrInvalidArgument, models.ModeCinema, models.ModeHome)
	}

	cacheKey := "catalog:" + mode
	var movies []models.Movie
	if cs.cacheRead(ctx, cacheKey, &movies) {
		return movies, nil
	}

	requestURL, err := cs.buildURL(mode)
	if err != nil {
		return nil, err
	}

	var page tmdbPage
	if err := cs.getJSON(ctx, requestURL, &page); err != nil {
		return nil, err
	}

	movies = make([]models.Movie, 0, len(page.Results))
	for _, m := range page.Results {
		movies = append(movies, toMovie(m))
	}

	cs.cacheWrite(ctx, cacheKey, movies)
	return movies, nil
}

// GetTrailer returns the YouTube watch URL of the movie's trailer,
// trying Dutch-localized videos before English ones. ErrNotFound when
// the movie has no YouTube trailer in either language.
func (cs *CatalogService) GetTrailer(ctx context.Context, movieID string) (string, error) {
	if movieID == "" {
		return "", fmt.Errorf("%w: movie is required", ErrInvalidArgument)
	}

	cacheKey := "trailer:" + movieID
	var trailerURL string
	if cs.cacheRead(ctx, cacheKey, &trailerURL) {
		return trailerURL, nil
	}

	for _, lang := range trailerLanguages {
		params := url.Values{}
		params.Set("api_key", cs.APIKey)
		params.Set("language", lang)

		var page tmdbVideoPage
		requestURL := cs.baseURL() + "/movie/" + url.PathEscape(movieID) + "/videos?" + params.Encode()
		if err := cs.getJSON(ctx, requestURL, &page); err != nil {
			return "", err
		}
		if key := pickTrailer(page.Results); key != "" {
			trailerURL = youtubeWatchBaseURL + key
			cs.cacheWrite(ctx, cacheKey, trailerURL)
			return trailerURL, nil
		}
	}
	return "", fmt.Errorf("%w: no trailer for movie %s", ErrNotFound, movieID)
}

// GetStreams returns the names of the flatrate streaming services
// carrying the movie in the Dutch market. An empty list means the
// movie is not streamable there.
func (cs *CatalogService) GetStreams(ctx context.Context, movieID string) ([]string, error) {
	if movieID == "" {
		return nil, fmt.Errorf("%w: movie is required", ErrInvalidArgument)
	}

	cacheKey := "streams:" + movieID
	var providers []string
	if cs.cacheRead(ctx, cacheKey, &providers) {
		return providers, nil
	}

	params := url.Values{}
	params.Set("api_key", cs.APIKey)

	var page tmdbWatchProviders
	requestURL := cs.baseURL() + "/movie/" + url.PathEscape(movieID) + "/watch/providers?" + params.Encode()
	if err := cs.getJSON(ctx, requestURL, &page); err != nil {
		return nil, err
	}

	region := page.Results[catalogRegion]
	providers = make([]string, 0, len(region.Flatrate))
	for _, p := range region.Flatrate {
		providers = append(providers, p.ProviderName)
	}

	cs.cacheWrite(ctx, cacheKey, providers)
	return providers, nil
}

// pickTrailer prefers an official YouTube trailer, falling back to the
// first unofficial one.
func pickTrailer(videos []tmdbVideo) string {
	var fallback string
	for _, v := range videos {
		if v.Site != "YouTube" || v.Type != "Trailer" {
			continue
		}
		if v.Official {
			return v.Key
		}
		if fallback == "" {
			fallback = v.Key
		}
	}
	return fallback
}

func (cs *CatalogService) baseURL() string {
	if cs.BaseURL != "" {
		return cs.BaseURL
	}
	return defaultTMDBBaseURL
}

func (cs *CatalogService) buildURL(mode string) (string, error) {
	params := url.Values{}
	params.Set("api_key", cs.APIKey)
	params.Set("language", "en-US")
	params.Set("page", "1")

	switch mode {
	case models.ModeCinema:
		params.Set("region", catalogRegion)
		return cs.baseURL() + "/movie/now_playing?" + params.Encode(), nil
	case models.ModeHome:
		params.Set("watch_region", catalogRegion)
		params.Set("with_watch_providers", providerNetflix+"|"+providerDisneyPlus+"|"+providerAmazonPrime)
		params.Set("with_watch_monetization_types", "flatrate")
		params.Set("sort_by", "popularity.desc")
		return cs.baseURL() + "/discover/movie?" + params.Encode(), nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidArgument, mode)
}

func (cs *CatalogService) getJSON(ctx context.Context, requestURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}

	client := cs.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach catalog provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog provider returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}
	return nil
}

func toMovie(m tmdbMovie) models.Movie {
	movie := models.Movie{
		ID:          strconv.FormatInt(m.ID, 10),
		Title:       m.Title,
		Description: m.Overview,
		Rating:      m.VoteAverage,
	}
	if movie.Description == "" {
		movie.Description = "No description available."
	}
	if len(m.ReleaseDate) >= 4 {
		if year, err := strconv.Atoi(m.ReleaseDate[:4]); err == nil {
			movie.Year = year
		}
	}
	if m.PosterPath != "" {
		movie.PosterURL = tmdbImageBaseURL + m.PosterPath
	}
	return movie
}

// cacheRead loads a cached JSON value into out, reporting whether the
// read hit. Misses, transport errors and corrupt entries all fall
// through to the provider.
func (cs *CatalogService) cacheRead(ctx context.Context, key string, out interface{}) bool {
	if cs.Cache == nil {
		return false
	}
	payload, err := cs.Cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Catalog cache read failed: %v", err)
		}
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		log.Printf("Catalog cache entry corrupt, ignoring: %v", err)
		return false
	}
	return true
}

func (cs *CatalogService) cacheWrite(ctx context.Context, key string, value interface{}) {
	if cs.Cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	ttl := cs.CacheTTL
	if ttl == 0 {
		ttl = defaultCatalogCacheTTL
	}
	if err := cs.Cache.Set(ctx, key, payload, ttl).Err(); err != nil {
		log.Printf("Catalog cache write failed: %v", err)
	}
}
