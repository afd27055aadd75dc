package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelmate_server/models"
)

func newTMDBStub(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		page := tmdbPage{Results: []tmdbMovie{
			{
				ID:          603,
				Title:       "The Matrix",
				ReleaseDate: "1999-03-31",
				Overview:    "A hacker learns the truth.",
				PosterPath:  "/matrix.jpg",
				VoteAverage: 8.2,
			},
			{
				ID:          680,
				Title:       "Pulp Fiction",
				ReleaseDate: "",
				Overview:    "",
				VoteAverage: 8.5,
			},
		}}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(page)
	}))
	t.Cleanup(server.Close)
	return server, &paths
}

func TestGetMovies_CinemaMapsNowPlaying(t *testing.T) {
	server, paths := newTMDBStub(t)
	svc := &CatalogService{APIKey: "test-key", BaseURL: server.URL}

	movies, err := svc.GetMovies(context.Background(), models.ModeCinema)
	require.NoError(t, err)
	require.Equal(t, []string{"/movie/now_playing"}, *paths)
	require.Len(t, movies, 2)

	assert.Equal(t, models.Movie{
		ID:          "603",
		Title:       "The Matrix",
		Year:        1999,
		Description: "A hacker learns the truth.",
		PosterURL:   tmdbImageBaseURL + "/matrix.jpg",
		Rating:      8.2,
	}, movies[0])

	// Missing fields fall back gracefully.
	assert.Equal(t, "No description available.", movies[1].Description)
	assert.Zero(t, movies[1].Year)
	assert.Empty(t, movies[1].PosterURL)
}

func TestGetMovies_HomeMapsDiscover(t *testing.T) {
	server, paths := newTMDBStub(t)
	svc := &CatalogService{APIKey: "test-key", BaseURL: server.URL}

	movies, err := svc.GetMovies(context.Background(), models.ModeHome)
	require.NoError(t, err)
	assert.Equal(t, []string{"/discover/movie"}, *paths)
	assert.Len(t, movies, 2)
}

func TestGetMovies_UnknownModeRejected(t *testing.T) {
	svc := &CatalogService{APIKey: "test-key"}

	_, err := svc.GetMovies(context.Background(), "theater")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGetMovies_ProviderErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)
	svc := &CatalogService{APIKey: "test-key", BaseURL: server.URL}

	_, err := svc.GetMovies(context.Background(), models.ModeCinema)
	assert.Error(t, err)
}

func TestGetTrailer_PrefersOfficialAndFallsBackToEnglish(t *testing.T) {
	var langs []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/movie/603/videos", r.URL.Path)
		lang := r.URL.Query().Get("language")
		langs = append(langs, lang)

		// No Dutch-localized videos; English carries a clip, a fan
		// trailer and the official trailer.
		page := tmdbVideoPage{}
		if lang == "en-US" {
			page.Results = []tmdbVideo{
				{Key: "clip1", Site: "YouTube", Type: "Clip", Official: true},
				{Key: "fan1", Site: "YouTube", Type: "Trailer"},
				{Key: "off1", Site: "YouTube", Type: "Trailer", Official: true},
			}
		}
		json.NewEncoder(w).Encode(page)
	}))
	t.Cleanup(server.Close)
	svc := &CatalogService{APIKey: "test-key", BaseURL: server.URL}

	trailerURL, err := svc.GetTrailer(context.Background(), "603")
	require.NoError(t, err)
	assert.Equal(t, youtubeWatchBaseURL+"off1", trailerURL)
	assert.Equal(t, []string{"nl-NL", "en-US"}, langs)
}

func TestGetTrailer_NoneAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(tmdbVideoPage{})
	}))
	t.Cleanup(server.Close)
	svc := &CatalogService{APIKey: "test-key", BaseURL: server.URL}

	_, err := svc.GetTrailer(context.Background(), "603")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetStreams_ReturnsDutchFlatrateProviders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/movie/603/watch/providers", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":{"NL":{"flatrate":[{"provider_name":"Netflix"},{"provider_name":"Amazon Prime Video"}]},"US":{"flatrate":[{"provider_name":"Hulu"}]}}}`))
	}))
	t.Cleanup(server.Close)
	svc := &CatalogService{APIKey: "test-key", BaseURL: server.URL}

	providers, err := svc.GetStreams(context.Background(), "603")
	require.NoError(t, err)
	assert.Equal(t, []string{"Netflix", "Amazon Prime Video"}, providers)
}

func TestGetStreams_NotStreamableIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":{}}`))
	}))
	t.Cleanup(server.Close)
	svc := &CatalogService{APIKey: "test-key", BaseURL: server.URL}

	providers, err := svc.GetStreams(context.Background(), "603")
	require.NoError(t, err)
	assert.Empty(t, providers)
}

func newCachedCatalogService(t *testing.T) (*CatalogService, *miniredis.Miniredis, *[]string) {
	t.Helper()
	server, paths := newTMDBStub(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return &CatalogService{APIKey: "test-key", BaseURL: server.URL, Cache: client}, mr, paths
}

func TestGetMovies_CacheHitSkipsProvider(t *testing.T) {
	svc, _, paths := newCachedCatalogService(t)
	ctx := context.Background()

	first, err := svc.GetMovies(ctx, models.ModeCinema)
	require.NoError(t, err)

	second, err := svc.GetMovies(ctx, models.ModeCinema)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, *paths, 1)
}

func TestGetMovies_CorruptCacheEntryFallsThrough(t *testing.T) {
	svc, mr, paths := newCachedCatalogService(t)
	require.NoError(t, mr.Set("catalog:cinema", "{not json"))

	movies, err := svc.GetMovies(context.Background(), models.ModeCinema)
	require.NoError(t, err)
	assert.Len(t, movies, 2)
	assert.Len(t, *paths, 1)
}

func TestGetMovies_UnreachableCacheNeverFatal(t *testing.T) {
	server, paths := newTMDBStub(t)
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { client.Close() })
	svc := &CatalogService{APIKey: "test-key", BaseURL: server.URL, Cache: client}

	movies, err := svc.GetMovies(context.Background(), models.ModeCinema)
	require.NoError(t, err)
	assert.Len(t, movies, 2)
	assert.Len(t, *paths, 1)
}

func TestGetTrailer_CachedPerMovie(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		page := tmdbVideoPage{Results: []tmdbVideo{
			{Key: "off1", Site: "YouTube", Type: "Trailer", Official: true},
		}}
		json.NewEncoder(w).Encode(page)
	}))
	t.Cleanup(server.Close)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	svc := &CatalogService{APIKey: "test-key", BaseURL: server.URL, Cache: client}
	ctx := context.Background()

	first, err := svc.GetTrailer(ctx, "603")
	require.NoError(t, err)
	second, err := svc.GetTrailer(ctx, "603")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}
