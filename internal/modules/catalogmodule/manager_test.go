package catalogmodule

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ottworks/streamserve/internal/database"
)

func newTestManager(t *testing.T) (*Manager, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&database.Genre{}, &database.Movie{}, &database.Watchlist{}, &database.MovieRating{},
	))
	return NewManager(db), db
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()

	action := database.Genre{Name: "Action"}
	drama := database.Genre{Name: "Drama"}
	require.NoError(t, db.Create(&action).Error)
	require.NoError(t, db.Create(&drama).Error)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	movies := []database.Movie{
		{
			Title: "Steel Horizon", Description: "A heist goes sideways",
			Language: "english", Director: "R. Vale", Cast: "N. Rao, T. Mack",
			VideoPath: "/media/steel.mp4", IsFeatured: true, IsTrending: true,
			ViewCount: 120, Genres: []database.Genre{action},
			CreatedAt: base.Add(2 * time.Hour),
		},
		{
			Title: "Quiet Rivers", Description: "Two families, one secret",
			Language: "hindi", Director: "S. Iyer", Cast: "A. Menon",
			VideoPath: "/media/rivers.mp4", IsFeatured: true,
			ViewCount: 40, Genres: []database.Genre{drama},
			CreatedAt: base.Add(time.Hour),
		},
		{
			Title: "Last Transit", Description: "A night bus that never stops",
			Language: "english", Director: "R. Vale", Cast: "J. Osei",
			VideoPath: "/media/transit.mp4", IsTrending: true,
			ViewCount: 300, Genres: []database.Genre{action, drama},
			CreatedAt: base,
		},
	}
	for i := range movies {
		require.NoError(t, db.Create(&movies[i]).Error)
	}
}

func TestGetMovie(t *testing.T) {
	m, db := newTestManager(t)
	seedCatalog(t, db)

	movie, err := m.GetMovie(1)
	require.NoError(t, err)
	assert.Equal(t, "Steel Horizon", movie.Title)
	require.Len(t, movie.Genres, 1)
	assert.Equal(t, "Action", movie.Genres[0].Name)

	_, err = m.GetMovie(999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListMoviesFilters(t *testing.T) {
	m, db := newTestManager(t)
	seedCatalog(t, db)

	t.Run("no filter returns everything newest first", func(t *testing.T) {
		movies, total, err := m.ListMovies(MovieFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, movies, 3)
		assert.Equal(t, "Steel Horizon", movies[0].Title)
	})

	t.Run("search matches title, director and cast", func(t *testing.T) {
		_, total, err := m.ListMovies(MovieFilter{Search: "Vale"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)

		_, total, err = m.ListMovies(MovieFilter{Search: "Osei"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("language filter", func(t *testing.T) {
		movies, total, err := m.ListMovies(MovieFilter{Language: "hindi"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "Quiet Rivers", movies[0].Title)
	})

	t.Run("genre filter", func(t *testing.T) {
		_, total, err := m.ListMovies(MovieFilter{Genre: "Drama"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("featured and trending", func(t *testing.T) {
		movies, _, err := m.ListMovies(MovieFilter{Featured: true, Trending: true})
		require.NoError(t, err)
		require.Len(t, movies, 1)
		assert.Equal(t, "Steel Horizon", movies[0].Title)
	})

	t.Run("pagination", func(t *testing.T) {
		movies, total, err := m.ListMovies(MovieFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total, "total is unpaginated")
		require.Len(t, movies, 1)
		assert.Equal(t, "Last Transit", movies[0].Title)
	})
}

func TestListGenres(t *testing.T) {
	m, db := newTestManager(t)
	seedCatalog(t, db)

	genres, err := m.ListGenres()
	require.NoError(t, err)
	require.Len(t, genres, 2)
	assert.Equal(t, "Action", genres[0].Name)
	assert.Equal(t, "Drama", genres[1].Name)
}

func TestStatistics(t *testing.T) {
	m, db := newTestManager(t)
	seedCatalog(t, db)

	require.NoError(t, db.Create(&database.MovieRating{UserID: 1, MovieID: 1, Rating: 8}).Error)
	require.NoError(t, db.Create(&database.MovieRating{UserID: 2, MovieID: 1, Rating: 6}).Error)

	stats, err := m.Statistics()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalMovies)
	assert.Equal(t, int64(2), stats.FeaturedMovies)
	assert.Equal(t, int64(2), stats.TrendingMovies)
	assert.Equal(t, int64(460), stats.TotalViews)
	assert.InDelta(t, 7.0, stats.AverageRating, 0.001)
	assert.Equal(t, int64(2), stats.MoviesByLanguage["english"])
	assert.Equal(t, int64(1), stats.MoviesByLanguage["hindi"])
}

func TestStatisticsEmptyCatalog(t *testing.T) {
	m, _ := newTestManager(t)

	stats, err := m.Statistics()
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalMovies)
	assert.Equal(t, int64(0), stats.TotalViews)
	assert.Equal(t, 0.0, stats.AverageRating)
}

func TestRateMovie(t *testing.T) {
	m, db := newTestManager(t)
	seedCatalog(t, db)

	rating, err := m.RateMovie(1, 1, 7, "solid")
	require.NoError(t, err)
	assert.Equal(t, 7.0, rating.Rating)

	// Re-rating updates in place rather than stacking rows.
	rating, err = m.RateMovie(1, 1, 9, "grew on me")
	require.NoError(t, err)
	assert.Equal(t, 9.0, rating.Rating)

	var count int64
	db.Model(&database.MovieRating{}).Count(&count)
	assert.Equal(t, int64(1), count)

	_, err = m.RateMovie(1, 1, 11, "")
	assert.Error(t, err)

	_, err = m.RateMovie(1, 999, 5, "")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestWatchlistLifecycle(t *testing.T) {
	m, db := newTestManager(t)
	seedCatalog(t, db)

	created, err := m.AddToWatchlist(1, 2)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = m.AddToWatchlist(1, 2)
	require.NoError(t, err)
	assert.False(t, created, "duplicate add is a no-op")

	entries, err := m.GetWatchlist(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Quiet Rivers", entries[0].Movie.Title)

	require.NoError(t, m.RemoveFromWatchlist(1, 2))
	assert.ErrorIs(t, m.RemoveFromWatchlist(1, 2), gorm.ErrRecordNotFound)

	_, err = m.AddToWatchlist(1, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
