package catalogmodule

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ottworks/streamserve/internal/database"
)

// MovieFilter narrows catalog listings
type MovieFilter struct {
	Search   string
	Language string
	Genre    string
	Featured bool
	Trending bool
	Limit    int
	Offset   int
}

// CatalogStats summarizes the catalog
type CatalogStats struct {
	TotalMovies      int64            `json:"total_movies"`
	FeaturedMovies   int64            `json:"featured_movies"`
	TrendingMovies   int64            `json:"trending_movies"`
	TotalViews       int64            `json:"total_views"`
	AverageRating    float64          `json:"average_rating"`
	MoviesByLanguage map[string]int64 `json:"movies_by_language"`
}

// Manager provides catalog operations over the database
type Manager struct {
	db *gorm.DB
}

// NewManager creates a catalog manager
func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// GetMovie returns a single movie with its genres preloaded
func (m *Manager) GetMovie(id uint) (*database.Movie, error) {
	var movie database.Movie
	if err := m.db.Preload("Genres").First(&movie, id).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

// ListMovies returns movies matching the filter plus the unpaginated total
func (m *Manager) ListMovies(filter MovieFilter) ([]database.Movie, int64, error) {
	query := m.db.Model(&database.Movie{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			`title LIKE ? OR description LIKE ? OR director LIKE ? OR "cast" LIKE ?`,
			like, like, like, like,
		)
	}
	if filter.Language != "" {
		query = query.Where("language = ?", filter.Language)
	}
	if filter.Genre != "" {
		query = query.
			Joins("JOIN movie_genres ON movie_genres.movie_id = movies.id").
			Joins("JOIN genres ON genres.id = movie_genres.genre_id").
			Where("genres.name = ?", filter.Genre)
	}
	if filter.Featured {
		query = query.Where("is_featured = ?", true)
	}
	if filter.Trending {
		query = query.Where("is_trending = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 12
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var movies []database.Movie
	err := query.Preload("Genres").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&movies).Error
	if err != nil {
		return nil, 0, err
	}

	return movies, total, nil
}

// ListGenres returns all genres
func (m *Manager) ListGenres() ([]database.Genre, error) {
	var genres []database.Genre
	if err := m.db.Order("name").Find(&genres).Error; err != nil {
		return nil, err
	}
	return genres, nil
}

// Statistics aggregates catalog-wide numbers
func (m *Manager) Statistics() (*CatalogStats, error) {
	stats := &CatalogStats{MoviesByLanguage: make(map[string]int64)}

	if err := m.db.Model(&database.Movie{}).Count(&stats.TotalMovies).Error; err != nil {
		return nil, err
	}
	m.db.Model(&database.Movie{}).Where("is_featured = ?", true).Count(&stats.FeaturedMovies)
	m.db.Model(&database.Movie{}).Where("is_trending = ?", true).Count(&stats.TrendingMovies)

	var totalViews *int64
	m.db.Model(&database.Movie{}).Select("SUM(view_count)").Scan(&totalViews)
	if totalViews != nil {
		stats.TotalViews = *totalViews
	}

	var avgRating *float64
	m.db.Model(&database.MovieRating{}).Select("AVG(rating)").Scan(&avgRating)
	if avgRating != nil {
		stats.AverageRating = *avgRating
	}

	type langCount struct {
		Language string
		Count    int64
	}
	var counts []langCount
	m.db.Model(&database.Movie{}).
		Select("language, COUNT(id) AS count").
		Group("language").
		Scan(&counts)
	for _, lc := range counts {
		stats.MoviesByLanguage[lc.Language] = lc.Count
	}

	return stats, nil
}

// RateMovie records or updates a user's rating for a movie
func (m *Manager) RateMovie(userID, movieID uint, rating float64, review string) (*database.MovieRating, error) {
	if rating < 1 || rating > 10 {
		return nil, fmt.Errorf("rating must be between 1 and 10")
	}

	if _, err := m.GetMovie(movieID); err != nil {
		return nil, err
	}

	var existing database.MovieRating
	err := m.db.Where("user_id = ? AND movie_id = ?", userID, movieID).First(&existing).Error
	if err == nil {
		existing.Rating = rating
		existing.Review = review
		if err := m.db.Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := database.MovieRating{
		UserID:  userID,
		MovieID: movieID,
		Rating:  rating,
		Review:  review,
	}
	if err := m.db.Create(&created).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

// AddToWatchlist adds a movie to a user's watchlist. Returns false when the
// movie was already listed.
func (m *Manager) AddToWatchlist(userID, movieID uint) (bool, error) {
	if _, err := m.GetMovie(movieID); err != nil {
		return false, err
	}

	var existing database.Watchlist
	err := m.db.Where("user_id = ? AND movie_id = ?", userID, movieID).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	entry := database.Watchlist{UserID: userID, MovieID: movieID}
	if err := m.db.Create(&entry).Error; err != nil {
		return false, err
	}
	return true, nil
}

// RemoveFromWatchlist removes a movie from a user's watchlist. Returns
// gorm.ErrRecordNotFound when it was not listed.
func (m *Manager) RemoveFromWatchlist(userID, movieID uint) error {
	result := m.db.Where("user_id = ? AND movie_id = ?", userID, movieID).Delete(&database.Watchlist{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetWatchlist returns a user's watchlist entries with movies preloaded
func (m *Manager) GetWatchlist(userID uint) ([]database.Watchlist, error) {
	var entries []database.Watchlist
	err := m.db.Preload("Movie").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
