package database

import (
	"time"
)

// Subscription plans
const (
	PlanBasic    = "basic"
	PlanStandard = "standard"
	PlanPremium  = "premium"
)

// Subscription statuses
const (
	SubscriptionActive    = "active"
	SubscriptionPending   = "pending"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"
)

// Activity types
const (
	ActivityLogin         = "login"
	ActivityMovieView     = "movie_view"
	ActivityProfileUpdate = "profile_update"
)

// User represents an account in the system
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Genre categorizes movies
type Genre struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Movie represents a streamable catalog entry
type Movie struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"not null;index" json:"title"`
	Description   string     `json:"description"`
	ReleaseDate   *time.Time `json:"release_date,omitempty"`
	Language      string     `gorm:"index" json:"language"`
	Director      string     `json:"director,omitempty"`
	Cast          string     `json:"cast,omitempty"`
	Duration      int        `json:"duration,omitempty"` // minutes
	Certification string     `json:"certification,omitempty"`
	TrailerURL    string     `json:"trailer_url,omitempty"`
	ThumbnailPath string     `json:"thumbnail_path,omitempty"`
	VideoPath     string     `gorm:"not null" json:"-"`
	IsFeatured    bool       `gorm:"index" json:"is_featured"`
	IsTrending    bool       `gorm:"index" json:"is_trending"`
	ViewCount     int64      `gorm:"default:0" json:"view_count"`
	Genres        []Genre    `gorm:"many2many:movie_genres;" json:"genres,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Subscription grants a user streaming access until EndDate
type Subscription struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
	Plan      string     `gorm:"not null" json:"plan"`
	Status    string     `gorm:"not null;default:pending" json:"status"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsActive reports whether the subscription currently grants access.
// The boundary is exclusive: access ends the instant EndDate is reached.
func (s *Subscription) IsActive(now time.Time) bool {
	if s.Status != SubscriptionActive {
		return false
	}
	if s.EndDate == nil {
		return false
	}
	return now.Before(*s.EndDate)
}

// Watchlist marks a movie a user wants to watch
type Watchlist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_watchlist_user_movie" json:"user_id"`
	MovieID   uint      `gorm:"not null;uniqueIndex:idx_watchlist_user_movie" json:"movie_id"`
	Movie     Movie     `gorm:"foreignKey:MovieID" json:"movie,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MovieRating is a user's rating and optional review of a movie
type MovieRating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_rating_user_movie" json:"user_id"`
	MovieID   uint      `gorm:"not null;uniqueIndex:idx_rating_user_movie" json:"movie_id"`
	Rating    float64   `gorm:"not null" json:"rating"` // 1-10
	Review    string    `json:"review,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserActivity records a user action for the activity feed
type UserActivity struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EventID      string    `gorm:"uniqueIndex;not null" json:"event_id"` // uuid
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	ActivityType string    `gorm:"not null;index" json:"activity_type"`
	Description  string    `json:"description"`
	MovieID      *uint     `gorm:"index" json:"movie_id,omitempty"`
	IPAddress    string    `json:"ip_address,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
