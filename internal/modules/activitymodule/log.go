package activitymodule

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ottworks/streamserve/internal/database"
)

// Log appends activity records and maintains view counters
type Log struct {
	db *gorm.DB
}

// NewLog creates an activity log
func NewLog(db *gorm.DB) *Log {
	return &Log{db: db}
}

// Append stores one activity record, filling in the event id and timestamp
// when absent
func (l *Log) Append(rec database.UserActivity) error {
	if rec.EventID == "" {
		rec.EventID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return l.db.Create(&rec).Error
}

// IncrementViewCount bumps a movie's view counter with a single atomic SQL
// expression, never read-modify-written in application code.
func (l *Log) IncrementViewCount(movieID uint) error {
	return l.db.Model(&database.Movie{}).
		Where("id = ?", movieID).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

// Recent returns a user's latest activity records, newest first
func (l *Log) Recent(userID uint, limit int) ([]database.UserActivity, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var records []database.UserActivity
	err := l.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
