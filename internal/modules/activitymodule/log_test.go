package activitymodule

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ottworks/streamserve/internal/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&database.User{}, &database.Movie{}, &database.UserActivity{}))
	return db
}

func TestAppendFillsEventIDAndTimestamp(t *testing.T) {
	db := newTestDB(t)
	log := NewLog(db)

	err := log.Append(database.UserActivity{
		UserID:       1,
		ActivityType: database.ActivityMovieView,
		Description:  "Viewed movie: Test Movie",
	})
	require.NoError(t, err)

	var stored database.UserActivity
	require.NoError(t, db.First(&stored).Error)
	assert.NotEmpty(t, stored.EventID)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestAppendPreservesProvidedEventID(t *testing.T) {
	db := newTestDB(t)
	log := NewLog(db)

	err := log.Append(database.UserActivity{
		UserID:       1,
		EventID:      "fixed-event-id",
		ActivityType: database.ActivityLogin,
	})
	require.NoError(t, err)

	var stored database.UserActivity
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, "fixed-event-id", stored.EventID)
}

func TestRecentOrderAndLimit(t *testing.T) {
	db := newTestDB(t)
	log := NewLog(db)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, log.Append(database.UserActivity{
			UserID:       1,
			ActivityType: database.ActivityMovieView,
			Description:  "view",
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}))
	}
	// Another user's records must not leak in.
	require.NoError(t, log.Append(database.UserActivity{
		UserID:       2,
		ActivityType: database.ActivityLogin,
	}))

	records, err := log.Recent(1, 3)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, rec := range records {
		assert.Equal(t, uint(1), rec.UserID)
	}
	assert.True(t, records[0].CreatedAt.After(records[1].CreatedAt))
	assert.True(t, records[1].CreatedAt.After(records[2].CreatedAt))
}

func TestRecentDefaultsBadLimits(t *testing.T) {
	db := newTestDB(t)
	log := NewLog(db)

	records, err := log.Recent(1, 0)
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = log.Recent(1, 5000)
	require.NoError(t, err)
}

func TestIncrementViewCountIsAtomic(t *testing.T) {
	// Assert the counter bump goes out as a single relative UPDATE, not a
	// read-modify-write.
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectExec(`UPDATE "movies" SET "view_count"=view_count \+ \$1 WHERE id = \$2`).
		WithArgs(1, 42).
		WillReturnResult(sqlmock.NewResult(0, 1))

	log := NewLog(db)
	require.NoError(t, log.IncrementViewCount(42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementViewCountAgainstSQLite(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&database.Movie{Title: "Counter", VideoPath: "/media/c.mp4"}).Error)

	log := NewLog(db)
	require.NoError(t, log.IncrementViewCount(1))
	require.NoError(t, log.IncrementViewCount(1))

	var movie database.Movie
	require.NoError(t, db.First(&movie, 1).Error)
	assert.Equal(t, int64(2), movie.ViewCount)
}
