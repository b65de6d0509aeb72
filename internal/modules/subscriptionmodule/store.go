package subscriptionmodule

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ottworks/streamserve/internal/database"
)

// Store provides subscription record operations
type Store struct {
	db *gorm.DB
}

// NewStore creates a subscription store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ValidPlan reports whether plan is one of the offered subscription plans
func ValidPlan(plan string) bool {
	switch plan {
	case database.PlanBasic, database.PlanStandard, database.PlanPremium:
		return true
	}
	return false
}

// GetForUser returns the user's subscription, or (nil, nil) when the user
// has never subscribed
func (s *Store) GetForUser(userID uint) (*database.Subscription, error) {
	var sub database.Subscription
	err := s.db.Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// Subscribe creates a pending subscription for the user, or switches the
// plan on an existing one. Activation happens out of band once the checkout
// completes.
func (s *Store) Subscribe(userID uint, plan string) (*database.Subscription, error) {
	if !ValidPlan(plan) {
		return nil, fmt.Errorf("unknown subscription plan: %s", plan)
	}

	existing, err := s.GetForUser(userID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.Plan = plan
		if err := s.db.Save(existing).Error; err != nil {
			return nil, err
		}
		return existing, nil
	}

	sub := database.Subscription{
		UserID:    userID,
		Plan:      plan,
		Status:    database.SubscriptionPending,
		StartDate: time.Now().UTC(),
	}
	if err := s.db.Create(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// Activate marks the user's subscription active until the given time
func (s *Store) Activate(userID uint, until time.Time) error {
	result := s.db.Model(&database.Subscription{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"status":   database.SubscriptionActive,
			"end_date": until,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
