package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Swethakotuluru11/user-dashboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps sessions in the main database. Expired rows are treated as
// absent on read and overwritten on write; there is no background sweeper.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, sid string) (string, error) {
	var sess models.Session
	err := s.db.WithContext(ctx).First(&sess, "id = ?", sid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}
	if time.Now().After(sess.ExpiresAt) {
		// lazy expiry
		_ = s.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", sid).Error
		return "", ErrNotFound
	}
	return sess.Token, nil
}

func (s *GormStore) Set(ctx context.Context, sid, token string, ttl time.Duration) error {
	sess := models.Session{
		ID:        sid,
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "expires_at"}),
		}).
		Create(&sess).Error
	if err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (s *GormStore) Destroy(ctx context.Context, sid string) error {
	if err := s.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", sid).Error; err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
