package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/devspeak/devspeak-api/internal/models"
)

// SessionRepository defines data operations for practice sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *models.PracticeSession) error
	ListByUser(ctx context.Context, userID uint) ([]models.PracticeSession, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository instantiates the repository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.PracticeSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// ListByUser returns every session owned by the user in creation order.
// The ascending sort is what lets the aggregation treat the first row as
// the first practice date.
func (r *sessionRepository) ListByUser(ctx context.Context, userID uint) ([]models.PracticeSession, error) {
	var sessions []models.PracticeSession
	if err := r.db.WithContext(ctx).
		Model(&models.PracticeSession{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}

	return sessions, nil
}
