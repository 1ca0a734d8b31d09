package repositories

import (
	"context"

	"coursemate_backend/internal/models"

	"gorm.io/gorm"
)

const defaultTicketLimit = 50

type TicketRepositoryImpl struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepositoryImpl {
	return &TicketRepositoryImpl{db: db}
}

func (r *TicketRepositoryImpl) CreateTicket(ctx context.Context, ticket *models.PushTicket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

// FindTicketsByUser - последние записи журнала пользователя, новые первыми
func (r *TicketRepositoryImpl) FindTicketsByUser(ctx context.Context, userID string, limit int) ([]*models.PushTicket, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultTicketLimit
	}

	tickets := make([]*models.PushTicket, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}
