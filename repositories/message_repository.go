package repositories

import (
	"context"

	"laufmanager.de/configs/configslog"
	"laufmanager.de/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IMessageRepository appends broadcast audit records and lists them for the dashboard.
type IMessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	ListRecent(ctx context.Context, limit int) ([]models.Message, error)
}

// MessageRepository stores broadcast history.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository returns a MessageRepository on db.
func NewMessageRepository(db *gorm.DB) IMessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFrom(ctx, r.db)
}

func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	if err := r.getDB(ctx).Create(message).Error; err != nil {
		configslog.Log.Error("MessageRepository.Create failed", zap.String("scope", string(message.Scope)), zap.Error(err))
		return err
	}
	return nil
}

func (r *MessageRepository) ListRecent(ctx context.Context, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	var messages []models.Message
	if err := r.getDB(ctx).Order("created_at DESC").Order("id DESC").Limit(limit).Find(&messages).Error; err != nil {
		configslog.Log.Error("MessageRepository.ListRecent failed", zap.Error(err))
		return nil, err
	}
	return messages, nil
}

var _ IMessageRepository = (*MessageRepository)(nil)
