package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ll861181031/shixi-guanli-xitong/internal/model"
)

// MessageRepository 消息通知数据访问接口
type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	ListByUser(ctx context.Context, userID string, onlyUnread bool, offset, limit int) ([]model.Message, int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, messageID, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type messageRepo struct {
	db *gorm.DB
}

// NewMessageRepo 创建 MessageRepository 实例
func NewMessageRepo(db *gorm.DB) MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) Create(ctx context.Context, message *model.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepo) ListByUser(ctx context.Context, userID string, onlyUnread bool, offset, limit int) ([]model.Message, int64, error) {
	var messages []model.Message
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("user_id = ?", userID)
	if onlyUnread {
		db = db.Where("is_read = ?", false)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, total, err
}

func (r *messageRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *messageRepo) MarkRead(ctx context.Context, messageID, userID string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("message_id = ? AND user_id = ?", messageID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *messageRepo) MarkAllRead(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
