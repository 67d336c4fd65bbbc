package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ll861181031/shixi-guanli-xitong/internal/dto"
	"github.com/ll861181031/shixi-guanli-xitong/internal/repository"
)

// ErrMessageNotFound 消息不存在或不属于当前用户
var ErrMessageNotFound = errors.New("消息不存在")

// MessageService 站内消息业务接口
type MessageService interface {
	// 当前用户的消息列表
	List(ctx context.Context, req *dto.MessageListRequest, userID string) ([]dto.MessageResponse, int64, error)
	// 未读消息数
	UnreadCount(ctx context.Context, userID string) (*dto.UnreadCountResponse, error)
	// 标记单条已读
	MarkRead(ctx context.Context, messageID, userID string) error
	// 全部标记已读
	MarkAllRead(ctx context.Context, userID string) error
}

type messageService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMessageService 创建 MessageService 实例
func NewMessageService(repo *repository.Repository, logger *zap.Logger) MessageService {
	return &messageService{repo: repo, logger: logger}
}

func (s *messageService) List(ctx context.Context, req *dto.MessageListRequest, userID string) ([]dto.MessageResponse, int64, error) {
	messages, total, err := s.repo.Message.ListByUser(ctx, userID, req.OnlyUnread, (req.Page-1)*req.PageSize, req.PageSize)
	if err != nil {
		s.logger.Error("查询消息列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, 0, err
	}

	responses := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, dto.NewMessageResponse(&messages[i]))
	}
	return responses, total, nil
}

func (s *messageService) UnreadCount(ctx context.Context, userID string) (*dto.UnreadCountResponse, error) {
	count, err := s.repo.Message.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.UnreadCountResponse{Unread: count}, nil
}

func (s *messageService) MarkRead(ctx context.Context, messageID, userID string) error {
	if err := s.repo.Message.MarkRead(ctx, messageID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	return nil
}

func (s *messageService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.Message.MarkAllRead(ctx, userID)
}
