package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ll861181031/shixi-guanli-xitong/config"
	"github.com/ll861181031/shixi-guanli-xitong/internal/model"
	"github.com/ll861181031/shixi-guanli-xitong/internal/repository"
	"github.com/ll861181031/shixi-guanli-xitong/pkg/jwt"
	"github.com/ll861181031/shixi-guanli-xitong/pkg/redis"
)

// Service 聚合所有业务服务
type Service struct {
	Auth         AuthService
	User         UserService
	Position     PositionService
	Application  ApplicationService
	Checkin      CheckinService
	WeeklyReport WeeklyReportService
	Credit       CreditService
	Message      MessageService
}

// NewService 创建服务聚合实例
func NewService(cfg *config.Config, repo *repository.Repository, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *Service {
	creditSvc := NewCreditService(cfg, repo, logger)
	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:         NewUserService(repo, logger),
		Position:     NewPositionService(repo, logger),
		Application:  NewApplicationService(repo, logger),
		Checkin:      NewCheckinService(cfg, repo, logger),
		WeeklyReport: NewWeeklyReportService(repo, creditSvc, logger),
		Credit:       creditSvc,
		Message:      NewMessageService(repo, logger),
	}
}

// notify 在当前事务内写入一条站内消息
func notify(ctx context.Context, tx *repository.Repository, userID, title, content, msgType, relatedID string) error {
	message := &model.Message{
		UserID:  userID,
		Title:   title,
		Content: content,
		Type:    msgType,
	}
	if relatedID != "" {
		message.RelatedID = &relatedID
	}
	return tx.Message.Create(ctx, message)
}
