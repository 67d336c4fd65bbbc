package handler

import "github.com/ll861181031/shixi-guanli-xitong/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Position     *PositionHandler
	Application  *ApplicationHandler
	Checkin      *CheckinHandler
	WeeklyReport *WeeklyReportHandler
	Message      *MessageHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User, svc.Credit),
		Position:     NewPositionHandler(svc.Position),
		Application:  NewApplicationHandler(svc.Application),
		Checkin:      NewCheckinHandler(svc.Checkin),
		WeeklyReport: NewWeeklyReportHandler(svc.WeeklyReport),
		Message:      NewMessageHandler(svc.Message),
	}
}
