package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ll861181031/shixi-guanli-xitong/internal/dto"
	"github.com/ll861181031/shixi-guanli-xitong/internal/service"
	"github.com/ll861181031/shixi-guanli-xitong/pkg/response"
)

// MessageHandler 消息模块 HTTP 处理器
type MessageHandler struct {
	messageSvc service.MessageService
}

// NewMessageHandler 创建 MessageHandler
func NewMessageHandler(messageSvc service.MessageService) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc}
}

// ListMessages 当前用户消息列表
// GET /api/v1/messages
func (h *MessageHandler) ListMessages(c *gin.Context) {
	var req dto.MessageListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	messages, total, err := h.messageSvc.List(c.Request.Context(), &req, userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, messages, total, req.Page, req.PageSize)
}

// GetUnreadCount 未读消息数
// GET /api/v1/messages/unread-count
func (h *MessageHandler) GetUnreadCount(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	count, err := h.messageSvc.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, count)
}

// MarkMessageRead 标记单条消息已读
// PUT /api/v1/messages/:id/read
func (h *MessageHandler) MarkMessageRead(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "消息ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.messageSvc.MarkRead(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, service.ErrMessageNotFound) {
			response.NotFound(c, 17001, "消息不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// MarkAllMessagesRead 全部标记已读
// PUT /api/v1/messages/read-all
func (h *MessageHandler) MarkAllMessagesRead(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.messageSvc.MarkAllRead(c.Request.Context(), userID); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
