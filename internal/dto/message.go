package dto

import "github.com/ll861181031/shixi-guanli-xitong/internal/model"

// ── 消息模块 DTO ──

// MessageListRequest 消息列表请求
type MessageListRequest struct {
	OnlyUnread bool `form:"only_unread"`
	Page       int  `form:"page,default=1"      binding:"omitempty,min=1"`
	PageSize   int  `form:"per_page,default=10" binding:"omitempty,min=1,max=100"`
}

// MessageResponse 消息响应
type MessageResponse struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Type      string  `json:"type"`
	IsRead    bool    `json:"is_read"`
	RelatedID *string `json:"related_id,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// UnreadCountResponse 未读消息数响应
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// NewMessageResponse 由模型构造消息响应
func NewMessageResponse(m *model.Message) MessageResponse {
	return MessageResponse{
		ID:        m.MessageID,
		Title:     m.Title,
		Content:   m.Content,
		Type:      m.Type,
		IsRead:    m.IsRead,
		RelatedID: m.RelatedID,
		CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
