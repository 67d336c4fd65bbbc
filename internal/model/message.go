package model

import "time"

// 消息类型
const (
	MessageSystem      = "system"
	MessageApplication = "application"
	MessageCheckin     = "checkin"
	MessageReport      = "report"
)

// Message 消息通知表 — 对应 messages
type Message struct {
	MessageID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"message_id"`
	UserID    string    `gorm:"type:uuid;not null"                             json:"user_id"`
	Title     string    `gorm:"type:varchar(200);not null"                     json:"title"`
	Content   string    `gorm:"type:text;not null"                             json:"content"`
	Type      string    `gorm:"type:varchar(20);not null;default:'system'"     json:"type"` // system | application | checkin | report
	IsRead    bool      `gorm:"not null;default:false"                         json:"is_read"`
	RelatedID *string   `gorm:"type:uuid"                                      json:"related_id,omitempty"` // 关联实体ID（申请/签到/周报）
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (Message) TableName() string { return "messages" }
