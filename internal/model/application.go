package model

import "time"

// 申请状态：pending → approved | rejected，终态不可再变更
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// Application 实习申请表 — 对应 applications
// 不变量：同一学生对同一岗位至多一条申请；任一时刻至多一条已批准申请
type Application struct {
	ApplicationID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"application_id"`
	StudentID     string     `gorm:"type:uuid;not null"                             json:"student_id"`
	PositionID    string     `gorm:"type:uuid;not null"                             json:"position_id"`
	Resume        string     `gorm:"type:text"                                      json:"resume"`
	Motivation    string     `gorm:"type:text"                                      json:"motivation"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	ReviewerID    *string    `gorm:"type:uuid"                                      json:"reviewer_id,omitempty"`
	ReviewComment *string    `gorm:"type:text"                                      json:"review_comment,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	BaseModel

	// 关联
	Student  *User     `gorm:"foreignKey:StudentID;references:UserID"       json:"student,omitempty"`
	Position *Position `gorm:"foreignKey:PositionID;references:PositionID"  json:"position,omitempty"`
	Reviewer *User     `gorm:"foreignKey:ReviewerID;references:UserID"      json:"reviewer,omitempty"`
}

// TableName 指定表名
func (Application) TableName() string { return "applications" }
