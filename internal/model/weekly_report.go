package model

import "time"

// 周报状态
const (
	ReportSubmitted = "submitted"
	ReportReviewed  = "reviewed"
)

// WeeklyReport 周报表 — 对应 weekly_reports
// 不变量：每（学生, 岗位, 周次）至多一份周报；评分范围 [0,100]
type WeeklyReport struct {
	ReportID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"report_id"`
	StudentID  string     `gorm:"type:uuid;not null"                             json:"student_id"`
	PositionID string     `gorm:"type:uuid;not null"                             json:"position_id"`
	WeekNumber int        `gorm:"not null"                                       json:"week_number"`
	Content    string     `gorm:"type:text;not null"                             json:"content"`
	Status     string     `gorm:"type:varchar(20);not null;default:'submitted'"  json:"status"` // submitted | reviewed
	Score      *float64   `json:"score,omitempty"`
	Comment    *string    `gorm:"type:text"                                      json:"comment,omitempty"`
	ReviewerID *string    `gorm:"type:uuid"                                      json:"reviewer_id,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	BaseModel

	// 关联
	Student  *User     `gorm:"foreignKey:StudentID;references:UserID"      json:"student,omitempty"`
	Position *Position `gorm:"foreignKey:PositionID;references:PositionID" json:"position,omitempty"`
	Reviewer *User     `gorm:"foreignKey:ReviewerID;references:UserID"     json:"reviewer,omitempty"`
}

// TableName 指定表名
func (WeeklyReport) TableName() string { return "weekly_reports" }
