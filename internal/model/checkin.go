package model

import "time"

// 签到状态
const (
	CheckinNormal   = "normal"
	CheckinLate     = "late"
	CheckinAbnormal = "abnormal"
)

// Checkin 签到记录表 — 对应 checkins
// 不变量：每（学生, 岗位, 日期）至多一条；记录创建后不再修改
type Checkin struct {
	CheckinID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"checkin_id"`
	StudentID      string    `gorm:"type:uuid;not null"                             json:"student_id"`
	PositionID     string    `gorm:"type:uuid;not null"                             json:"position_id"`
	CheckinDate    time.Time `gorm:"type:date;not null"                             json:"checkin_date"`
	CheckinTime    time.Time `gorm:"not null"                                       json:"checkin_time"`
	Latitude       float64   `gorm:"not null"                                       json:"latitude"`
	Longitude      float64   `gorm:"not null"                                       json:"longitude"`
	Distance       float64   `gorm:"not null"                                       json:"distance"` // 距岗位坐标的大圆距离（米）
	Status         string    `gorm:"type:varchar(20);not null;default:'normal'"     json:"status"`   // normal | late | abnormal
	AbnormalReason *string   `gorm:"type:text"                                      json:"abnormal_reason,omitempty"`
	Remark         *string   `gorm:"type:varchar(500)"                              json:"remark,omitempty"`
	BaseModel

	// 关联
	Student  *User     `gorm:"foreignKey:StudentID;references:UserID"      json:"student,omitempty"`
	Position *Position `gorm:"foreignKey:PositionID;references:PositionID" json:"position,omitempty"`
}

// TableName 指定表名
func (Checkin) TableName() string { return "checkins" }
