package model

// 用户角色
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User 用户表 — 对应 users
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string  `gorm:"type:varchar(50);not null;uniqueIndex"          json:"username"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	RealName     string  `gorm:"type:varchar(50);not null"                      json:"real_name"`
	StudentNo    *string `gorm:"type:varchar(20)"                               json:"student_no,omitempty"` // 学号，仅学生角色
	Role         string  `gorm:"type:varchar(20);not null;default:'student'"    json:"role"`                 // student | teacher | admin
	Phone        *string `gorm:"type:varchar(20)"                               json:"phone,omitempty"`
	Email        *string `gorm:"type:varchar(100)"                              json:"email,omitempty"`
	CreditScore  float64 `gorm:"not null;default:100.0"                         json:"credit_score"` // 信用分，周报批改后重算覆盖
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
