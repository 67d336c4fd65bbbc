package dto

import "github.com/ll861181031/shixi-guanli-xitong/internal/model"

// ── 用户模块 DTO ──

// UpdateProfileRequest 更新个人资料请求
type UpdateProfileRequest struct {
	RealName  *string `json:"real_name"  binding:"omitempty,min=2,max=50"`
	StudentNo *string `json:"student_no" binding:"omitempty,max=20"`
	Phone     *string `json:"phone"      binding:"omitempty,max=20"`
	Email     *string `json:"email"      binding:"omitempty,email"`
}

// UserListRequest 用户列表请求
type UserListRequest struct {
	Role     string `form:"role" binding:"omitempty,oneof=student teacher admin"`
	Page     int    `form:"page,default=1"      binding:"omitempty,min=1"`
	PageSize int    `form:"per_page,default=10" binding:"omitempty,min=1,max=100"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	RealName    string  `json:"real_name"`
	StudentNo   *string `json:"student_no,omitempty"`
	Role        string  `json:"role"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"`
	CreditScore float64 `json:"credit_score"`
	CreatedAt   string  `json:"created_at"`
}

// NewUserResponse 由模型构造用户响应
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:          u.UserID,
		Username:    u.Username,
		RealName:    u.RealName,
		StudentNo:   u.StudentNo,
		Role:        u.Role,
		Phone:       u.Phone,
		Email:       u.Email,
		CreditScore: u.CreditScore,
		CreatedAt:   u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
