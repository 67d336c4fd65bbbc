package dto

// ── 认证模块 DTO ──

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username  string `json:"username"   binding:"required,min=3,max=50"`
	Password  string `json:"password"   binding:"required,min=6,max=72"`
	RealName  string `json:"real_name"  binding:"required,min=2,max=50"`
	StudentNo string `json:"student_no" binding:"omitempty,max=20"`
	Phone     string `json:"phone"      binding:"omitempty,max=20"`
	Email     string `json:"email"      binding:"omitempty,email"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=72"`
}

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // Access Token 有效期（秒）
	User         UserResponse `json:"user"`
}
