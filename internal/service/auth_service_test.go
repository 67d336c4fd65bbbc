package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ll861181031/shixi-guanli-xitong/config"
	"github.com/ll861181031/shixi-guanli-xitong/internal/dto"
	"github.com/ll861181031/shixi-guanli-xitong/internal/model"
	"github.com/ll861181031/shixi-guanli-xitong/pkg/jwt"
)

func setupTestAuthService() (AuthService, *testMocks) {
	repo, m := newTestRepo()
	cfg := newTestConfig()
	cfg.Auth = config.AuthConfig{
		JWTSecret:       "test-secret-key-for-unit-tests",
		AccessTokenTTL:  2 * time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop())
	return svc, m
}

func seedCredentialedStudent(m *testMocks, username, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{
		UserID:       "user-" + username,
		Username:     username,
		PasswordHash: string(hash),
		RealName:     "李明",
		Role:         model.RoleStudent,
		CreditScore:  100.0,
	}
	m.users.users[u.UserID] = u
	return u
}

// ── Register 测试 ──

func TestAuthService_Register_Success(t *testing.T) {
	svc, m := setupTestAuthService()

	req := &dto.RegisterRequest{
		Username:  "liming",
		Password:  "secret123",
		RealName:  "李明",
		StudentNo: "2023010101",
	}
	result, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	if result.Role != model.RoleStudent {
		t.Errorf("注册账号默认角色应为 student，实际=%s", result.Role)
	}
	if result.CreditScore != 100.0 {
		t.Errorf("新学生信用分应为基准分100，实际=%.2f", result.CreditScore)
	}

	stored, err := m.users.GetByUsername(context.Background(), "liming")
	if err != nil {
		t.Fatalf("注册后应能按用户名查到用户: %v", err)
	}
	if stored.PasswordHash == "secret123" {
		t.Error("密码不应明文存储")
	}
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	svc, m := setupTestAuthService()
	seedCredentialedStudent(m, "liming", "secret123")

	req := &dto.RegisterRequest{Username: "liming", Password: "other456", RealName: "另一个李明"}
	if _, err := svc.Register(context.Background(), req); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("期望 ErrUsernameTaken，实际=%v", err)
	}
}

// ── Login 测试 ──

func TestAuthService_Login_Success(t *testing.T) {
	svc, m := setupTestAuthService()
	seedCredentialedStudent(m, "liming", "secret123")

	result, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "liming", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("登录应签发 Token 对")
	}
	if result.ExpiresIn != int((2 * time.Hour).Seconds()) {
		t.Errorf("期望有效期=7200秒，实际=%d", result.ExpiresIn)
	}
	if result.User.Username != "liming" {
		t.Errorf("期望返回当前用户信息，实际=%s", result.User.Username)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, m := setupTestAuthService()
	seedCredentialedStudent(m, "liming", "secret123")

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "liming", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际=%v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, _ := setupTestAuthService()

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "nobody", Password: "x"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("未知用户应与密码错误返回同一错误，实际=%v", err)
	}
}

// ── Refresh 测试 ──

func TestAuthService_Refresh_Success(t *testing.T) {
	svc, m := setupTestAuthService()
	seedCredentialedStudent(m, "liming", "secret123")

	login, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "liming", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh 应成功: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
		t.Error("Refresh 应换发新 Token 对")
	}
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	svc, m := setupTestAuthService()
	seedCredentialedStudent(m, "liming", "secret123")

	login, _ := svc.Login(context.Background(), &dto.LoginRequest{Username: "liming", Password: "secret123"})

	// Access Token 不可用于换发
	if _, err := svc.Refresh(context.Background(), login.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("期望 ErrInvalidToken，实际=%v", err)
	}
}

// ── ChangePassword 测试 ──

func TestAuthService_ChangePassword_Success(t *testing.T) {
	svc, m := setupTestAuthService()
	u := seedCredentialedStudent(m, "liming", "secret123")

	req := &dto.ChangePasswordRequest{OldPassword: "secret123", NewPassword: "newsecret456"}
	if err := svc.ChangePassword(context.Background(), u.UserID, req); err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("newsecret456")); err != nil {
		t.Error("新密码应生效")
	}
}

func TestAuthService_ChangePassword_WrongOldPassword(t *testing.T) {
	svc, m := setupTestAuthService()
	u := seedCredentialedStudent(m, "liming", "secret123")

	req := &dto.ChangePasswordRequest{OldPassword: "wrong", NewPassword: "newsecret456"}
	if err := svc.ChangePassword(context.Background(), u.UserID, req); !errors.Is(err, ErrWrongOldPassword) {
		t.Errorf("期望 ErrWrongOldPassword，实际=%v", err)
	}
}

// ── GetCurrentUser 测试 ──

func TestAuthService_GetCurrentUser(t *testing.T) {
	svc, m := setupTestAuthService()
	u := seedCredentialedStudent(m, "liming", "secret123")

	result, err := svc.GetCurrentUser(context.Background(), u.UserID)
	if err != nil {
		t.Fatalf("GetCurrentUser 应成功: %v", err)
	}
	if result.Username != "liming" {
		t.Errorf("期望用户名=liming，实际=%s", result.Username)
	}

	if _, err := svc.GetCurrentUser(context.Background(), "user-nope"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际=%v", err)
	}
}
