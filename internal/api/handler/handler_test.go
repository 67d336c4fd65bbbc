package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ll861181031/shixi-guanli-xitong/internal/dto"
	"github.com/ll861181031/shixi-guanli-xitong/internal/model"
	"github.com/ll861181031/shixi-guanli-xitong/internal/service"
	"github.com/ll861181031/shixi-guanli-xitong/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── 测试辅助 ──

func jsonBody(v interface{}) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// setAuth 模拟 JWT 中间件注入的上下文
func setAuth(c *gin.Context, userID, role string) {
	c.Set("user_id", userID)
	c.Set("role", role)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	registerResult *dto.UserResponse
	registerErr    error
	loginResult    *dto.TokenResponse
	loginErr       error
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*dto.UserResponse, error) {
	return m.registerResult, m.registerErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return nil, nil
}
func (m *mockAuthService) Logout(_ context.Context, _ string) error { return nil }
func (m *mockAuthService) GetCurrentUser(_ context.Context, _ string) (*dto.UserResponse, error) {
	return nil, nil
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return nil
}

// ── Mock ApplicationService ──

type mockApplicationService struct {
	submitResult *dto.ApplicationResponse
	submitErr    error
	reviewResult *dto.ApplicationResponse
	reviewErr    error
	batchResult  *dto.BatchReviewResponse
	batchErr     error
}

func (m *mockApplicationService) Submit(_ context.Context, _ *dto.SubmitApplicationRequest, _ string) (*dto.ApplicationResponse, error) {
	return m.submitResult, m.submitErr
}
func (m *mockApplicationService) Review(_ context.Context, _ string, _ *dto.ReviewApplicationRequest, _ string) (*dto.ApplicationResponse, error) {
	return m.reviewResult, m.reviewErr
}
func (m *mockApplicationService) BatchReview(_ context.Context, _ *dto.BatchReviewRequest, _ string) (*dto.BatchReviewResponse, error) {
	return m.batchResult, m.batchErr
}
func (m *mockApplicationService) List(_ context.Context, _ *dto.ApplicationListRequest, _, _ string) ([]dto.ApplicationResponse, int64, error) {
	return nil, 0, nil
}
func (m *mockApplicationService) GetByID(_ context.Context, _, _, _ string) (*dto.ApplicationResponse, error) {
	return nil, nil
}

// ── Mock CheckinService ──

type mockCheckinService struct {
	checkInResult *dto.CheckinResponse
	checkInErr    error
}

func (m *mockCheckinService) CheckIn(_ context.Context, _ *dto.CreateCheckinRequest, _ string) (*dto.CheckinResponse, error) {
	return m.checkInResult, m.checkInErr
}
func (m *mockCheckinService) List(_ context.Context, _ *dto.CheckinListRequest, _, _ string) ([]dto.CheckinResponse, int64, error) {
	return nil, 0, nil
}
func (m *mockCheckinService) Statistics(_ context.Context, _ *dto.CheckinStatisticsRequest, _, _ string) (*dto.CheckinStatisticsResponse, error) {
	return &dto.CheckinStatisticsResponse{}, nil
}

// ═══════════════════════════════════════════════════════════
// 测试用例
// ═══════════════════════════════════════════════════════════

// ── AuthHandler ──

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 7200},
	}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{Username: "liming", Password: "secret123"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrInvalidCredentials}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{Username: "liming", Password: "wrong"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11002 {
		t.Errorf("expected error code 11002, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Register_UsernameTaken(t *testing.T) {
	mock := &mockAuthService{registerErr: service.ErrUsernameTaken}
	h := NewAuthHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Username: "liming", Password: "secret123", RealName: "李明",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

// ── ApplicationHandler ──

func TestApplicationHandler_Submit_Success(t *testing.T) {
	mock := &mockApplicationService{
		submitResult: &dto.ApplicationResponse{ID: "app-1", Status: model.ApplicationPending},
	}
	h := NewApplicationHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/applications", jsonBody(dto.SubmitApplicationRequest{
		PositionID: "a2194b3e-25c5-4cbc-b374-6a4911b2c1f5",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/applications", func(c *gin.Context) {
		setAuth(c, "stu-1", model.RoleStudent)
		h.SubmitApplication(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestApplicationHandler_Submit_AlreadyPlaced(t *testing.T) {
	mock := &mockApplicationService{submitErr: service.ErrAlreadyPlaced}
	h := NewApplicationHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/applications", jsonBody(dto.SubmitApplicationRequest{
		PositionID: "a2194b3e-25c5-4cbc-b374-6a4911b2c1f5",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/applications", func(c *gin.Context) {
		setAuth(c, "stu-1", model.RoleStudent)
		h.SubmitApplication(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 14005 {
		t.Errorf("expected error code 14005, got %d", resp.Code)
	}
}

func TestApplicationHandler_Review_CapacityExceeded(t *testing.T) {
	mock := &mockApplicationService{reviewErr: service.ErrCapacityExceeded}
	h := NewApplicationHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/applications/app-1/review", jsonBody(dto.ReviewApplicationRequest{
		Decision: model.ApplicationApproved,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/applications/:id/review", func(c *gin.Context) {
		setAuth(c, "tea-1", model.RoleTeacher)
		h.ReviewApplication(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 14007 {
		t.Errorf("expected error code 14007, got %d", resp.Code)
	}
}

func TestApplicationHandler_BatchReview_MissingIDs(t *testing.T) {
	mock := &mockApplicationService{
		batchErr: &service.ApplicationsNotFoundError{Missing: []string{"app-999"}},
	}
	h := NewApplicationHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/applications/batch-review", jsonBody(dto.BatchReviewRequest{
		IDs:      []string{"a2194b3e-25c5-4cbc-b374-6a4911b2c1f5"},
		Decision: model.ApplicationApproved,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/applications/batch-review", func(c *gin.Context) {
		setAuth(c, "tea-1", model.RoleTeacher)
		h.BatchReviewApplications(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 14001 {
		t.Errorf("expected error code 14001, got %d", resp.Code)
	}
	// 缺失ID列表应随响应返回
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected structured data, got %v", resp.Data)
	}
	if _, ok := data["missing_ids"]; !ok {
		t.Error("expected missing_ids in response data")
	}
}

// ── CheckinHandler ──

func TestCheckinHandler_Create_OutOfRange(t *testing.T) {
	mock := &mockCheckinService{
		checkInErr: &service.OutOfRangeError{Distance: 250.37, Allowed: 200},
	}
	h := NewCheckinHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/checkins", jsonBody(dto.CreateCheckinRequest{
		PositionID: "a2194b3e-25c5-4cbc-b374-6a4911b2c1f5",
		Latitude:   31.23,
		Longitude:  121.47,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/checkins", func(c *gin.Context) {
		setAuth(c, "stu-1", model.RoleStudent)
		h.CreateCheckin(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15001 {
		t.Errorf("expected error code 15001, got %d", resp.Code)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected structured data, got %v", resp.Data)
	}
	if data["distance"] != 250.37 {
		t.Errorf("expected distance=250.37, got %v", data["distance"])
	}
	if data["allowed"] != 200.0 {
		t.Errorf("expected allowed=200, got %v", data["allowed"])
	}
}

func TestCheckinHandler_Create_AlreadyCheckedIn(t *testing.T) {
	mock := &mockCheckinService{checkInErr: service.ErrAlreadyCheckedIn}
	h := NewCheckinHandler(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/checkins", jsonBody(dto.CreateCheckinRequest{
		PositionID: "a2194b3e-25c5-4cbc-b374-6a4911b2c1f5",
		Latitude:   31.23,
		Longitude:  121.47,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/checkins", func(c *gin.Context) {
		setAuth(c, "stu-1", model.RoleStudent)
		h.CreateCheckin(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 15004 {
		t.Errorf("expected error code 15004, got %d", resp.Code)
	}
}

func TestCheckinHandler_Create_Unauthenticated(t *testing.T) {
	h := NewCheckinHandler(&mockCheckinService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/checkins", jsonBody(dto.CreateCheckinRequest{
		PositionID: "a2194b3e-25c5-4cbc-b374-6a4911b2c1f5",
		Latitude:   31.23,
		Longitude:  121.47,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/checkins", h.CreateCheckin)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}
