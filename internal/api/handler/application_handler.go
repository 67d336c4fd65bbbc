package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ll861181031/shixi-guanli-xitong/internal/dto"
	"github.com/ll861181031/shixi-guanli-xitong/internal/service"
	"github.com/ll861181031/shixi-guanli-xitong/pkg/response"
)

// ApplicationHandler 申请模块 HTTP 处理器
type ApplicationHandler struct {
	applicationSvc service.ApplicationService
}

// NewApplicationHandler 创建 ApplicationHandler
func NewApplicationHandler(applicationSvc service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationSvc: applicationSvc}
}

// SubmitApplication 提交实习申请
// POST /api/v1/applications
func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	var req dto.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	application, err := h.applicationSvc.Submit(c.Request.Context(), &req, studentID)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.Created(c, application)
}

// ReviewApplication 审核申请
// PUT /api/v1/applications/:id/review
func (h *ApplicationHandler) ReviewApplication(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	var req dto.ReviewApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	application, err := h.applicationSvc.Review(c.Request.Context(), id, &req, reviewerID)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.OK(c, application)
}

// BatchReviewApplications 批量审核申请
// PUT /api/v1/applications/batch-review
func (h *ApplicationHandler) BatchReviewApplications(c *gin.Context) {
	var req dto.BatchReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.applicationSvc.BatchReview(c.Request.Context(), &req, reviewerID)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.OK(c, result)
}

// ListApplications 申请列表
// GET /api/v1/applications
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	var req dto.ApplicationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	applications, total, err := h.applicationSvc.List(c.Request.Context(), &req, callerID, role)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, applications, total, req.Page, req.PageSize)
}

// GetApplication 申请详情
// GET /api/v1/applications/:id
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "申请ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	application, err := h.applicationSvc.GetByID(c.Request.Context(), id, callerID, role)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.OK(c, application)
}

// handleApplicationError 统一处理申请模块业务错误
func (h *ApplicationHandler) handleApplicationError(c *gin.Context, err error) {
	var notFound *service.ApplicationsNotFoundError
	switch {
	case errors.As(err, &notFound):
		response.ErrorWithData(c, http.StatusNotFound, 14001, "部分申请不存在", gin.H{"missing_ids": notFound.Missing})
	case errors.Is(err, service.ErrApplicationNotFound):
		response.NotFound(c, 14001, "申请不存在")
	case errors.Is(err, service.ErrPositionNotFound):
		response.NotFound(c, 14002, "岗位不存在")
	case errors.Is(err, service.ErrPositionClosed):
		response.BadRequest(c, 14003, "该岗位暂不可申请")
	case errors.Is(err, service.ErrDuplicateApplication):
		response.Conflict(c, 14004, "您已申请过该岗位")
	case errors.Is(err, service.ErrAlreadyPlaced):
		response.Conflict(c, 14005, "该学生已有已批准的申请")
	case errors.Is(err, service.ErrInvalidTransition):
		response.Conflict(c, 14006, "仅能审核待处理的申请")
	case errors.Is(err, service.ErrCapacityExceeded):
		response.Conflict(c, 14007, "该岗位已满员")
	case errors.Is(err, service.ErrApplicationForbidden):
		response.Forbidden(c, 14008, "无权查看此申请")
	default:
		response.InternalError(c)
	}
}
