package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ll861181031/shixi-guanli-xitong/internal/dto"
	"github.com/ll861181031/shixi-guanli-xitong/internal/service"
	"github.com/ll861181031/shixi-guanli-xitong/pkg/response"
)

// WeeklyReportHandler 周报模块 HTTP 处理器
type WeeklyReportHandler struct {
	reportSvc service.WeeklyReportService
}

// NewWeeklyReportHandler 创建 WeeklyReportHandler
func NewWeeklyReportHandler(reportSvc service.WeeklyReportService) *WeeklyReportHandler {
	return &WeeklyReportHandler{reportSvc: reportSvc}
}

// SubmitReport 提交周报
// POST /api/v1/reports
func (h *WeeklyReportHandler) SubmitReport(c *gin.Context) {
	var req dto.SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	report, err := h.reportSvc.Submit(c.Request.Context(), &req, studentID)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.Created(c, report)
}

// ReviewReport 批改周报
// PUT /api/v1/reports/:id/review
func (h *WeeklyReportHandler) ReviewReport(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "周报ID不能为空")
		return
	}

	var req dto.ReviewReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	report, err := h.reportSvc.Review(c.Request.Context(), id, &req, reviewerID)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, report)
}

// ListReports 周报列表
// GET /api/v1/reports
func (h *WeeklyReportHandler) ListReports(c *gin.Context) {
	var req dto.ReportListRequest
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

	reports, total, err := h.reportSvc.List(c.Request.Context(), &req, callerID, role)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, reports, total, req.Page, req.PageSize)
}

// GetReport 周报详情
// GET /api/v1/reports/:id
func (h *WeeklyReportHandler) GetReport(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "周报ID不能为空")
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

	report, err := h.reportSvc.GetByID(c.Request.Context(), id, callerID, role)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, report)
}

// handleReportError 统一处理周报模块业务错误
func (h *WeeklyReportHandler) handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReportNotFound):
		response.NotFound(c, 16001, "周报不存在")
	case errors.Is(err, service.ErrWeekAlreadySubmitted):
		response.Conflict(c, 16002, "该周周报已提交")
	case errors.Is(err, service.ErrNoApprovedApplication):
		response.Forbidden(c, 16003, "您在该岗位没有已批准的实习申请")
	case errors.Is(err, service.ErrPositionNotFound):
		response.NotFound(c, 16004, "岗位不存在")
	case errors.Is(err, service.ErrReportForbidden):
		response.Forbidden(c, 16005, "无权查看此周报")
	default:
		response.InternalError(c)
	}
}
