package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ll861181031/shixi-guanli-xitong/internal/dto"
	"github.com/ll861181031/shixi-guanli-xitong/internal/geo"
	"github.com/ll861181031/shixi-guanli-xitong/internal/service"
	"github.com/ll861181031/shixi-guanli-xitong/pkg/response"
)

// CheckinHandler 签到模块 HTTP 处理器
type CheckinHandler struct {
	checkinSvc service.CheckinService
}

// NewCheckinHandler 创建 CheckinHandler
func NewCheckinHandler(checkinSvc service.CheckinService) *CheckinHandler {
	return &CheckinHandler{checkinSvc: checkinSvc}
}

// CreateCheckin 打卡签到
// POST /api/v1/checkins
func (h *CheckinHandler) CreateCheckin(c *gin.Context) {
	var req dto.CreateCheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	studentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	checkin, err := h.checkinSvc.CheckIn(c.Request.Context(), &req, studentID)
	if err != nil {
		h.handleCheckinError(c, err)
		return
	}

	response.Created(c, checkin)
}

// ListCheckins 签到记录列表
// GET /api/v1/checkins
func (h *CheckinHandler) ListCheckins(c *gin.Context) {
	var req dto.CheckinListRequest
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

	checkins, total, err := h.checkinSvc.List(c.Request.Context(), &req, callerID, role)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, checkins, total, req.Page, req.PageSize)
}

// GetCheckinStatistics 签到统计
// GET /api/v1/checkins/statistics
func (h *CheckinHandler) GetCheckinStatistics(c *gin.Context) {
	var req dto.CheckinStatisticsRequest
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

	stats, err := h.checkinSvc.Statistics(c.Request.Context(), &req, callerID, role)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, stats)
}

// handleCheckinError 统一处理签到模块业务错误
func (h *CheckinHandler) handleCheckinError(c *gin.Context, err error) {
	var outOfRange *service.OutOfRangeError
	switch {
	case errors.As(err, &outOfRange):
		// 异常记录已落库，返回距离信息供前端提示
		response.ErrorWithData(c, http.StatusUnprocessableEntity, 15001, "超出签到范围", gin.H{
			"distance": outOfRange.Distance,
			"allowed":  outOfRange.Allowed,
		})
	case errors.Is(err, geo.ErrNotInWindow):
		response.BadRequest(c, 15002, "当前非签到时段")
	case errors.Is(err, service.ErrNoApprovedApplication):
		response.Forbidden(c, 15003, "您在该岗位没有已批准的实习申请")
	case errors.Is(err, service.ErrAlreadyCheckedIn):
		response.Conflict(c, 15004, "今日已签到")
	case errors.Is(err, service.ErrPositionNotFound):
		response.NotFound(c, 15005, "岗位不存在")
	default:
		response.InternalError(c)
	}
}
