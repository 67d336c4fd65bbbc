package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ll861181031/shixi-guanli-xitong/internal/dto"
	"github.com/ll861181031/shixi-guanli-xitong/internal/service"
	"github.com/ll861181031/shixi-guanli-xitong/pkg/response"
)

// PositionHandler 岗位模块 HTTP 处理器
type PositionHandler struct {
	positionSvc service.PositionService
}

// NewPositionHandler 创建 PositionHandler
func NewPositionHandler(positionSvc service.PositionService) *PositionHandler {
	return &PositionHandler{positionSvc: positionSvc}
}

// ListPositions 岗位列表
// GET /api/v1/positions
func (h *PositionHandler) ListPositions(c *gin.Context) {
	var req dto.PositionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	positions, total, err := h.positionSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, positions, total, req.Page, req.PageSize)
}

// GetPosition 岗位详情
// GET /api/v1/positions/:id
func (h *PositionHandler) GetPosition(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "岗位ID不能为空")
		return
	}

	position, err := h.positionSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handlePositionError(c, err)
		return
	}

	response.OK(c, position)
}

// CreatePosition 发布岗位
// POST /api/v1/positions
func (h *PositionHandler) CreatePosition(c *gin.Context) {
	var req dto.CreatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	publisherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	position, err := h.positionSvc.Create(c.Request.Context(), &req, publisherID)
	if err != nil {
		h.handlePositionError(c, err)
		return
	}

	response.Created(c, position)
}

// UpdatePosition 更新岗位
// PUT /api/v1/positions/:id
func (h *PositionHandler) UpdatePosition(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "岗位ID不能为空")
		return
	}

	var req dto.UpdatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
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

	position, err := h.positionSvc.Update(c.Request.Context(), id, &req, callerID, role)
	if err != nil {
		h.handlePositionError(c, err)
		return
	}

	response.OK(c, position)
}

// handlePositionError 统一处理岗位模块业务错误
func (h *PositionHandler) handlePositionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPositionNotFound):
		response.NotFound(c, 13001, "岗位不存在")
	case errors.Is(err, service.ErrPositionForbidden):
		response.Forbidden(c, 13002, "无权管理此岗位")
	case errors.Is(err, service.ErrCapacityTooSmall):
		response.BadRequest(c, 13003, "容量不能小于已录取人数")
	default:
		response.InternalError(c)
	}
}
