package dto

import "github.com/ll861181031/shixi-guanli-xitong/internal/model"

// ── 岗位模块 DTO ──

// CreatePositionRequest 创建岗位请求
type CreatePositionRequest struct {
	Title         string   `json:"title"          binding:"required,min=2,max=200"`
	CompanyName   string   `json:"company_name"   binding:"required,min=2,max=200"`
	Description   string   `json:"description"`
	Requirements  string   `json:"requirements"`
	Location      string   `json:"location"       binding:"required,max=200"`
	Latitude      float64  `json:"latitude"       binding:"required,gte=-90,lte=90"`
	Longitude     float64  `json:"longitude"      binding:"required,gte=-180,lte=180"`
	CheckinRadius *float64 `json:"checkin_radius" binding:"omitempty,gt=0"`
	Capacity      int      `json:"capacity"       binding:"required,min=1"`
}

// UpdatePositionRequest 更新岗位请求
type UpdatePositionRequest struct {
	Title         *string  `json:"title"          binding:"omitempty,min=2,max=200"`
	CompanyName   *string  `json:"company_name"   binding:"omitempty,min=2,max=200"`
	Description   *string  `json:"description"`
	Requirements  *string  `json:"requirements"`
	Location      *string  `json:"location"       binding:"omitempty,max=200"`
	Latitude      *float64 `json:"latitude"       binding:"omitempty,gte=-90,lte=90"`
	Longitude     *float64 `json:"longitude"      binding:"omitempty,gte=-180,lte=180"`
	CheckinRadius *float64 `json:"checkin_radius" binding:"omitempty,gt=0"`
	Capacity      *int     `json:"capacity"       binding:"omitempty,min=1"`
	Status        *string  `json:"status"         binding:"omitempty,oneof=open paused full"`
}

// PositionListRequest 岗位列表请求
type PositionListRequest struct {
	Status   string `form:"status"  binding:"omitempty,oneof=open paused full"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100"`
	Page     int    `form:"page,default=1"      binding:"omitempty,min=1"`
	PageSize int    `form:"per_page,default=10" binding:"omitempty,min=1,max=100"`
}

// PositionResponse 岗位信息响应
type PositionResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	CompanyName   string   `json:"company_name"`
	Description   string   `json:"description"`
	Requirements  string   `json:"requirements"`
	Location      string   `json:"location"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	CheckinRadius *float64 `json:"checkin_radius,omitempty"`
	Capacity      int      `json:"capacity"`
	PlacedCount   int      `json:"placed_count"`
	Status        string   `json:"status"`
	PublisherID   string   `json:"publisher_id"`
	PublisherName string   `json:"publisher_name,omitempty"`
	CreatedAt     string   `json:"created_at"`
}

// NewPositionResponse 由模型构造岗位响应
func NewPositionResponse(p *model.Position) PositionResponse {
	resp := PositionResponse{
		ID:            p.PositionID,
		Title:         p.Title,
		CompanyName:   p.CompanyName,
		Description:   p.Description,
		Requirements:  p.Requirements,
		Location:      p.Location,
		Latitude:      p.Latitude,
		Longitude:     p.Longitude,
		CheckinRadius: p.CheckinRadius,
		Capacity:      p.Capacity,
		PlacedCount:   p.PlacedCount,
		Status:        p.Status,
		PublisherID:   p.PublisherID,
		CreatedAt:     p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if p.Publisher != nil {
		resp.PublisherName = p.Publisher.RealName
	}
	return resp
}
