package dto

import (
	"math"

	"github.com/ll861181031/shixi-guanli-xitong/internal/model"
)

// ── 签到模块 DTO ──

// CreateCheckinRequest 提交签到请求
type CreateCheckinRequest struct {
	PositionID string  `json:"position_id" binding:"required,uuid"`
	Latitude   float64 `json:"latitude"    binding:"required,gte=-90,lte=90"`
	Longitude  float64 `json:"longitude"   binding:"required,gte=-180,lte=180"`
	Remark     string  `json:"remark"      binding:"omitempty,max=500"`
}

// CheckinListRequest 签到记录列表请求
type CheckinListRequest struct {
	StudentID  string `form:"student_id"  binding:"omitempty,uuid"`
	PositionID string `form:"position_id" binding:"omitempty,uuid"`
	Status     string `form:"status"      binding:"omitempty,oneof=normal late abnormal"`
	StartDate  string `form:"start_date"  binding:"omitempty,datetime=2006-01-02"`
	EndDate    string `form:"end_date"    binding:"omitempty,datetime=2006-01-02"`
	Page       int    `form:"page,default=1"      binding:"omitempty,min=1"`
	PageSize   int    `form:"per_page,default=10" binding:"omitempty,min=1,max=100"`
}

// CheckinStatisticsRequest 签到统计请求
type CheckinStatisticsRequest struct {
	StudentID  string `form:"student_id"  binding:"omitempty,uuid"`
	PositionID string `form:"position_id" binding:"omitempty,uuid"`
}

// CheckinResponse 签到记录响应
type CheckinResponse struct {
	ID             string  `json:"id"`
	StudentID      string  `json:"student_id"`
	StudentName    string  `json:"student_name,omitempty"`
	PositionID     string  `json:"position_id"`
	PositionTitle  string  `json:"position_title,omitempty"`
	CheckinDate    string  `json:"checkin_date"`
	CheckinTime    string  `json:"checkin_time"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Distance       float64 `json:"distance"` // 两位小数
	Status         string  `json:"status"`
	LateMinutes    int     `json:"late_minutes"`
	AbnormalReason *string `json:"abnormal_reason,omitempty"`
	Remark         *string `json:"remark,omitempty"`
}

// CheckinStatisticsResponse 签到统计响应
type CheckinStatisticsResponse struct {
	Total          int64   `json:"total"`
	NormalCount    int64   `json:"normal_count"`
	AbnormalCount  int64   `json:"abnormal_count"`
	AttendanceRate float64 `json:"attendance_rate"` // 正常签到数/总工作日×100，两位小数
}

// NewCheckinResponse 由模型构造签到响应
func NewCheckinResponse(c *model.Checkin) CheckinResponse {
	resp := CheckinResponse{
		ID:             c.CheckinID,
		StudentID:      c.StudentID,
		PositionID:     c.PositionID,
		CheckinDate:    c.CheckinDate.Format("2006-01-02"),
		CheckinTime:    c.CheckinTime.Format("2006-01-02T15:04:05Z07:00"),
		Latitude:       c.Latitude,
		Longitude:      c.Longitude,
		Distance:       round2(c.Distance),
		Status:         c.Status,
		AbnormalReason: c.AbnormalReason,
		Remark:         c.Remark,
	}
	if c.Student != nil {
		resp.StudentName = c.Student.RealName
	}
	if c.Position != nil {
		resp.PositionTitle = c.Position.Title
	}
	return resp
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
