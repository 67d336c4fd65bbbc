package dto

import "github.com/ll861181031/shixi-guanli-xitong/internal/model"

// ── 周报模块 DTO ──

// SubmitReportRequest 提交周报请求
type SubmitReportRequest struct {
	PositionID string `json:"position_id" binding:"required,uuid"`
	WeekNumber int    `json:"week_number" binding:"required,min=1"`
	Content    string `json:"content"     binding:"required"`
}

// ReviewReportRequest 批改周报请求
type ReviewReportRequest struct {
	Score   float64 `json:"score"   binding:"gte=0,lte=100"`
	Comment string  `json:"comment" binding:"required"`
}

// ReportListRequest 周报列表请求
type ReportListRequest struct {
	StudentID  string `form:"student_id"  binding:"omitempty,uuid"`
	PositionID string `form:"position_id" binding:"omitempty,uuid"`
	Status     string `form:"status"      binding:"omitempty,oneof=submitted reviewed"`
	Page       int    `form:"page,default=1"      binding:"omitempty,min=1"`
	PageSize   int    `form:"per_page,default=10" binding:"omitempty,min=1,max=100"`
}

// ReportResponse 周报信息响应
type ReportResponse struct {
	ID            string   `json:"id"`
	StudentID     string   `json:"student_id"`
	StudentName   string   `json:"student_name,omitempty"`
	PositionID    string   `json:"position_id"`
	PositionTitle string   `json:"position_title,omitempty"`
	WeekNumber    int      `json:"week_number"`
	Content       string   `json:"content"`
	Status        string   `json:"status"`
	Score         *float64 `json:"score,omitempty"`
	Comment       *string  `json:"comment,omitempty"`
	ReviewerName  string   `json:"reviewer_name,omitempty"`
	ReviewedAt    string   `json:"reviewed_at,omitempty"`
	CreatedAt     string   `json:"created_at"`
}

// NewReportResponse 由模型构造周报响应
func NewReportResponse(r *model.WeeklyReport) ReportResponse {
	resp := ReportResponse{
		ID:         r.ReportID,
		StudentID:  r.StudentID,
		PositionID: r.PositionID,
		WeekNumber: r.WeekNumber,
		Content:    r.Content,
		Status:     r.Status,
		Score:      r.Score,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if r.Student != nil {
		resp.StudentName = r.Student.RealName
	}
	if r.Position != nil {
		resp.PositionTitle = r.Position.Title
	}
	if r.Reviewer != nil {
		resp.ReviewerName = r.Reviewer.RealName
	}
	if r.ReviewedAt != nil {
		resp.ReviewedAt = r.ReviewedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}
