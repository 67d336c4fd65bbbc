package dto

import "github.com/ll861181031/shixi-guanli-xitong/internal/model"

// ── 申请模块 DTO ──

// SubmitApplicationRequest 提交申请请求
type SubmitApplicationRequest struct {
	PositionID string `json:"position_id" binding:"required,uuid"`
	Resume     string `json:"resume"`
	Motivation string `json:"motivation"`
}

// ReviewApplicationRequest 审核申请请求
type ReviewApplicationRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
	Comment  string `json:"comment"`
}

// BatchReviewRequest 批量审核请求
type BatchReviewRequest struct {
	IDs      []string `json:"ids"      binding:"required,min=1,dive,uuid"`
	Decision string   `json:"decision" binding:"required,oneof=approved rejected"`
	Comment  string   `json:"comment"`
}

// BatchReviewResponse 批量审核响应
type BatchReviewResponse struct {
	UpdatedIDs []string `json:"updated_ids"`
	Decision   string   `json:"decision"`
}

// ApplicationListRequest 申请列表请求
type ApplicationListRequest struct {
	PositionID string `form:"position_id" binding:"omitempty,uuid"`
	Status     string `form:"status"      binding:"omitempty,oneof=pending approved rejected"`
	Page       int    `form:"page,default=1"      binding:"omitempty,min=1"`
	PageSize   int    `form:"per_page,default=10" binding:"omitempty,min=1,max=100"`
}

// ApplicationResponse 申请信息响应
type ApplicationResponse struct {
	ID            string  `json:"id"`
	StudentID     string  `json:"student_id"`
	StudentName   string  `json:"student_name,omitempty"`
	StudentNo     *string `json:"student_no,omitempty"`
	PositionID    string  `json:"position_id"`
	PositionTitle string  `json:"position_title,omitempty"`
	CompanyName   string  `json:"company_name,omitempty"`
	Resume        string  `json:"resume"`
	Motivation    string  `json:"motivation"`
	Status        string  `json:"status"`
	ReviewerID    *string `json:"reviewer_id,omitempty"`
	ReviewerName  string  `json:"reviewer_name,omitempty"`
	ReviewComment *string `json:"review_comment,omitempty"`
	ReviewedAt    string  `json:"reviewed_at,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// NewApplicationResponse 由模型构造申请响应
func NewApplicationResponse(a *model.Application) ApplicationResponse {
	resp := ApplicationResponse{
		ID:            a.ApplicationID,
		StudentID:     a.StudentID,
		PositionID:    a.PositionID,
		Resume:        a.Resume,
		Motivation:    a.Motivation,
		Status:        a.Status,
		ReviewerID:    a.ReviewerID,
		ReviewComment: a.ReviewComment,
		CreatedAt:     a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if a.Student != nil {
		resp.StudentName = a.Student.RealName
		resp.StudentNo = a.Student.StudentNo
	}
	if a.Position != nil {
		resp.PositionTitle = a.Position.Title
		resp.CompanyName = a.Position.CompanyName
	}
	if a.Reviewer != nil {
		resp.ReviewerName = a.Reviewer.RealName
	}
	if a.ReviewedAt != nil {
		resp.ReviewedAt = a.ReviewedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}
