package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ll861181031/shixi-guanli-xitong/internal/dto"
	"github.com/ll861181031/shixi-guanli-xitong/internal/model"
	"github.com/ll861181031/shixi-guanli-xitong/internal/repository"
)

// ── 周报模块业务错误 ──

var (
	ErrReportNotFound       = errors.New("周报不存在")
	ErrWeekAlreadySubmitted = errors.New("该周周报已提交")
	ErrReportForbidden      = errors.New("无权查看此周报")
)

// WeeklyReportService 周报业务接口
type WeeklyReportService interface {
	// 提交周报（学生），每（岗位, 周次）一份
	Submit(ctx context.Context, req *dto.SubmitReportRequest, studentID string) (*dto.ReportResponse, error)
	// 批改周报并触发信用分重算
	Review(ctx context.Context, reportID string, req *dto.ReviewReportRequest, reviewerID string) (*dto.ReportResponse, error)
	// 周报列表（学生仅可见自己的周报）
	List(ctx context.Context, req *dto.ReportListRequest, callerID, callerRole string) ([]dto.ReportResponse, int64, error)
	// 周报详情
	GetByID(ctx context.Context, reportID, callerID, callerRole string) (*dto.ReportResponse, error)
}

type weeklyReportService struct {
	repo      *repository.Repository
	creditSvc CreditService
	logger    *zap.Logger
}

// NewWeeklyReportService 创建 WeeklyReportService 实例
func NewWeeklyReportService(repo *repository.Repository, creditSvc CreditService, logger *zap.Logger) WeeklyReportService {
	return &weeklyReportService{repo: repo, creditSvc: creditSvc, logger: logger}
}

func (s *weeklyReportService) Submit(ctx context.Context, req *dto.SubmitReportRequest, studentID string) (*dto.ReportResponse, error) {
	var created *model.WeeklyReport

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		position, err := tx.Position.GetByID(ctx, req.PositionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPositionNotFound
			}
			return err
		}

		// 仅持有该岗位已批准申请的学生可提交周报
		application, err := tx.Application.GetByStudentAndPosition(ctx, studentID, req.PositionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoApprovedApplication
			}
			return err
		}
		if application.Status != model.ApplicationApproved {
			return ErrNoApprovedApplication
		}

		// 每周一份
		if _, err := tx.WeeklyReport.GetByStudentPositionWeek(ctx, studentID, req.PositionID, req.WeekNumber); err == nil {
			return ErrWeekAlreadySubmitted
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		report := &model.WeeklyReport{
			StudentID:  studentID,
			PositionID: req.PositionID,
			WeekNumber: req.WeekNumber,
			Content:    req.Content,
			Status:     model.ReportSubmitted,
		}
		if err := tx.WeeklyReport.Create(ctx, report); err != nil {
			// (学生, 岗位, 周次) 唯一约束兜底并发重复提交
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrWeekAlreadySubmitted
			}
			return err
		}

		if err := notify(ctx, tx, position.PublisherID,
			"新的实习周报",
			fmt.Sprintf("学生提交了第%d周周报，请及时批改", req.WeekNumber),
			model.MessageReport, report.ReportID); err != nil {
			return err
		}

		created = report
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("周报提交成功",
		zap.String("report_id", created.ReportID),
		zap.String("student_id", studentID),
		zap.Int("week_number", req.WeekNumber),
	)

	return s.loadResponse(ctx, created.ReportID)
}

func (s *weeklyReportService) Review(ctx context.Context, reportID string, req *dto.ReviewReportRequest, reviewerID string) (*dto.ReportResponse, error) {
	var studentID string

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		report, err := tx.WeeklyReport.GetByID(ctx, reportID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReportNotFound
			}
			return err
		}

		now := time.Now()
		score := req.Score
		comment := req.Comment
		report.Status = model.ReportReviewed
		report.Score = &score
		report.Comment = &comment
		report.ReviewerID = &reviewerID
		report.ReviewedAt = &now
		if err := tx.WeeklyReport.UpdateReview(ctx, report); err != nil {
			return err
		}

		if err := notify(ctx, tx, report.StudentID,
			"周报批改结果",
			fmt.Sprintf("您的第%d周周报已批改，得分%.1f", report.WeekNumber, score),
			model.MessageReport, report.ReportID); err != nil {
			return err
		}

		studentID = report.StudentID
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 批改提交后同步重算信用分
	if _, err := s.creditSvc.Recompute(ctx, studentID); err != nil {
		s.logger.Error("批改后信用分重算失败",
			zap.String("report_id", reportID),
			zap.String("student_id", studentID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("周报批改完成",
		zap.String("report_id", reportID),
		zap.String("reviewer_id", reviewerID),
		zap.Float64("score", req.Score),
	)

	return s.loadResponse(ctx, reportID)
}

func (s *weeklyReportService) List(ctx context.Context, req *dto.ReportListRequest, callerID, callerRole string) ([]dto.ReportResponse, int64, error) {
	filter := repository.WeeklyReportFilter{
		StudentID:  req.StudentID,
		PositionID: req.PositionID,
		Status:     req.Status,
		Offset:     (req.Page - 1) * req.PageSize,
		Limit:      req.PageSize,
	}
	if callerRole == model.RoleStudent {
		filter.StudentID = callerID
	}

	reports, total, err := s.repo.WeeklyReport.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询周报列表失败", zap.Error(err))
		return nil, 0, err
	}

	responses := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		responses = append(responses, dto.NewReportResponse(&reports[i]))
	}
	return responses, total, nil
}

func (s *weeklyReportService) GetByID(ctx context.Context, reportID, callerID, callerRole string) (*dto.ReportResponse, error) {
	report, err := s.repo.WeeklyReport.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	if callerRole == model.RoleStudent && report.StudentID != callerID {
		return nil, ErrReportForbidden
	}

	resp := dto.NewReportResponse(report)
	return &resp, nil
}

func (s *weeklyReportService) loadResponse(ctx context.Context, reportID string) (*dto.ReportResponse, error) {
	report, err := s.repo.WeeklyReport.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewReportResponse(report)
	return &resp, nil
}
