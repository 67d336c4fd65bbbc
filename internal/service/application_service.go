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

// ── 申请模块业务错误 ──

var (
	ErrApplicationNotFound  = errors.New("申请不存在")
	ErrPositionClosed       = errors.New("该岗位暂不可申请")
	ErrDuplicateApplication = errors.New("您已申请过该岗位")
	ErrAlreadyPlaced        = errors.New("该学生已有已批准的申请")
	ErrInvalidTransition    = errors.New("仅能审核待处理的申请")
	ErrCapacityExceeded     = errors.New("该岗位已满员")
	ErrApplicationForbidden = errors.New("无权查看此申请")
)

// ApplicationsNotFoundError 批量审核中部分申请不存在
// 携带缺失的申请ID列表，整批不做任何变更
type ApplicationsNotFoundError struct {
	Missing []string
}

func (e *ApplicationsNotFoundError) Error() string {
	return fmt.Sprintf("部分申请不存在: %v", e.Missing)
}

// ApplicationService 实习申请业务接口
type ApplicationService interface {
	// 提交申请（学生）
	Submit(ctx context.Context, req *dto.SubmitApplicationRequest, studentID string) (*dto.ApplicationResponse, error)
	// 审核申请
	Review(ctx context.Context, applicationID string, req *dto.ReviewApplicationRequest, reviewerID string) (*dto.ApplicationResponse, error)
	// 批量审核，全成功或全回滚
	BatchReview(ctx context.Context, req *dto.BatchReviewRequest, reviewerID string) (*dto.BatchReviewResponse, error)
	// 申请列表（学生仅可见自己的申请）
	List(ctx context.Context, req *dto.ApplicationListRequest, callerID, callerRole string) ([]dto.ApplicationResponse, int64, error)
	// 申请详情
	GetByID(ctx context.Context, applicationID, callerID, callerRole string) (*dto.ApplicationResponse, error)
}

type applicationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewApplicationService 创建 ApplicationService 实例
func NewApplicationService(repo *repository.Repository, logger *zap.Logger) ApplicationService {
	return &applicationService{repo: repo, logger: logger}
}

func (s *applicationService) Submit(ctx context.Context, req *dto.SubmitApplicationRequest, studentID string) (*dto.ApplicationResponse, error) {
	var created *model.Application

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 1. 岗位必须存在且在招
		position, err := tx.Position.GetByID(ctx, req.PositionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPositionNotFound
			}
			return err
		}
		if !position.AcceptingApplications() {
			return ErrPositionClosed
		}

		// 2. 同一岗位不可重复申请
		if _, err := tx.Application.GetByStudentAndPosition(ctx, studentID, req.PositionID); err == nil {
			return ErrDuplicateApplication
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// 3. 已有已批准申请的学生不可再申请
		if _, err := tx.Application.GetApprovedByStudent(ctx, studentID); err == nil {
			return ErrAlreadyPlaced
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		application := &model.Application{
			StudentID:  studentID,
			PositionID: req.PositionID,
			Resume:     req.Resume,
			Motivation: req.Motivation,
			Status:     model.ApplicationPending,
		}
		if err := tx.Application.Create(ctx, application); err != nil {
			// (学生, 岗位) 唯一约束兜底并发重复提交
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateApplication
			}
			return err
		}

		student, err := tx.User.GetByID(ctx, studentID)
		if err != nil {
			return err
		}

		// 4. 同一事务内通知岗位发布者
		if err := notify(ctx, tx, position.PublisherID,
			"新的实习申请",
			fmt.Sprintf("%s申请了您发布的岗位：%s", student.RealName, position.Title),
			model.MessageApplication, application.ApplicationID); err != nil {
			return err
		}

		created = application
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("申请提交成功",
		zap.String("application_id", created.ApplicationID),
		zap.String("student_id", studentID),
		zap.String("position_id", req.PositionID),
	)

	return s.loadResponse(ctx, created.ApplicationID)
}

func (s *applicationService) Review(ctx context.Context, applicationID string, req *dto.ReviewApplicationRequest, reviewerID string) (*dto.ApplicationResponse, error) {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		_, err := s.reviewOne(ctx, tx, applicationID, req.Decision, req.Comment, reviewerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("申请审核完成",
		zap.String("application_id", applicationID),
		zap.String("decision", req.Decision),
		zap.String("reviewer_id", reviewerID),
	)

	return s.loadResponse(ctx, applicationID)
}

func (s *applicationService) BatchReview(ctx context.Context, req *dto.BatchReviewRequest, reviewerID string) (*dto.BatchReviewResponse, error) {
	var updated []string

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		applications, err := tx.Application.ListByIDs(ctx, req.IDs)
		if err != nil {
			return err
		}

		found := make(map[string]bool, len(applications))
		for _, a := range applications {
			found[a.ApplicationID] = true
		}
		var missing []string
		for _, id := range req.IDs {
			if !found[id] {
				missing = append(missing, id)
			}
		}
		// 任一ID不存在则整批拒绝，不做任何变更
		if len(missing) > 0 {
			return &ApplicationsNotFoundError{Missing: missing}
		}

		// 任一条审核失败则整个事务回滚
		updated = updated[:0]
		for _, a := range applications {
			if _, err := s.reviewOne(ctx, tx, a.ApplicationID, req.Decision, req.Comment, reviewerID); err != nil {
				return err
			}
			updated = append(updated, a.ApplicationID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("批量审核完成",
		zap.Int("count", len(updated)),
		zap.String("decision", req.Decision),
		zap.String("reviewer_id", reviewerID),
	)

	return &dto.BatchReviewResponse{UpdatedIDs: updated, Decision: req.Decision}, nil
}

// reviewOne 在事务内审核单条申请。
// 批准路径依次持有学生行锁与岗位行锁：前者串行化跨岗位并发批准同一学生，
// 后者串行化同岗位并发批准的容量检查-递增。
func (s *applicationService) reviewOne(ctx context.Context, tx *repository.Repository, applicationID, decision, comment, reviewerID string) (*model.Application, error) {
	application, err := tx.Application.GetByIDForUpdate(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	// pending → approved | rejected，终态不可再审
	if application.Status != model.ApplicationPending {
		return nil, ErrInvalidTransition
	}

	if decision == model.ApplicationApproved {
		if _, err := tx.User.GetByIDForUpdate(ctx, application.StudentID); err != nil {
			return nil, err
		}
		count, err := tx.Application.CountApprovedByStudentExcluding(ctx, application.StudentID, application.ApplicationID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrAlreadyPlaced
		}

		position, err := tx.Position.GetByIDForUpdate(ctx, application.PositionID)
		if err != nil {
			return nil, err
		}
		if position.PlacedCount >= position.Capacity {
			return nil, ErrCapacityExceeded
		}

		placed := position.PlacedCount + 1
		status := position.Status
		if placed >= position.Capacity {
			status = model.PositionFull
		}
		if err := tx.Position.UpdatePlacement(ctx, position.PositionID, placed, status); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	application.Status = decision
	application.ReviewerID = &reviewerID
	if comment != "" {
		application.ReviewComment = &comment
	}
	application.ReviewedAt = &now
	if err := tx.Application.UpdateReview(ctx, application); err != nil {
		// 学生已批准申请的部分唯一索引兜底并发批准竞争
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyPlaced
		}
		return nil, err
	}

	result := "已拒绝"
	if decision == model.ApplicationApproved {
		result = "已通过"
	}
	if err := notify(ctx, tx, application.StudentID,
		"申请审核结果",
		fmt.Sprintf("您的实习申请%s", result),
		model.MessageApplication, application.ApplicationID); err != nil {
		return nil, err
	}

	return application, nil
}

func (s *applicationService) List(ctx context.Context, req *dto.ApplicationListRequest, callerID, callerRole string) ([]dto.ApplicationResponse, int64, error) {
	filter := repository.ApplicationFilter{
		PositionID: req.PositionID,
		Status:     req.Status,
		Offset:     (req.Page - 1) * req.PageSize,
		Limit:      req.PageSize,
	}
	// 学生仅可见自己的申请
	if callerRole == model.RoleStudent {
		filter.StudentID = callerID
	}

	applications, total, err := s.repo.Application.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询申请列表失败", zap.Error(err))
		return nil, 0, err
	}

	responses := make([]dto.ApplicationResponse, 0, len(applications))
	for i := range applications {
		responses = append(responses, dto.NewApplicationResponse(&applications[i]))
	}
	return responses, total, nil
}

func (s *applicationService) GetByID(ctx context.Context, applicationID, callerID, callerRole string) (*dto.ApplicationResponse, error) {
	application, err := s.repo.Application.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	if callerRole == model.RoleStudent && application.StudentID != callerID {
		return nil, ErrApplicationForbidden
	}

	resp := dto.NewApplicationResponse(application)
	return &resp, nil
}

// loadResponse 事务提交后重新加载带关联的申请详情
func (s *applicationService) loadResponse(ctx context.Context, applicationID string) (*dto.ApplicationResponse, error) {
	application, err := s.repo.Application.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewApplicationResponse(application)
	return &resp, nil
}
