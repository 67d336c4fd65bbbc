package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ll861181031/shixi-guanli-xitong/config"
	"github.com/ll861181031/shixi-guanli-xitong/internal/credit"
	"github.com/ll861181031/shixi-guanli-xitong/internal/model"
	"github.com/ll861181031/shixi-guanli-xitong/internal/repository"
)

// ErrUserNotFound 用户不存在
var ErrUserNotFound = errors.New("用户不存在")

// CreditService 信用分业务接口
type CreditService interface {
	// Recompute 由完整历史重算学生信用分并覆盖写入，返回新分值。
	// 无已批准申请（尚未上岗）时恢复基准分
	Recompute(ctx context.Context, studentID string) (float64, error)
	// Get 查询学生当前信用分
	Get(ctx context.Context, studentID string) (float64, error)
}

type creditService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCreditService 创建 CreditService 实例
func NewCreditService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) CreditService {
	return &creditService{cfg: cfg, repo: repo, logger: logger}
}

func (s *creditService) Recompute(ctx context.Context, studentID string) (float64, error) {
	var score float64

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		user, err := tx.User.GetByID(ctx, studentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if user.Role != model.RoleStudent {
			score = credit.Baseline
			return nil
		}

		application, err := tx.Application.GetApprovedByStudent(ctx, studentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				score = credit.Baseline
				return tx.User.UpdateCreditScore(ctx, studentID, score)
			}
			return err
		}

		// 各因子只统计已批准岗位下的历史
		normalFilter := repository.CheckinFilter{
			StudentID:  studentID,
			PositionID: application.PositionID,
			Status:     model.CheckinNormal,
		}
		normal, err := tx.Checkin.Count(ctx, normalFilter)
		if err != nil {
			return err
		}

		abnormalFilter := normalFilter
		abnormalFilter.Status = model.CheckinAbnormal
		abnormal, err := tx.Checkin.Count(ctx, abnormalFilter)
		if err != nil {
			return err
		}

		reportCount, err := tx.WeeklyReport.CountByStudentPosition(ctx, studentID, application.PositionID)
		if err != nil {
			return err
		}
		avgScore, err := tx.WeeklyReport.AvgScoreByStudentPosition(ctx, studentID, application.PositionID)
		if err != nil {
			return err
		}

		score = credit.Score(credit.Input{
			NormalCheckins:   int(normal),
			AbnormalCheckins: int(abnormal),
			ReportCount:      int(reportCount),
			AvgReportScore:   avgScore,
			TotalWorkDays:    s.cfg.Checkin.TotalWorkDays,
			TotalWeeks:       s.cfg.Checkin.TotalWeeks,
		})
		return tx.User.UpdateCreditScore(ctx, studentID, score)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("信用分重算完成",
		zap.String("student_id", studentID),
		zap.Float64("score", score),
	)
	return score, nil
}

func (s *creditService) Get(ctx context.Context, studentID string) (float64, error) {
	user, err := s.repo.User.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return user.CreditScore, nil
}
