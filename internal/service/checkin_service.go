package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ll861181031/shixi-guanli-xitong/config"
	"github.com/ll861181031/shixi-guanli-xitong/internal/dto"
	"github.com/ll861181031/shixi-guanli-xitong/internal/geo"
	"github.com/ll861181031/shixi-guanli-xitong/internal/model"
	"github.com/ll861181031/shixi-guanli-xitong/internal/repository"
)

// ── 签到模块业务错误 ──

var (
	ErrNoApprovedApplication = errors.New("您在该岗位没有已批准的实习申请")
	ErrAlreadyCheckedIn      = errors.New("今日已签到")
	ErrCheckinForbidden      = errors.New("无权查看此签到记录")
)

// OutOfRangeError 超出签到范围。
// 异常签到记录已持久化并计入异常统计，本错误仅用于提示调用方。
type OutOfRangeError struct {
	Distance float64 // 实际距离（米），两位小数
	Allowed  float64 // 允许半径（米）
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("超出签到范围，当前距离%.2f米，允许%g米内", e.Distance, e.Allowed)
}

// CheckinService 签到业务接口
type CheckinService interface {
	// 打卡签到（学生）。超出范围时记录仍会落库，返回 *OutOfRangeError
	CheckIn(ctx context.Context, req *dto.CreateCheckinRequest, studentID string) (*dto.CheckinResponse, error)
	// 签到记录列表（学生仅可见自己的记录）
	List(ctx context.Context, req *dto.CheckinListRequest, callerID, callerRole string) ([]dto.CheckinResponse, int64, error)
	// 签到统计
	Statistics(ctx context.Context, req *dto.CheckinStatisticsRequest, callerID, callerRole string) (*dto.CheckinStatisticsResponse, error)
}

type checkinService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewCheckinService 创建 CheckinService 实例
func NewCheckinService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) CheckinService {
	return &checkinService{cfg: cfg, repo: repo, logger: logger, now: time.Now}
}

func (s *checkinService) CheckIn(ctx context.Context, req *dto.CreateCheckinRequest, studentID string) (*dto.CheckinResponse, error) {
	windowStart, err := geo.ParseDayTime(s.cfg.Checkin.WorkdayStart)
	if err != nil {
		return nil, fmt.Errorf("解析签到开始时间: %w", err)
	}
	windowEnd, err := geo.ParseDayTime(s.cfg.Checkin.WorkdayEnd)
	if err != nil {
		return nil, fmt.Errorf("解析签到结束时间: %w", err)
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var (
		checkin    *model.Checkin
		outOfRange *OutOfRangeError
		late       int
	)

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		position, err := tx.Position.GetByID(ctx, req.PositionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPositionNotFound
			}
			return err
		}

		// 仅持有该岗位已批准申请的学生可签到
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

		// 每日一次
		if _, err := tx.Checkin.GetByStudentPositionDate(ctx, studentID, req.PositionID, today); err == nil {
			return ErrAlreadyCheckedIn
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		radius := s.cfg.Checkin.DefaultRadius
		if position.CheckinRadius != nil {
			radius = *position.CheckinRadius
		}

		distance := geo.Distance(req.Latitude, req.Longitude, position.Latitude, position.Longitude)
		result, err := geo.Classify(distance, radius, now, windowStart, windowEnd)
		if err != nil {
			// 早于签到时段，不产生记录
			return err
		}

		record := &model.Checkin{
			StudentID:   studentID,
			PositionID:  req.PositionID,
			CheckinDate: today,
			CheckinTime: now,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
			Distance:    distance,
			Status:      result.Status,
		}
		if result.Reason != "" {
			record.AbnormalReason = &result.Reason
		}
		if req.Remark != "" {
			record.Remark = &req.Remark
		}
		if err := tx.Checkin.Create(ctx, record); err != nil {
			// (学生, 岗位, 日期) 唯一约束兜底并发重复签到
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyCheckedIn
			}
			return err
		}

		// 每次签到都在同一事务内通知学生签到结果
		if err := notify(ctx, tx, studentID,
			"签到结果",
			fmt.Sprintf("您的签到已提交，状态：%s，距离：%.2f米", result.Status, distance),
			model.MessageCheckin, record.CheckinID); err != nil {
			return err
		}

		// 异常签到额外通知岗位发布者
		if result.Status == model.CheckinAbnormal {
			if err := notify(ctx, tx, position.PublisherID,
				"异常签到提醒",
				fmt.Sprintf("学生签到距离岗位%.2f米，超出允许范围%g米", distance, radius),
				model.MessageCheckin, record.CheckinID); err != nil {
				return err
			}
			outOfRange = &OutOfRangeError{Distance: round2(distance), Allowed: radius}
		}

		checkin = record
		late = result.LateMinutes
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("签到完成",
		zap.String("checkin_id", checkin.CheckinID),
		zap.String("student_id", studentID),
		zap.String("status", checkin.Status),
		zap.Float64("distance", checkin.Distance),
	)

	// 记录已提交，软失败：向调用方报告超范围
	if outOfRange != nil {
		return nil, outOfRange
	}

	resp := dto.NewCheckinResponse(checkin)
	resp.LateMinutes = late
	return &resp, nil
}

func (s *checkinService) List(ctx context.Context, req *dto.CheckinListRequest, callerID, callerRole string) ([]dto.CheckinResponse, int64, error) {
	filter := repository.CheckinFilter{
		StudentID:  req.StudentID,
		PositionID: req.PositionID,
		Status:     req.Status,
		Offset:     (req.Page - 1) * req.PageSize,
		Limit:      req.PageSize,
	}
	if callerRole == model.RoleStudent {
		filter.StudentID = callerID
	}
	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return nil, 0, err
		}
		filter.StartDate = &start
	}
	if req.EndDate != "" {
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return nil, 0, err
		}
		filter.EndDate = &end
	}

	checkins, total, err := s.repo.Checkin.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询签到记录失败", zap.Error(err))
		return nil, 0, err
	}

	responses := make([]dto.CheckinResponse, 0, len(checkins))
	for i := range checkins {
		responses = append(responses, dto.NewCheckinResponse(&checkins[i]))
	}
	return responses, total, nil
}

func (s *checkinService) Statistics(ctx context.Context, req *dto.CheckinStatisticsRequest, callerID, callerRole string) (*dto.CheckinStatisticsResponse, error) {
	studentID := req.StudentID
	if callerRole == model.RoleStudent {
		studentID = callerID
	}

	base := repository.CheckinFilter{StudentID: studentID, PositionID: req.PositionID}

	total, err := s.repo.Checkin.Count(ctx, base)
	if err != nil {
		return nil, err
	}

	normalFilter := base
	normalFilter.Status = model.CheckinNormal
	normal, err := s.repo.Checkin.Count(ctx, normalFilter)
	if err != nil {
		return nil, err
	}

	abnormalFilter := base
	abnormalFilter.Status = model.CheckinAbnormal
	abnormal, err := s.repo.Checkin.Count(ctx, abnormalFilter)
	if err != nil {
		return nil, err
	}

	rate := 0.0
	if s.cfg.Checkin.TotalWorkDays > 0 {
		rate = round2(float64(normal) / float64(s.cfg.Checkin.TotalWorkDays) * 100)
	}

	return &dto.CheckinStatisticsResponse{
		Total:          total,
		NormalCount:    normal,
		AbnormalCount:  abnormal,
		AttendanceRate: rate,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
