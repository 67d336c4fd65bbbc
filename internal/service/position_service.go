package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ll861181031/shixi-guanli-xitong/internal/dto"
	"github.com/ll861181031/shixi-guanli-xitong/internal/model"
	"github.com/ll861181031/shixi-guanli-xitong/internal/repository"
)

// ── 岗位模块业务错误 ──

var (
	ErrPositionNotFound  = errors.New("岗位不存在")
	ErrPositionForbidden = errors.New("无权管理此岗位")
	ErrCapacityTooSmall  = errors.New("容量不能小于已录取人数")
)

// PositionService 岗位业务接口
type PositionService interface {
	// 发布岗位（教师/管理员）
	Create(ctx context.Context, req *dto.CreatePositionRequest, publisherID string) (*dto.PositionResponse, error)
	// 更新岗位，仅发布者或管理员可操作
	Update(ctx context.Context, positionID string, req *dto.UpdatePositionRequest, callerID, callerRole string) (*dto.PositionResponse, error)
	// 岗位列表
	List(ctx context.Context, req *dto.PositionListRequest) ([]dto.PositionResponse, int64, error)
	// 岗位详情
	GetByID(ctx context.Context, positionID string) (*dto.PositionResponse, error)
}

type positionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPositionService 创建 PositionService 实例
func NewPositionService(repo *repository.Repository, logger *zap.Logger) PositionService {
	return &positionService{repo: repo, logger: logger}
}

func (s *positionService) Create(ctx context.Context, req *dto.CreatePositionRequest, publisherID string) (*dto.PositionResponse, error) {
	position := &model.Position{
		Title:         req.Title,
		CompanyName:   req.CompanyName,
		Description:   req.Description,
		Requirements:  req.Requirements,
		Location:      req.Location,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		CheckinRadius: req.CheckinRadius,
		Capacity:      req.Capacity,
		Status:        model.PositionOpen,
		PublisherID:   publisherID,
	}
	if err := s.repo.Position.Create(ctx, position); err != nil {
		s.logger.Error("创建岗位失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("岗位发布成功",
		zap.String("position_id", position.PositionID),
		zap.String("publisher_id", publisherID),
	)

	resp := dto.NewPositionResponse(position)
	return &resp, nil
}

func (s *positionService) Update(ctx context.Context, positionID string, req *dto.UpdatePositionRequest, callerID, callerRole string) (*dto.PositionResponse, error) {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		position, err := tx.Position.GetByIDForUpdate(ctx, positionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPositionNotFound
			}
			return err
		}

		if callerRole != model.RoleAdmin && position.PublisherID != callerID {
			return ErrPositionForbidden
		}

		if req.Title != nil {
			position.Title = *req.Title
		}
		if req.CompanyName != nil {
			position.CompanyName = *req.CompanyName
		}
		if req.Description != nil {
			position.Description = *req.Description
		}
		if req.Requirements != nil {
			position.Requirements = *req.Requirements
		}
		if req.Location != nil {
			position.Location = *req.Location
		}
		if req.Latitude != nil {
			position.Latitude = *req.Latitude
		}
		if req.Longitude != nil {
			position.Longitude = *req.Longitude
		}
		if req.CheckinRadius != nil {
			position.CheckinRadius = req.CheckinRadius
		}
		if req.Capacity != nil {
			// 容量不可压到已录取人数之下
			if *req.Capacity < position.PlacedCount {
				return ErrCapacityTooSmall
			}
			position.Capacity = *req.Capacity
		}
		if req.Status != nil {
			position.Status = *req.Status
		}
		// 容量调整后同步满员状态
		if position.Status == model.PositionFull && position.PlacedCount < position.Capacity {
			position.Status = model.PositionOpen
		}
		if position.PlacedCount >= position.Capacity && position.Status == model.PositionOpen {
			position.Status = model.PositionFull
		}

		return tx.Position.Update(ctx, position)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("岗位更新成功", zap.String("position_id", positionID))
	return s.GetByID(ctx, positionID)
}

func (s *positionService) List(ctx context.Context, req *dto.PositionListRequest) ([]dto.PositionResponse, int64, error) {
	filter := repository.PositionFilter{
		Status:  req.Status,
		Keyword: req.Keyword,
		Offset:  (req.Page - 1) * req.PageSize,
		Limit:   req.PageSize,
	}

	positions, total, err := s.repo.Position.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询岗位列表失败", zap.Error(err))
		return nil, 0, err
	}

	responses := make([]dto.PositionResponse, 0, len(positions))
	for i := range positions {
		responses = append(responses, dto.NewPositionResponse(&positions[i]))
	}
	return responses, total, nil
}

func (s *positionService) GetByID(ctx context.Context, positionID string) (*dto.PositionResponse, error) {
	position, err := s.repo.Position.GetByID(ctx, positionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPositionNotFound
		}
		return nil, err
	}
	resp := dto.NewPositionResponse(position)
	return &resp, nil
}
