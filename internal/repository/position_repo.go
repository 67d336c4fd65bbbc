package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ll861181031/shixi-guanli-xitong/internal/model"
)

// PositionFilter 岗位列表查询条件
type PositionFilter struct {
	Status  string
	Keyword string // 标题/公司名模糊匹配
	Offset  int
	Limit   int
}

// PositionRepository 实习岗位数据访问接口
type PositionRepository interface {
	Create(ctx context.Context, position *model.Position) error
	GetByID(ctx context.Context, id string) (*model.Position, error)
	// GetByIDForUpdate 使用 SELECT ... FOR UPDATE 行级锁查询岗位，
	// 审批的容量检查-递增必须持有岗位行锁，防止并发审批超员。
	// 必须在事务内（Repository.Transaction）调用
	GetByIDForUpdate(ctx context.Context, id string) (*model.Position, error)
	List(ctx context.Context, filter PositionFilter) ([]model.Position, int64, error)
	Update(ctx context.Context, position *model.Position) error
	// UpdatePlacement 写入名额占用数与状态，仅审批事务内调用
	UpdatePlacement(ctx context.Context, positionID string, placedCount int, status string) error
}

type positionRepo struct {
	db *gorm.DB
}

// NewPositionRepo 创建 PositionRepository 实例
func NewPositionRepo(db *gorm.DB) PositionRepository {
	return &positionRepo{db: db}
}

func (r *positionRepo) Create(ctx context.Context, position *model.Position) error {
	return r.db.WithContext(ctx).Create(position).Error
}

func (r *positionRepo) GetByID(ctx context.Context, id string) (*model.Position, error) {
	var position model.Position
	err := r.db.WithContext(ctx).
		Preload("Publisher").
		Where("position_id = ?", id).
		First(&position).Error
	if err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *positionRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Position, error) {
	var position model.Position
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("position_id = ?", id).
		First(&position).Error
	if err != nil {
		return nil, err
	}
	return &position, nil
}

func (r *positionRepo) List(ctx context.Context, filter PositionFilter) ([]model.Position, int64, error) {
	var positions []model.Position
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Position{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		db = db.Where("title ILIKE ? OR company_name ILIKE ?", like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Publisher").
		Offset(filter.Offset).Limit(filter.Limit).
		Order("created_at DESC").
		Find(&positions).Error
	return positions, total, err
}

func (r *positionRepo) Update(ctx context.Context, position *model.Position) error {
	return r.db.WithContext(ctx).
		Model(&model.Position{}).
		Where("position_id = ?", position.PositionID).
		Updates(map[string]interface{}{
			"title":          position.Title,
			"company_name":   position.CompanyName,
			"description":    position.Description,
			"requirements":   position.Requirements,
			"location":       position.Location,
			"latitude":       position.Latitude,
			"longitude":      position.Longitude,
			"checkin_radius": position.CheckinRadius,
			"capacity":       position.Capacity,
			"status":         position.Status,
		}).Error
}

func (r *positionRepo) UpdatePlacement(ctx context.Context, positionID string, placedCount int, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Position{}).
		Where("position_id = ?", positionID).
		Updates(map[string]interface{}{
			"placed_count": placedCount,
			"status":       status,
		}).Error
}
