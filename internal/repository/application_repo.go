package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ll861181031/shixi-guanli-xitong/internal/model"
)

// ApplicationFilter 申请列表查询条件
type ApplicationFilter struct {
	StudentID  string
	PositionID string
	Status     string
	Offset     int
	Limit      int
}

// ApplicationRepository 实习申请数据访问接口
type ApplicationRepository interface {
	Create(ctx context.Context, application *model.Application) error
	GetByID(ctx context.Context, id string) (*model.Application, error)
	// GetByIDForUpdate 使用 SELECT ... FOR UPDATE 行级锁查询申请，
	// 防止并发审核同一条申请绕过 pending 状态检查。
	// 必须在事务内（Repository.Transaction）调用
	GetByIDForUpdate(ctx context.Context, id string) (*model.Application, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]model.Application, int64, error)
	GetByStudentAndPosition(ctx context.Context, studentID, positionID string) (*model.Application, error)
	// GetApprovedByStudent 查询学生当前已批准的申请，无则返回 gorm.ErrRecordNotFound
	GetApprovedByStudent(ctx context.Context, studentID string) (*model.Application, error)
	// CountApprovedByStudentExcluding 统计学生除指定申请外的已批准申请数
	CountApprovedByStudentExcluding(ctx context.Context, studentID, excludeID string) (int64, error)
	// UpdateReview 写入审核结果字段（状态/审核人/意见/时间）
	UpdateReview(ctx context.Context, application *model.Application) error
}

type applicationRepo struct {
	db *gorm.DB
}

// NewApplicationRepo 创建 ApplicationRepository 实例
func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, application *model.Application) error {
	return r.db.WithContext(ctx).Create(application).Error
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*model.Application, error) {
	var application model.Application
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Position").
		Preload("Reviewer").
		Where("application_id = ?", id).
		First(&application).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Application, error) {
	var application model.Application
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("application_id = ?", id).
		First(&application).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Application, error) {
	var applications []model.Application
	err := r.db.WithContext(ctx).
		Where("application_id IN ?", ids).
		Find(&applications).Error
	return applications, err
}

func (r *applicationRepo) List(ctx context.Context, filter ApplicationFilter) ([]model.Application, int64, error) {
	var applications []model.Application
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Application{})
	if filter.StudentID != "" {
		db = db.Where("student_id = ?", filter.StudentID)
	}
	if filter.PositionID != "" {
		db = db.Where("position_id = ?", filter.PositionID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Student").
		Preload("Position").
		Preload("Reviewer").
		Offset(filter.Offset).Limit(filter.Limit).
		Order("created_at DESC").
		Find(&applications).Error
	return applications, total, err
}

func (r *applicationRepo) GetByStudentAndPosition(ctx context.Context, studentID, positionID string) (*model.Application, error) {
	var application model.Application
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND position_id = ?", studentID, positionID).
		First(&application).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepo) GetApprovedByStudent(ctx context.Context, studentID string) (*model.Application, error) {
	var application model.Application
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND status = ?", studentID, model.ApplicationApproved).
		First(&application).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepo) CountApprovedByStudentExcluding(ctx context.Context, studentID, excludeID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("student_id = ? AND status = ? AND application_id != ?",
			studentID, model.ApplicationApproved, excludeID).
		Count(&count).Error
	return count, err
}

func (r *applicationRepo) UpdateReview(ctx context.Context, application *model.Application) error {
	return r.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("application_id = ?", application.ApplicationID).
		Updates(map[string]interface{}{
			"status":         application.Status,
			"reviewer_id":    application.ReviewerID,
			"review_comment": application.ReviewComment,
			"reviewed_at":    application.ReviewedAt,
		}).Error
}
