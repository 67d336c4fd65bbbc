package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ll861181031/shixi-guanli-xitong/internal/model"
)

// CheckinFilter 签到记录查询条件
type CheckinFilter struct {
	StudentID  string
	PositionID string
	Status     string
	StartDate  *time.Time // 按签到日期过滤（含）
	EndDate    *time.Time // 按签到日期过滤（含）
	Offset     int
	Limit      int
}

// CheckinRepository 签到记录数据访问接口
type CheckinRepository interface {
	// Create 创建签到记录。
	// （学生, 岗位, 日期）唯一约束冲突时返回 gorm.ErrDuplicatedKey，
	// 用于兜底同日并发签到竞争
	Create(ctx context.Context, checkin *model.Checkin) error
	GetByStudentPositionDate(ctx context.Context, studentID, positionID string, date time.Time) (*model.Checkin, error)
	List(ctx context.Context, filter CheckinFilter) ([]model.Checkin, int64, error)
	Count(ctx context.Context, filter CheckinFilter) (int64, error)
}

type checkinRepo struct {
	db *gorm.DB
}

// NewCheckinRepo 创建 CheckinRepository 实例
func NewCheckinRepo(db *gorm.DB) CheckinRepository {
	return &checkinRepo{db: db}
}

func (r *checkinRepo) Create(ctx context.Context, checkin *model.Checkin) error {
	return r.db.WithContext(ctx).Create(checkin).Error
}

func (r *checkinRepo) GetByStudentPositionDate(ctx context.Context, studentID, positionID string, date time.Time) (*model.Checkin, error) {
	var checkin model.Checkin
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND position_id = ? AND checkin_date = ?",
			studentID, positionID, date.Format("2006-01-02")).
		First(&checkin).Error
	if err != nil {
		return nil, err
	}
	return &checkin, nil
}

func (r *checkinRepo) List(ctx context.Context, filter CheckinFilter) ([]model.Checkin, int64, error) {
	var checkins []model.Checkin
	var total int64

	db := r.applyFilter(r.db.WithContext(ctx).Model(&model.Checkin{}), filter)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Student").
		Preload("Position").
		Offset(filter.Offset).Limit(filter.Limit).
		Order("checkin_time DESC").
		Find(&checkins).Error
	return checkins, total, err
}

func (r *checkinRepo) Count(ctx context.Context, filter CheckinFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&model.Checkin{}), filter).
		Count(&count).Error
	return count, err
}

func (r *checkinRepo) applyFilter(db *gorm.DB, filter CheckinFilter) *gorm.DB {
	if filter.StudentID != "" {
		db = db.Where("student_id = ?", filter.StudentID)
	}
	if filter.PositionID != "" {
		db = db.Where("position_id = ?", filter.PositionID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.StartDate != nil {
		db = db.Where("checkin_date >= ?", filter.StartDate.Format("2006-01-02"))
	}
	if filter.EndDate != nil {
		db = db.Where("checkin_date <= ?", filter.EndDate.Format("2006-01-02"))
	}
	return db
}
