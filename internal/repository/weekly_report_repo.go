package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ll861181031/shixi-guanli-xitong/internal/model"
)

// WeeklyReportFilter 周报列表查询条件
type WeeklyReportFilter struct {
	StudentID  string
	PositionID string
	Status     string
	Offset     int
	Limit      int
}

// WeeklyReportRepository 周报数据访问接口
type WeeklyReportRepository interface {
	Create(ctx context.Context, report *model.WeeklyReport) error
	GetByID(ctx context.Context, id string) (*model.WeeklyReport, error)
	GetByStudentPositionWeek(ctx context.Context, studentID, positionID string, weekNumber int) (*model.WeeklyReport, error)
	List(ctx context.Context, filter WeeklyReportFilter) ([]model.WeeklyReport, int64, error)
	CountByStudentPosition(ctx context.Context, studentID, positionID string) (int64, error)
	// AvgScoreByStudentPosition 周报平均分（SQL AVG，忽略未评分记录）；无已评分周报时返回0
	AvgScoreByStudentPosition(ctx context.Context, studentID, positionID string) (float64, error)
	// UpdateReview 写入批改结果字段（评分/意见/批改人/状态/时间）
	UpdateReview(ctx context.Context, report *model.WeeklyReport) error
}

type weeklyReportRepo struct {
	db *gorm.DB
}

// NewWeeklyReportRepo 创建 WeeklyReportRepository 实例
func NewWeeklyReportRepo(db *gorm.DB) WeeklyReportRepository {
	return &weeklyReportRepo{db: db}
}

func (r *weeklyReportRepo) Create(ctx context.Context, report *model.WeeklyReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *weeklyReportRepo) GetByID(ctx context.Context, id string) (*model.WeeklyReport, error) {
	var report model.WeeklyReport
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Position").
		Preload("Reviewer").
		Where("report_id = ?", id).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *weeklyReportRepo) GetByStudentPositionWeek(ctx context.Context, studentID, positionID string, weekNumber int) (*model.WeeklyReport, error) {
	var report model.WeeklyReport
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND position_id = ? AND week_number = ?",
			studentID, positionID, weekNumber).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *weeklyReportRepo) List(ctx context.Context, filter WeeklyReportFilter) ([]model.WeeklyReport, int64, error) {
	var reports []model.WeeklyReport
	var total int64

	db := r.db.WithContext(ctx).Model(&model.WeeklyReport{})
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
		Order("week_number DESC, created_at DESC").
		Find(&reports).Error
	return reports, total, err
}

func (r *weeklyReportRepo) CountByStudentPosition(ctx context.Context, studentID, positionID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.WeeklyReport{}).
		Where("student_id = ? AND position_id = ?", studentID, positionID).
		Count(&count).Error
	return count, err
}

func (r *weeklyReportRepo) AvgScoreByStudentPosition(ctx context.Context, studentID, positionID string) (float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).
		Model(&model.WeeklyReport{}).
		Where("student_id = ? AND position_id = ?", studentID, positionID).
		Select("AVG(score)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func (r *weeklyReportRepo) UpdateReview(ctx context.Context, report *model.WeeklyReport) error {
	return r.db.WithContext(ctx).
		Model(&model.WeeklyReport{}).
		Where("report_id = ?", report.ReportID).
		Updates(map[string]interface{}{
			"status":      report.Status,
			"score":       report.Score,
			"comment":     report.Comment,
			"reviewer_id": report.ReviewerID,
			"reviewed_at": report.ReviewedAt,
		}).Error
}
