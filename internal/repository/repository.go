package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User         UserRepository
	Position     PositionRepository
	Application  ApplicationRepository
	Checkin      CheckinRepository
	WeeklyReport WeeklyReportRepository
	Message      MessageRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		User:         NewUserRepo(db),
		Position:     NewPositionRepo(db),
		Application:  NewApplicationRepo(db),
		Checkin:      NewCheckinRepo(db),
		WeeklyReport: NewWeeklyReportRepo(db),
		Message:      NewMessageRepo(db),
	}
}

// Transaction 在单个数据库事务内执行 fn。
// fn 收到的 Repository 绑定事务连接，fn 返回错误时整个事务回滚。
// 审批的容量检查、批量审核等检查-写入路径必须经由此方法执行。
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	// 无底层连接时（字面量构造的聚合）直接执行 fn
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
