package repository

import (
	"context"

	"dnaarchive/internal/model"

	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	Update(ctx context.Context, report *model.Report) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Report, error)
	List(ctx context.Context, caseID uint, search string, page, limit int) ([]model.Report, int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	return GetDB(ctx, r.db).Omit("Case", "Officer", "Location", "Movements").Create(report).Error
}

func (r *reportRepository) Update(ctx context.Context, report *model.Report) error {
	return GetDB(ctx, r.db).Omit("Case", "Officer", "Location", "Movements").Save(report).Error
}

func (r *reportRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Where("report_id = ?", id).Delete(&model.Report{}).Error
}

func (r *reportRepository) FindByID(ctx context.Context, id uint) (*model.Report, error) {
	var report model.Report
	if err := GetDB(ctx, r.db).
		Preload("Case.Station").Preload("Officer").Preload("Location").
		Preload("Movements", func(db *gorm.DB) *gorm.DB { return db.Order("date desc") }).
		First(&report, "report_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, caseID uint, search string, page, limit int) ([]model.Report, int64, error) {
	var reports []model.Report
	var total int64

	scope := func(db *gorm.DB) *gorm.DB {
		if caseID != 0 {
			db = db.Where("case_id = ?", caseID)
		}
		if search != "" {
			db = db.Where("barcode ILIKE ? OR lab_register_number ILIKE ?", "%"+search+"%", "%"+search+"%")
		}
		return db
	}

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Report{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Scopes(scope).Preload("Case.Station").Preload("Officer").Preload("Location").
		Order("report_id desc").Offset(offset).Limit(limit).Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}
