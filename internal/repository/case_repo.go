package repository

import (
	"context"

	"dnaarchive/internal/model"

	"gorm.io/gorm"
)

type CaseRepository interface {
	Create(ctx context.Context, c *model.Case) error
	Update(ctx context.Context, c *model.Case) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Case, error)
	List(ctx context.Context, caseType, search string, page, limit int) ([]model.Case, int64, error)
}

type caseRepository struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) CaseRepository {
	return &caseRepository{db: db}
}

func (r *caseRepository) Create(ctx context.Context, c *model.Case) error {
	return GetDB(ctx, r.db).Omit("Station", "Samples", "Reports").Create(c).Error
}

func (r *caseRepository) Update(ctx context.Context, c *model.Case) error {
	return GetDB(ctx, r.db).Omit("Station", "Samples", "Reports").Save(c).Error
}

func (r *caseRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Where("case_id = ?", id).Delete(&model.Case{}).Error
}

func (r *caseRepository) FindByID(ctx context.Context, id uint) (*model.Case, error) {
	var c model.Case
	if err := GetDB(ctx, r.db).Preload("Station").Preload("Samples").Preload("Reports").
		First(&c, "case_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caseRepository) List(ctx context.Context, caseType, search string, page, limit int) ([]model.Case, int64, error) {
	var cases []model.Case
	var total int64

	scope := func(db *gorm.DB) *gorm.DB {
		if caseType != "" {
			db = db.Where("case_type = ?", caseType)
		}
		if search != "" {
			db = db.Where("police_case_number ILIKE ?", "%"+search+"%")
		}
		return db
	}

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Case{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Scopes(scope).Preload("Station").Preload("Samples").Preload("Reports").
		Order("case_id desc").Offset(offset).Limit(limit).Find(&cases).Error; err != nil {
		return nil, 0, err
	}

	return cases, total, nil
}
