package repository

import (
	"context"

	"dnaarchive/internal/model"

	"gorm.io/gorm"
)

type SampleRepository interface {
	Create(ctx context.Context, sample *model.DNASample) error
	Update(ctx context.Context, sample *model.DNASample) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.DNASample, error)
	List(ctx context.Context, caseID uint, search string, page, limit int) ([]model.DNASample, int64, error)
}

type sampleRepository struct {
	db *gorm.DB
}

func NewSampleRepository(db *gorm.DB) SampleRepository {
	return &sampleRepository{db: db}
}

func (r *sampleRepository) Create(ctx context.Context, sample *model.DNASample) error {
	return GetDB(ctx, r.db).Omit("Case", "Officer", "Location", "Movements").Create(sample).Error
}

func (r *sampleRepository) Update(ctx context.Context, sample *model.DNASample) error {
	return GetDB(ctx, r.db).Omit("Case", "Officer", "Location", "Movements").Save(sample).Error
}

func (r *sampleRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Where("sample_id = ?", id).Delete(&model.DNASample{}).Error
}

func (r *sampleRepository) FindByID(ctx context.Context, id uint) (*model.DNASample, error) {
	var sample model.DNASample
	if err := GetDB(ctx, r.db).
		Preload("Case.Station").Preload("Officer").Preload("Location").
		Preload("Movements", func(db *gorm.DB) *gorm.DB { return db.Order("date desc") }).
		First(&sample, "sample_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sample, nil
}

func (r *sampleRepository) List(ctx context.Context, caseID uint, search string, page, limit int) ([]model.DNASample, int64, error) {
	var samples []model.DNASample
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
	if err := db.Model(&model.DNASample{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Scopes(scope).Preload("Case.Station").Preload("Officer").Preload("Location").
		Order("sample_id desc").Offset(offset).Limit(limit).Find(&samples).Error; err != nil {
		return nil, 0, err
	}

	return samples, total, nil
}
