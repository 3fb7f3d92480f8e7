package repository

import (
	"context"

	"dnaarchive/internal/model"

	"gorm.io/gorm"
)

type StorageRepository interface {
	Create(ctx context.Context, loc *model.StorageLocation) error
	Update(ctx context.Context, loc *model.StorageLocation) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.StorageLocation, error)
	List(ctx context.Context, locationType string) ([]model.StorageLocation, error)
	CountOccupants(ctx context.Context, id uint) (int64, error)
}

type storageRepository struct {
	db *gorm.DB
}

func NewStorageRepository(db *gorm.DB) StorageRepository {
	return &storageRepository{db: db}
}

func (r *storageRepository) Create(ctx context.Context, loc *model.StorageLocation) error {
	return GetDB(ctx, r.db).Create(loc).Error
}

func (r *storageRepository) Update(ctx context.Context, loc *model.StorageLocation) error {
	return GetDB(ctx, r.db).Save(loc).Error
}

func (r *storageRepository) Delete(ctx context.Context, id uint) error {
	return GetDB(ctx, r.db).Where("location_id = ?", id).Delete(&model.StorageLocation{}).Error
}

func (r *storageRepository) FindByID(ctx context.Context, id uint) (*model.StorageLocation, error) {
	var loc model.StorageLocation
	if err := GetDB(ctx, r.db).First(&loc, "location_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *storageRepository) List(ctx context.Context, locationType string) ([]model.StorageLocation, error) {
	var locs []model.StorageLocation
	db := GetDB(ctx, r.db)
	if locationType != "" {
		db = db.Where("type = ?", locationType)
	}
	if err := db.Order("location_id desc").Find(&locs).Error; err != nil {
		return nil, err
	}
	return locs, nil
}

// CountOccupants counts samples and reports currently assigned to the location
func (r *storageRepository) CountOccupants(ctx context.Context, id uint) (int64, error) {
	var samples, reports int64
	db := GetDB(ctx, r.db)
	if err := db.Model(&model.DNASample{}).Where("storage_location_id = ?", id).Count(&samples).Error; err != nil {
		return 0, err
	}
	if err := db.Model(&model.Report{}).Where("storage_location_id = ?", id).Count(&reports).Error; err != nil {
		return 0, err
	}
	return samples + reports, nil
}
