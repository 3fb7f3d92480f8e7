package repository

import (
	"context"

	"dnaarchive/internal/model"

	"gorm.io/gorm"
)

type StationRepository interface {
	Create(ctx context.Context, station *model.PoliceStation) error
	FindByID(ctx context.Context, id uint) (*model.PoliceStation, error)
	ListAll(ctx context.Context) ([]model.PoliceStation, error)
}

type stationRepository struct {
	db *gorm.DB
}

func NewStationRepository(db *gorm.DB) StationRepository {
	return &stationRepository{db: db}
}

func (r *stationRepository) Create(ctx context.Context, station *model.PoliceStation) error {
	return GetDB(ctx, r.db).Create(station).Error
}

func (r *stationRepository) FindByID(ctx context.Context, id uint) (*model.PoliceStation, error) {
	var station model.PoliceStation
	if err := GetDB(ctx, r.db).First(&station, "station_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &station, nil
}

func (r *stationRepository) ListAll(ctx context.Context) ([]model.PoliceStation, error) {
	var stations []model.PoliceStation
	if err := GetDB(ctx, r.db).Order("name asc").Find(&stations).Error; err != nil {
		return nil, err
	}
	return stations, nil
}
