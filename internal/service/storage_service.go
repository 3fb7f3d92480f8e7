package service

import (
	"context"

	"dnaarchive/internal/model"
	"dnaarchive/internal/repository"

	"github.com/shopspring/decimal"
)

type StorageLocationRequest struct {
	Type                string              `json:"type" binding:"required,oneof=report sample"`
	Cabinet             *string             `json:"cabinet"`
	Rack                *string             `json:"rack"`
	Shelf               *string             `json:"shelf"`
	FreezerUnit         *string             `json:"freezer_unit"`
	TemperatureZone     *string             `json:"temperature_zone"`
	TemperatureSetpoint decimal.NullDecimal `json:"temperature_setpoint" swaggertype:"number"`
	Capacity            *int                `json:"capacity" binding:"omitempty,min=1"`
}

// Freezers below this are outside what the archive's units support
var minSetpoint = decimal.NewFromInt(-196)

type StorageService interface {
	CreateLocation(ctx context.Context, req StorageLocationRequest) (*model.StorageLocation, error)
	GetLocation(ctx context.Context, id uint) (*model.StorageLocation, error)
	ListLocations(ctx context.Context, locationType string) ([]model.StorageLocation, error)
	UpdateLocation(ctx context.Context, id uint, req StorageLocationRequest) (*model.StorageLocation, error)
	DeleteLocation(ctx context.Context, id uint) error
}

type storageService struct {
	repo repository.StorageRepository
}

func NewStorageService(repo repository.StorageRepository) StorageService {
	return &storageService{repo: repo}
}

func applyLocation(loc *model.StorageLocation, req StorageLocationRequest) error {
	if req.Type != model.StorageTypeReport && req.Type != model.StorageTypeSample {
		return invalid("type must be %q or %q", model.StorageTypeReport, model.StorageTypeSample)
	}
	if req.TemperatureSetpoint.Valid {
		if req.Type != model.StorageTypeSample {
			return invalid("only sample storage has a temperature setpoint")
		}
		if req.TemperatureSetpoint.Decimal.LessThan(minSetpoint) {
			return invalid("temperature_setpoint below %s°C", minSetpoint)
		}
	}
	loc.Type = req.Type
	loc.Cabinet = req.Cabinet
	loc.Rack = req.Rack
	loc.Shelf = req.Shelf
	loc.FreezerUnit = req.FreezerUnit
	loc.TemperatureZone = req.TemperatureZone
	loc.TemperatureSetpoint = req.TemperatureSetpoint
	loc.Capacity = req.Capacity
	return nil
}

func (s *storageService) CreateLocation(ctx context.Context, req StorageLocationRequest) (*model.StorageLocation, error) {
	loc := &model.StorageLocation{}
	if err := applyLocation(loc, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, loc); err != nil {
		return nil, translate(err, "storage location")
	}
	return loc, nil
}

func (s *storageService) GetLocation(ctx context.Context, id uint) (*model.StorageLocation, error) {
	loc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "storage location")
	}
	return loc, nil
}

func (s *storageService) ListLocations(ctx context.Context, locationType string) ([]model.StorageLocation, error) {
	return s.repo.List(ctx, locationType)
}

func (s *storageService) UpdateLocation(ctx context.Context, id uint, req StorageLocationRequest) (*model.StorageLocation, error) {
	loc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "storage location")
	}
	if req.Type != loc.Type {
		n, err := s.repo.CountOccupants(ctx, id)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, conflict("cannot change type of a location holding %d items", n)
		}
	}
	if err := applyLocation(loc, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, loc); err != nil {
		return nil, translate(err, "storage location")
	}
	return loc, nil
}

func (s *storageService) DeleteLocation(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return translate(err, "storage location")
	}
	n, err := s.repo.CountOccupants(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return conflict("storage location still holds %d items", n)
	}
	return translate(s.repo.Delete(ctx, id), "storage location")
}
