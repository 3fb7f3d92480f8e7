package repository

import (
	"context"
	"time"

	"dnaarchive/internal/model"

	"gorm.io/gorm"
)

type MovementRepository interface {
	CreateSampleMovement(ctx context.Context, m *model.SampleMovement) error
	CreateReportMovement(ctx context.Context, m *model.ReportMovement) error
	FindSampleMovement(ctx context.Context, id uint) (*model.SampleMovement, error)
	FindReportMovement(ctx context.Context, id uint) (*model.ReportMovement, error)
	MarkSampleMovementReturned(ctx context.Context, id uint, at time.Time) (bool, error)
	MarkReportMovementReturned(ctx context.Context, id uint, at time.Time) (bool, error)
	ListSampleMovements(ctx context.Context, overdueOnly bool, now time.Time, page, limit int) ([]model.SampleMovement, int64, error)
	ListReportMovements(ctx context.Context, overdueOnly bool, now time.Time, page, limit int) ([]model.ReportMovement, int64, error)
}

type movementRepository struct {
	db *gorm.DB
}

func NewMovementRepository(db *gorm.DB) MovementRepository {
	return &movementRepository{db: db}
}

// userSummary keeps password hashes out of preloaded performers
func userSummary(db *gorm.DB) *gorm.DB {
	return db.Select("user_id", "name", "email")
}

// overdueScope matches checked-out rows that are past their expected return
func overdueScope(now time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("action_type IN ? AND returned_date IS NULL AND expected_return_date < ?",
			[]string{model.MovementOut, model.MovementCheckOut}, now)
	}
}

func (r *movementRepository) CreateSampleMovement(ctx context.Context, m *model.SampleMovement) error {
	return GetDB(ctx, r.db).Omit("Sample", "User").Create(m).Error
}

func (r *movementRepository) CreateReportMovement(ctx context.Context, m *model.ReportMovement) error {
	return GetDB(ctx, r.db).Omit("Report", "User").Create(m).Error
}

func (r *movementRepository) FindSampleMovement(ctx context.Context, id uint) (*model.SampleMovement, error) {
	var m model.SampleMovement
	if err := GetDB(ctx, r.db).Preload("User", userSummary).First(&m, "movement_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *movementRepository) FindReportMovement(ctx context.Context, id uint) (*model.ReportMovement, error) {
	var m model.ReportMovement
	if err := GetDB(ctx, r.db).Preload("User", userSummary).First(&m, "movement_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// MarkSampleMovementReturned sets returned_date only if it is still empty; false means it was already returned
func (r *movementRepository) MarkSampleMovementReturned(ctx context.Context, id uint, at time.Time) (bool, error) {
	res := GetDB(ctx, r.db).Model(&model.SampleMovement{}).
		Where("movement_id = ? AND returned_date IS NULL", id).
		Update("returned_date", at)
	return res.RowsAffected == 1, res.Error
}

func (r *movementRepository) MarkReportMovementReturned(ctx context.Context, id uint, at time.Time) (bool, error) {
	res := GetDB(ctx, r.db).Model(&model.ReportMovement{}).
		Where("movement_id = ? AND returned_date IS NULL", id).
		Update("returned_date", at)
	return res.RowsAffected == 1, res.Error
}

func (r *movementRepository) ListSampleMovements(ctx context.Context, overdueOnly bool, now time.Time, page, limit int) ([]model.SampleMovement, int64, error) {
	var moves []model.SampleMovement
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.SampleMovement{})
	fetch := db.Preload("Sample.Case").Preload("User", userSummary)
	if overdueOnly {
		query = query.Scopes(overdueScope(now))
		fetch = fetch.Scopes(overdueScope(now))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := fetch.Order("date desc").Offset(offset).Limit(limit).Find(&moves).Error; err != nil {
		return nil, 0, err
	}
	return moves, total, nil
}

func (r *movementRepository) ListReportMovements(ctx context.Context, overdueOnly bool, now time.Time, page, limit int) ([]model.ReportMovement, int64, error) {
	var moves []model.ReportMovement
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.ReportMovement{})
	fetch := db.Preload("Report.Case").Preload("User", userSummary)
	if overdueOnly {
		query = query.Scopes(overdueScope(now))
		fetch = fetch.Scopes(overdueScope(now))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := fetch.Order("date desc").Offset(offset).Limit(limit).Find(&moves).Error; err != nil {
		return nil, 0, err
	}
	return moves, total, nil
}
