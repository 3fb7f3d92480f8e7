package repository

import (
	"context"
	"fmt"
	"time"

	"dnaarchive/internal/model"

	"gorm.io/gorm"
)

type StatisticsRepository interface {
	CountAll(ctx context.Context, m interface{}) (int64, error)
	CountExpiredSamples(ctx context.Context, now time.Time) (int64, error)
	CountOpenReportMovements(ctx context.Context) (int64, error)
	CountOverdueMovements(ctx context.Context, now time.Time) (int64, error)
	CaseTypeDistribution(ctx context.Context) ([]model.CaseTypeCount, error)
	StorageOccupancy(ctx context.Context) ([]StorageOccupancyRow, error)
	MonthlySampleIntake(ctx context.Context, since time.Time) ([]model.MonthlyTrend, error)
	UserActivity(ctx context.Context) ([]model.UserActivity, error)
}

// StorageOccupancyRow joins a location with the number of items it holds
type StorageOccupancyRow struct {
	model.StorageLocation
	SampleCount int64
	ReportCount int64
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) CountAll(ctx context.Context, m interface{}) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(m).Count(&n).Error
	return n, err
}

func (r *statisticsRepository) CountExpiredSamples(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.DNASample{}).Where("expiry_date < ?", now).Count(&n).Error
	return n, err
}

func (r *statisticsRepository) CountOpenReportMovements(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ReportMovement{}).
		Where("action_type IN ? AND returned_date IS NULL", []string{model.MovementOut, model.MovementCheckOut}).
		Count(&n).Error
	return n, err
}

func (r *statisticsRepository) CountOverdueMovements(ctx context.Context, now time.Time) (int64, error) {
	var samples, reports int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.SampleMovement{}).Scopes(overdueScope(now)).Count(&samples).Error; err != nil {
		return 0, err
	}
	if err := db.Model(&model.ReportMovement{}).Scopes(overdueScope(now)).Count(&reports).Error; err != nil {
		return 0, err
	}
	return samples + reports, nil
}

func (r *statisticsRepository) CaseTypeDistribution(ctx context.Context) ([]model.CaseTypeCount, error) {
	var rows []model.CaseTypeCount
	if err := r.db.WithContext(ctx).Model(&model.Case{}).
		Select("case_type as type, COUNT(case_id) as count").
		Group("case_type").
		Order("count DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query case types: %w", err)
	}
	return rows, nil
}

func (r *statisticsRepository) StorageOccupancy(ctx context.Context) ([]StorageOccupancyRow, error) {
	var rows []StorageOccupancyRow
	if err := r.db.WithContext(ctx).Table("storage_locations").
		Select(`storage_locations.*,
			(SELECT COUNT(*) FROM dna_samples WHERE dna_samples.storage_location_id = storage_locations.location_id) as sample_count,
			(SELECT COUNT(*) FROM reports WHERE reports.storage_location_id = storage_locations.location_id) as report_count`).
		Order("storage_locations.location_id asc").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query storage occupancy: %w", err)
	}
	return rows, nil
}

func (r *statisticsRepository) MonthlySampleIntake(ctx context.Context, since time.Time) ([]model.MonthlyTrend, error) {
	var rows []model.MonthlyTrend
	if err := r.db.WithContext(ctx).Model(&model.DNASample{}).
		Select("to_char(date_trunc('month', received_date), 'YYYY-MM') as month, COUNT(sample_id) as samples").
		Where("received_date >= ?", since).
		Group("month").
		Order("month asc").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query monthly intake: %w", err)
	}
	return rows, nil
}

func (r *statisticsRepository) UserActivity(ctx context.Context) ([]model.UserActivity, error) {
	var rows []model.UserActivity
	if err := r.db.WithContext(ctx).Table("users").
		Select(`users.user_id, users.name,
			(SELECT COUNT(*) FROM dna_samples WHERE dna_samples.scientific_officer_id = users.user_id) as samples,
			(SELECT COUNT(*) FROM reports WHERE reports.scientific_officer_id = users.user_id) as reports,
			(SELECT COUNT(*) FROM audit_trails WHERE audit_trails.performed_by = users.user_id) as activities`).
		Order("activities DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query user activity: %w", err)
	}
	return rows, nil
}
