package service

import (
	"context"
	"fmt"
	"time"

	"dnaarchive/internal/model"
	"dnaarchive/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	recentActivityWindow = 7 * 24 * time.Hour
	trendMonths          = 12
)

type StatisticsService interface {
	Dashboard(ctx context.Context) (*model.DashboardCounts, error)
	Analytics(ctx context.Context) (*model.AnalyticsResponse, error)
}

type statisticsService struct {
	stats repository.StatisticsRepository
	audit repository.AuditRepository
}

func NewStatisticsService(stats repository.StatisticsRepository, audit repository.AuditRepository) StatisticsService {
	return &statisticsService{stats: stats, audit: audit}
}

func (s *statisticsService) Dashboard(ctx context.Context) (*model.DashboardCounts, error) {
	now := timeNow()
	var res model.DashboardCounts
	var err error

	if res.Reports, err = s.stats.CountAll(ctx, &model.Report{}); err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}
	if res.Samples, err = s.stats.CountAll(ctx, &model.DNASample{}); err != nil {
		return nil, fmt.Errorf("failed to count samples: %w", err)
	}
	if res.ExpiredSamples, err = s.stats.CountExpiredSamples(ctx, now); err != nil {
		return nil, fmt.Errorf("failed to count expired samples: %w", err)
	}
	if res.OpenReportMoves, err = s.stats.CountOpenReportMovements(ctx); err != nil {
		return nil, fmt.Errorf("failed to count open report movements: %w", err)
	}
	if res.OverdueMovements, err = s.stats.CountOverdueMovements(ctx, now); err != nil {
		return nil, fmt.Errorf("failed to count overdue movements: %w", err)
	}
	return &res, nil
}

func (s *statisticsService) Analytics(ctx context.Context) (*model.AnalyticsResponse, error) {
	now := timeNow()
	res := &model.AnalyticsResponse{GeneratedAt: now}
	o := &res.Overview
	var err error

	counts := []struct {
		dst   *int64
		model interface{}
	}{
		{&o.TotalCases, &model.Case{}},
		{&o.TotalSamples, &model.DNASample{}},
		{&o.TotalReports, &model.Report{}},
		{&o.TotalUsers, &model.User{}},
	}
	for _, c := range counts {
		if *c.dst, err = s.stats.CountAll(ctx, c.model); err != nil {
			return nil, fmt.Errorf("failed to count totals: %w", err)
		}
	}
	if o.PendingReturns, err = s.stats.CountOverdueMovements(ctx, now); err != nil {
		return nil, fmt.Errorf("failed to count overdue movements: %w", err)
	}
	if o.RecentActivity, err = s.audit.CountSince(ctx, now.Add(-recentActivityWindow)); err != nil {
		return nil, fmt.Errorf("failed to count recent activity: %w", err)
	}

	if res.CaseTypes, err = s.stats.CaseTypeDistribution(ctx); err != nil {
		return nil, err
	}

	rows, err := s.stats.StorageOccupancy(ctx)
	if err != nil {
		return nil, err
	}
	res.StorageUtilization = make([]model.StorageUtilization, 0, len(rows))
	for _, row := range rows {
		res.StorageUtilization = append(res.StorageUtilization, utilization(row))
	}

	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(trendMonths - 1), 0)
	if res.MonthlyTrends, err = s.stats.MonthlySampleIntake(ctx, since); err != nil {
		return nil, err
	}

	if res.UserActivity, err = s.stats.UserActivity(ctx); err != nil {
		return nil, err
	}
	return res, nil
}

// utilization is items/capacity rounded to 4 places; null when capacity is unset
func utilization(row repository.StorageOccupancyRow) model.StorageUtilization {
	total := row.SampleCount + row.ReportCount
	u := model.StorageUtilization{
		LocationID: row.ID,
		Location:   row.Label(),
		Samples:    row.SampleCount,
		Reports:    row.ReportCount,
		Total:      total,
	}
	if row.Capacity != nil && *row.Capacity > 0 {
		u.Utilization = decimal.NullDecimal{
			Decimal: decimal.NewFromInt(total).Div(decimal.NewFromInt(int64(*row.Capacity))).Round(4),
			Valid:   true,
		}
	}
	return u
}
