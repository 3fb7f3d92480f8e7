package service

import (
	"context"
	"testing"
	"time"

	"dnaarchive/internal/model"
	"dnaarchive/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStats struct {
	counts    map[string]int64
	occupancy []repository.StorageOccupancyRow
	since     time.Time
}

func (s *stubStats) CountAll(_ context.Context, m interface{}) (int64, error) {
	switch m.(type) {
	case *model.Case:
		return s.counts["cases"], nil
	case *model.DNASample:
		return s.counts["samples"], nil
	case *model.Report:
		return s.counts["reports"], nil
	case *model.User:
		return s.counts["users"], nil
	}
	return 0, nil
}
func (s *stubStats) CountExpiredSamples(context.Context, time.Time) (int64, error) {
	return s.counts["expired"], nil
}
func (s *stubStats) CountOpenReportMovements(context.Context) (int64, error) {
	return s.counts["open"], nil
}
func (s *stubStats) CountOverdueMovements(context.Context, time.Time) (int64, error) {
	return s.counts["overdue"], nil
}
func (s *stubStats) CaseTypeDistribution(context.Context) ([]model.CaseTypeCount, error) {
	return []model.CaseTypeCount{{Type: "Homicide", Count: 2}}, nil
}
func (s *stubStats) StorageOccupancy(context.Context) ([]repository.StorageOccupancyRow, error) {
	return s.occupancy, nil
}
func (s *stubStats) MonthlySampleIntake(_ context.Context, since time.Time) ([]model.MonthlyTrend, error) {
	s.since = since
	return []model.MonthlyTrend{{Month: "2024-01", Samples: 4}}, nil
}
func (s *stubStats) UserActivity(context.Context) ([]model.UserActivity, error) {
	return []model.UserActivity{{UserID: 1, Name: "Admin", Activities: 12}}, nil
}

type stubAuditRepo struct {
	recent int64
}

func (s *stubAuditRepo) Create(context.Context, *model.AuditTrail) error { return nil }
func (s *stubAuditRepo) List(context.Context, repository.AuditFilter, int, int) ([]model.AuditTrail, int64, error) {
	return nil, 0, nil
}
func (s *stubAuditRepo) CountSince(context.Context, time.Time) (int64, error) { return s.recent, nil }

func TestDashboard(t *testing.T) {
	stats := &stubStats{counts: map[string]int64{"reports": 5, "samples": 9, "expired": 2, "open": 1, "overdue": 3}}
	res, err := NewStatisticsService(stats, &stubAuditRepo{}).Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DashboardCounts{Reports: 5, Samples: 9, ExpiredSamples: 2, OpenReportMoves: 1, OverdueMovements: 3}, *res)
}

func TestAnalytics(t *testing.T) {
	capacity := 8
	stats := &stubStats{
		counts: map[string]int64{"cases": 4, "samples": 9, "reports": 5, "users": 3, "overdue": 1},
		occupancy: []repository.StorageOccupancyRow{
			{StorageLocation: model.StorageLocation{ID: 1, Type: model.StorageTypeSample, FreezerUnit: strPtr("F-01"), Capacity: &capacity}, SampleCount: 3, ReportCount: 0},
			{StorageLocation: model.StorageLocation{ID: 2, Type: model.StorageTypeReport, Cabinet: strPtr("C-1")}, ReportCount: 5},
		},
	}
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return now }
	defer func() { timeNow = time.Now }()

	res, err := NewStatisticsService(stats, &stubAuditRepo{recent: 17}).Analytics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.AnalyticsOverview{TotalCases: 4, TotalSamples: 9, TotalReports: 5, TotalUsers: 3, PendingReturns: 1, RecentActivity: 17}, res.Overview)
	require.Len(t, res.StorageUtilization, 2)

	first := res.StorageUtilization[0]
	assert.Equal(t, "sample F-01", first.Location)
	assert.True(t, first.Utilization.Valid)
	assert.True(t, first.Utilization.Decimal.Equal(decimal.RequireFromString("0.375")))

	second := res.StorageUtilization[1]
	assert.Equal(t, int64(5), second.Total)
	assert.False(t, second.Utilization.Valid, "no capacity means no ratio")

	assert.Equal(t, time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), stats.since)
	assert.Equal(t, now, res.GeneratedAt)
}
