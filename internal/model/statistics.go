package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardCounts is the landing page summary
type DashboardCounts struct {
	Reports          int64 `json:"reports"`
	Samples          int64 `json:"samples"`
	ExpiredSamples   int64 `json:"overdueSamples"`
	OpenReportMoves  int64 `json:"overdueReports"`
	OverdueMovements int64 `json:"overdueMovements"`
}

// AnalyticsOverview aggregates archive-wide totals
type AnalyticsOverview struct {
	TotalCases     int64 `json:"totalCases"`
	TotalSamples   int64 `json:"totalSamples"`
	TotalReports   int64 `json:"totalReports"`
	TotalUsers     int64 `json:"totalUsers"`
	PendingReturns int64 `json:"pendingReturns"`
	RecentActivity int64 `json:"recentActivity"`
}

// CaseTypeCount is one bucket of the case type distribution
type CaseTypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// StorageUtilization counts items per storage location
type StorageUtilization struct {
	LocationID  uint                `json:"location_id"`
	Location    string              `json:"location"`
	Samples     int64               `json:"samples"`
	Reports     int64               `json:"reports"`
	Total       int64               `json:"total"`
	Utilization decimal.NullDecimal `json:"utilization"` // total / capacity, null without capacity
}

// MonthlyTrend counts samples received per calendar month
type MonthlyTrend struct {
	Month   string `json:"month"` // YYYY-MM
	Samples int64  `json:"samples"`
}

// UserActivity counts the evidence and audit rows attributed to one user
type UserActivity struct {
	UserID     uint   `json:"user_id"`
	Name       string `json:"name"`
	Samples    int64  `json:"samples"`
	Reports    int64  `json:"reports"`
	Activities int64  `json:"activities"`
}

// AnalyticsResponse is the payload of GET /api/analytics
type AnalyticsResponse struct {
	Overview           AnalyticsOverview    `json:"overview"`
	CaseTypes          []CaseTypeCount      `json:"caseTypes"`
	StorageUtilization []StorageUtilization `json:"storageUtilization"`
	MonthlyTrends      []MonthlyTrend       `json:"monthlyTrends"`
	UserActivity       []UserActivity       `json:"userActivity"`
	GeneratedAt        time.Time            `json:"generatedAt"`
}
