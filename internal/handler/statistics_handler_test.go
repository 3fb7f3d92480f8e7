package handler

import (
	"context"
	"net/http"
	"testing"

	"dnaarchive/internal/access"
	"dnaarchive/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatisticsService struct{}

func (fakeStatisticsService) Dashboard(context.Context) (*model.DashboardCounts, error) {
	return &model.DashboardCounts{Reports: 4, Samples: 9, ExpiredSamples: 1}, nil
}

func (fakeStatisticsService) Analytics(context.Context) (*model.AnalyticsResponse, error) {
	return &model.AnalyticsResponse{}, nil
}

func TestDashboardForAnySignedInRole(t *testing.T) {
	r, _ := newRouter(NewStatisticsHandler(fakeStatisticsService{}))

	for _, u := range []*access.AuthenticatedUser{&adminUser, &officerUser, &keeperUser} {
		w := do(r, http.MethodGet, "/api/dashboard", "", u)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(decode(t, w).Data), `"samples":9`)
	}
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/analytics", "", nil).Code)
}
