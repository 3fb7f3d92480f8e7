package handler

import (
	"context"
	"net/http"
	"testing"

	"dnaarchive/internal/model"
	"dnaarchive/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuditService struct {
	gotFilter service.AuditFilter
	gotPage   int
	gotLimit  int
}

func (f *fakeAuditService) GetAuditTrails(_ context.Context, filter service.AuditFilter, page, limit int) ([]model.AuditTrail, int64, error) {
	f.gotFilter, f.gotPage, f.gotLimit = filter, page, limit
	return []model.AuditTrail{{ID: 2, Action: "POST Case"}, {ID: 1, Action: "User Logged In"}}, 2, nil
}

func TestAuditTrailsDefaultPageSize(t *testing.T) {
	svc := &fakeAuditService{}
	r, _ := newRouter(NewAuditHandler(svc))

	w := do(r, http.MethodGet, "/api/audit-trails?entity_type=DNA%20Sample&performed_by=3", "", &adminUser)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.gotPage)
	assert.Equal(t, 100, svc.gotLimit)
	assert.Equal(t, service.AuditFilter{EntityType: "DNA Sample", PerformedBy: 3}, svc.gotFilter)
	assert.Contains(t, string(decode(t, w).Data), `"limit":100`)
}

func TestAuditTrailsAdminOnly(t *testing.T) {
	svc := &fakeAuditService{}
	r, _ := newRouter(NewAuditHandler(svc))

	w := do(r, http.MethodGet, "/api/audit-trails", "", &officerUser)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, svc.gotLimit)
}
