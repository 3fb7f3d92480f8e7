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

type fakeMovementService struct {
	service.MovementService
	gotItemID  uint
	gotActorID uint
	gotReq     service.MovementRequest
	gotOverdue bool
	err        error
}

func (f *fakeMovementService) RecordSampleMovement(_ context.Context, sampleID, actorID uint, req service.MovementRequest) (*model.SampleMovement, error) {
	f.gotItemID, f.gotActorID, f.gotReq = sampleID, actorID, req
	if f.err != nil {
		return nil, f.err
	}
	return &model.SampleMovement{ID: 11, SampleID: sampleID}, nil
}

func (f *fakeMovementService) ReturnSampleMovement(_ context.Context, movementID, actorID uint) (*model.SampleMovement, error) {
	f.gotItemID, f.gotActorID = movementID, actorID
	if f.err != nil {
		return nil, f.err
	}
	return &model.SampleMovement{ID: movementID}, nil
}

func (f *fakeMovementService) RecordReportMovement(_ context.Context, reportID, actorID uint, req service.MovementRequest) (*model.ReportMovement, error) {
	f.gotItemID, f.gotActorID, f.gotReq = reportID, actorID, req
	return &model.ReportMovement{ID: 12, ReportID: reportID}, f.err
}

func (f *fakeMovementService) ListSampleMovements(_ context.Context, overdueOnly bool, _, _ int) ([]model.SampleMovement, int64, error) {
	f.gotOverdue = overdueOnly
	return nil, 0, f.err
}

func TestRecordSampleMovementAsArchiveKeeper(t *testing.T) {
	svc := &fakeMovementService{}
	r, rec := newRouter(NewMovementHandler(svc))

	w := do(r, http.MethodPost, "/api/samples/9/movements", `{"action_type":"CHECK_OUT","reason":"court","expected_return_date":"2026-11-01T00:00:00Z"}`, &keeperUser)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, uint(9), svc.gotItemID)
	assert.Equal(t, keeperUser.ID, svc.gotActorID)
	assert.Equal(t, model.MovementCheckOut, svc.gotReq.ActionType)
	require.Len(t, rec.entries, 1)
	assert.Equal(t, "POST Sample Movement", rec.entries[0].Action)
}

func TestRecordReportMovementAuditedUnderReportMovement(t *testing.T) {
	svc := &fakeMovementService{}
	r, rec := newRouter(NewMovementHandler(svc))

	w := do(r, http.MethodPost, "/api/reports/4/movements", `{"action_type":"IN"}`, &adminUser)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, rec.entries, 1)
	assert.Equal(t, "Report Movement", rec.entries[0].EntityType)
}

func TestMovementRejectsUnknownAction(t *testing.T) {
	svc := &fakeMovementService{}
	r, _ := newRouter(NewMovementHandler(svc))

	w := do(r, http.MethodPost, "/api/samples/9/movements", `{"action_type":"LOST"}`, &officerUser)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, svc.gotItemID)
}

func TestReturnTwiceConflicts(t *testing.T) {
	svc := &fakeMovementService{err: service.ErrConflict}
	r, rec := newRouter(NewMovementHandler(svc))

	w := do(r, http.MethodPut, "/api/sample-movements/4/return", "", &keeperUser)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, uint(4), svc.gotItemID)
	require.Len(t, rec.entries, 1)
	assert.Equal(t, "PUT Sample Movement", rec.entries[0].Action)
	assert.Empty(t, rec.entries[0].Details)
}

func TestListOverdueSampleMovements(t *testing.T) {
	svc := &fakeMovementService{}
	r, _ := newRouter(NewMovementHandler(svc))

	w := do(r, http.MethodGet, "/api/sample-movements?overdue=true", "", &officerUser)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.gotOverdue)
	assert.Contains(t, string(decode(t, w).Data), `"items":[]`)
}
