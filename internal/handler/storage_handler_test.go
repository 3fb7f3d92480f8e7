package handler

import (
	"context"
	"net/http"
	"testing"

	"dnaarchive/internal/model"
	"dnaarchive/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorageService struct {
	service.StorageService
	gotReq service.StorageLocationRequest
}

func (f *fakeStorageService) CreateLocation(_ context.Context, req service.StorageLocationRequest) (*model.StorageLocation, error) {
	f.gotReq = req
	return &model.StorageLocation{ID: 4, Type: req.Type}, nil
}

func TestCreateStorageLocation(t *testing.T) {
	svc := &fakeStorageService{}
	r, rec := newRouter(NewStorageHandler(svc))

	w := do(r, http.MethodPost, "/api/storage-locations", `{"type":"sample","freezer_unit":"F-2","temperature_setpoint":-80.5}`, &adminUser)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.True(t, svc.gotReq.TemperatureSetpoint.Valid)
	assert.True(t, decimal.RequireFromString("-80.5").Equal(svc.gotReq.TemperatureSetpoint.Decimal))
	require.Len(t, rec.entries, 1)
	assert.Equal(t, "Storage Location", rec.entries[0].EntityType)
}

func TestStorageLocationValidation(t *testing.T) {
	r, _ := newRouter(NewStorageHandler(&fakeStorageService{}))

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/storage-locations", `{"type":"garage"}`, &adminUser).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPost, "/api/storage-locations", `{"type":"sample"}`, &officerUser).Code)
}
