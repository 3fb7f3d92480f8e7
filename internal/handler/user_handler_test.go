package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"dnaarchive/internal/model"
	"dnaarchive/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserService struct {
	service.UserService
	gotActor uint
	gotID    uint
	err      error
}

func (f *fakeUserService) ListUsers(context.Context, int, int) ([]service.UserResponse, int64, error) {
	return []service.UserResponse{{ID: 1, Email: adminUser.Email, Role: string(model.RoleAdmin)}}, 1, nil
}

func (f *fakeUserService) UpdateUser(_ context.Context, id uint, req service.UpdateUserRequest) (*service.UserResponse, error) {
	f.gotID = id
	return &service.UserResponse{ID: id, Name: req.Name}, f.err
}

func (f *fakeUserService) DeleteUser(_ context.Context, actorID, id uint) error {
	f.gotActor, f.gotID = actorID, id
	return f.err
}

type fakeRoleService struct {
	service.RoleService
}

func (fakeRoleService) ListRoles(context.Context) ([]model.Role, error) {
	return []model.Role{{ID: 1, RoleName: model.RoleAdmin}}, nil
}

func TestUserManagementIsAdminOnly(t *testing.T) {
	r, rec := newRouter(NewUserHandler(&fakeUserService{}))

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/api/users", "", &officerUser).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodDelete, "/api/users/2", "", &keeperUser).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/users", "", &adminUser).Code)
	assert.Empty(t, rec.entries)
}

func TestUpdateUserAuditsBodyID(t *testing.T) {
	svc := &fakeUserService{}
	r, rec := newRouter(NewUserHandler(svc))

	w := do(r, http.MethodPut, "/api/users/7", `{"id":7,"name":"Renamed"}`, &adminUser)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(7), svc.gotID)
	require.Len(t, rec.entries, 1)
	assert.Equal(t, uint(7), rec.entries[0].EntityID)
	assert.Equal(t, "PUT User", rec.entries[0].Action)
}

func TestDeleteSelfConflicts(t *testing.T) {
	svc := &fakeUserService{err: fmt.Errorf("%w: cannot delete your own account", service.ErrConflict)}
	r, rec := newRouter(NewUserHandler(svc))

	w := do(r, http.MethodDelete, "/api/users/1", "", &adminUser)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, adminUser.ID, svc.gotActor)
	assert.Equal(t, uint(1), svc.gotID)
	require.Len(t, rec.entries, 1)
	assert.Equal(t, "DELETE User", rec.entries[0].Action)
}

func TestListRoles(t *testing.T) {
	r, _ := newRouter(NewRoleHandler(fakeRoleService{}))

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/api/roles", "", &officerUser).Code)

	w := do(r, http.MethodGet, "/api/roles", "", &adminUser)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), `"role_name":"Admin"`)
}
