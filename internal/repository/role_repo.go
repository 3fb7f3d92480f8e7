package repository

import (
	"context"

	"dnaarchive/internal/model"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Role, error)
	FindByName(ctx context.Context, name model.RoleName) (*model.Role, error)
	ListAll(ctx context.Context) ([]model.Role, error)
	// Ensure inserts the role if no row has that name yet
	Ensure(ctx context.Context, name model.RoleName) (*model.Role, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) FindByID(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	if err := GetDB(ctx, r.db).First(&role, "role_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindByName(ctx context.Context, name model.RoleName) (*model.Role, error) {
	var role model.Role
	if err := GetDB(ctx, r.db).Where("role_name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) ListAll(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	if err := GetDB(ctx, r.db).Order("role_id asc").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) Ensure(ctx context.Context, name model.RoleName) (*model.Role, error) {
	role := model.Role{RoleName: name}
	if err := GetDB(ctx, r.db).Where("role_name = ?", name).FirstOrCreate(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}
