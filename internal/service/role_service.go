package service

import (
	"context"
	"fmt"

	"dnaarchive/internal/model"
	"dnaarchive/internal/repository"
)

// archiveRoles is the closed set of roles every authorization check is made against
var archiveRoles = []model.RoleName{model.RoleAdmin, model.RoleScientificOfficer, model.RoleArchiveInCharge}

type RoleService interface {
	ListRoles(ctx context.Context) ([]model.Role, error)
	// EnsureDefaultRoles makes sure the three archive roles exist so that
	// registration and user management can reference them
	EnsureDefaultRoles(ctx context.Context) error
}

type roleService struct {
	repo repository.RoleRepository
}

func NewRoleService(repo repository.RoleRepository) RoleService {
	return &roleService{repo: repo}
}

func (s *roleService) ListRoles(ctx context.Context) ([]model.Role, error) {
	roles, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}
	return roles, nil
}

func (s *roleService) EnsureDefaultRoles(ctx context.Context) error {
	for _, name := range archiveRoles {
		if _, err := s.repo.Ensure(ctx, name); err != nil {
			return fmt.Errorf("failed to ensure role '%s': %w", name, err)
		}
	}
	return nil
}
