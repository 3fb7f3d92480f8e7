package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dnaarchive/internal/model"
	"dnaarchive/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DTOs for Request validation
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=8"`
	Role     string `json:"role"`
}

// DTO for returning User without exposing sensitive data (e.g. password)
type UserResponse struct {
	ID               uint   `json:"user_id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	TwoFactorEnabled bool   `json:"two_factor_enabled"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

// UserService manages archive staff accounts
type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	GetUserByID(ctx context.Context, id uint) (*UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, id uint, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, actorID, id uint) error
}

type userService struct {
	repo  repository.UserRepository
	roles repository.RoleRepository
}

func NewUserService(repo repository.UserRepository, roles repository.RoleRepository) UserService {
	return &userService{repo: repo, roles: roles}
}

func mapToResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:               user.ID,
		Name:             user.Name,
		Email:            user.Email,
		Role:             string(user.RoleName()),
		TwoFactorEnabled: user.TwoFactorEnabled,
		CreatedAt:        user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:        user.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (*string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	h := string(hashed)
	return &h, nil
}

// resolveRole accepts only the three archive roles that exist in the roles table
func (s *userService) resolveRole(ctx context.Context, name string) (*model.Role, error) {
	roleName := model.RoleName(name)
	if !roleName.Valid() {
		return nil, invalid("role must be one of %s, %s or %s", model.RoleAdmin, model.RoleScientificOfficer, model.RoleArchiveInCharge)
	}
	role, err := s.roles.FindByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid("role %q is not provisioned", name)
		}
		return nil, err
	}
	return role, nil
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	role, err := s.resolveRole(ctx, req.Role)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email already exists: %w", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		RoleID:       role.ID,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, translate(err, "user")
	}
	user.Role = role

	return mapToResponse(user), nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "user")
	}
	return mapToResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	users, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *mapToResponse(&users[i]))
	}
	return responses, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uint, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "user")
	}

	if req.Role != "" {
		role, err := s.resolveRole(ctx, req.Role)
		if err != nil {
			return nil, err
		}
		user.RoleID = role.ID
		user.Role = role
	}

	if email := normalizeEmail(req.Email); email != "" && email != user.Email {
		if _, err := s.repo.GetByEmail(ctx, email); err == nil {
			return nil, fmt.Errorf("email already exists: %w", ErrConflict)
		}
		user.Email = email
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}

	if req.Password != "" {
		hash, err := hashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, translate(err, "user")
	}
	return mapToResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return fmt.Errorf("cannot delete your own account: %w", ErrConflict)
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return translate(err, "user")
	}
	return translate(s.repo.Delete(ctx, id), "user")
}
