package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dnaarchive/internal/audit"
	"dnaarchive/internal/authenticator"
	"dnaarchive/internal/model"
	"dnaarchive/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Code     string `json:"code" binding:"omitempty,len=6,numeric"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type TokenResponse struct {
	AccessToken      string        `json:"access_token"`
	AccessExpiresAt  time.Time     `json:"access_expires_at"`
	RefreshToken     string        `json:"refresh_token"`
	RefreshExpiresAt time.Time     `json:"refresh_expires_at"`
	User             *UserResponse `json:"user"`
}

// TokenIssuer mints the session tokens the resolver later accepts
type TokenIssuer interface {
	AccessToken(userID uint, email, role string) (string, time.Time, error)
	RefreshToken() (string, time.Time)
}

// AuthService covers every way of obtaining or dropping a session
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID uint) (*UserResponse, error)

	OAuthEnabled() bool
	OAuthURL(state string) (string, error)
	OAuthLogin(ctx context.Context, code string) (*TokenResponse, error)
}

type authService struct {
	users     repository.UserRepository
	roles     repository.RoleRepository
	creds     repository.CredentialRepository
	tx        repository.TransactionManager
	issuer    TokenIssuer
	twoFactor TwoFactorService
	recorder  audit.Recorder
	provider  authenticator.Provider
}

// NewAuthService wires the auth flows; provider may be nil when OAuth is not configured
func NewAuthService(
	users repository.UserRepository,
	roles repository.RoleRepository,
	creds repository.CredentialRepository,
	tx repository.TransactionManager,
	issuer TokenIssuer,
	twoFactor TwoFactorService,
	recorder audit.Recorder,
	provider authenticator.Provider,
) AuthService {
	return &authService{
		users:     users,
		roles:     roles,
		creds:     creds,
		tx:        tx,
		issuer:    issuer,
		twoFactor: twoFactor,
		recorder:  recorder,
		provider:  provider,
	}
}

// Register creates a Scientific Officer; elevated roles are granted by an Admin
func (s *authService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	email := normalizeEmail(req.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email already exists: %w", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var user *model.User
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		role, err := s.roles.FindByName(txCtx, model.RoleScientificOfficer)
		if err != nil {
			return fmt.Errorf("default role missing: %w", err)
		}
		user = &model.User{
			Name:         strings.TrimSpace(req.Name),
			Email:        email,
			PasswordHash: hash,
			RoleID:       role.ID,
			Role:         role,
		}
		if err := s.users.Create(txCtx, user); err != nil {
			return translate(err, "user")
		}
		_, err = s.recorder.Record(txCtx, audit.Entry{
			EntityType: "User",
			EntityID:   user.ID,
			Action:     model.ActionUserRegistered,
			UserID:     user.ID,
			Details:    map[string]string{"email": user.Email, "name": user.Name},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return mapToResponse(user), nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.TwoFactorEnabled {
		if err := s.twoFactor.Check(ctx, user.ID, req.Code); err != nil {
			return nil, err
		}
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	if _, err := s.recorder.Record(ctx, audit.Entry{
		EntityType: "User",
		EntityID:   user.ID,
		Action:     model.ActionUserLoggedIn,
		UserID:     user.ID,
		Details:    map[string]any{"email": user.Email, "two_factor": user.TwoFactorEnabled},
	}); err != nil {
		return nil, err
	}
	return tokens, nil
}

// Refresh rotates the refresh token: the presented one is consumed
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	if refreshToken == "" {
		return nil, ErrInvalidCredentials
	}
	var tokens *TokenResponse
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		rt, err := s.creds.ConsumeRefreshToken(txCtx, refreshToken, timeNow())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidCredentials
			}
			return err
		}
		user, err := s.users.GetByID(txCtx, rt.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidCredentials
			}
			return err
		}
		tokens, err = s.issueTokens(txCtx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	_, err := s.creds.ConsumeRefreshToken(ctx, refreshToken, timeNow())
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func (s *authService) Me(ctx context.Context, userID uint) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, translate(err, "user")
	}
	return mapToResponse(user), nil
}

func (s *authService) OAuthEnabled() bool {
	return s.provider != nil
}

func (s *authService) OAuthURL(state string) (string, error) {
	if s.provider == nil {
		return "", ErrOAuthDisabled
	}
	return s.provider.GetAuthURL(state), nil
}

// OAuthLogin signs in through the external provider. Unknown identities are
// linked to an existing user with the same email or provisioned as Scientific Officers.
func (s *authService) OAuthLogin(ctx context.Context, code string) (*TokenResponse, error) {
	if s.provider == nil {
		return nil, ErrOAuthDisabled
	}
	identity, err := s.provider.Authenticate(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	var tokens *TokenResponse
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		user, created, err := s.provisionOAuthUser(txCtx, identity)
		if err != nil {
			return err
		}
		tokens, err = s.issueTokens(txCtx, user)
		if err != nil {
			return err
		}
		_, err = s.recorder.Record(txCtx, audit.Entry{
			EntityType: "User",
			EntityID:   user.ID,
			Action:     model.ActionOAuthLogin,
			UserID:     user.ID,
			Details:    map[string]any{"provider": identity.Provider, "email": identity.Email, "provisioned": created},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (s *authService) provisionOAuthUser(ctx context.Context, id *authenticator.Identity) (*model.User, bool, error) {
	acc, err := s.creds.FindAuthAccount(ctx, id.Provider, id.Subject)
	if err == nil {
		user, err := s.users.GetByID(ctx, acc.UserID)
		return user, false, translate(err, "user")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	created := false
	user, err := s.users.GetByEmail(ctx, id.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		role, err := s.roles.FindByName(ctx, model.RoleScientificOfficer)
		if err != nil {
			return nil, false, fmt.Errorf("default role missing: %w", err)
		}
		user = &model.User{Name: id.Name, Email: id.Email, RoleID: role.ID, Role: role}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, false, translate(err, "user")
		}
		created = true
	} else if err != nil {
		return nil, false, err
	}

	if err := s.creds.LinkAuthAccount(ctx, &model.AuthAccount{
		Provider:          id.Provider,
		ProviderAccountID: id.Subject,
		UserID:            user.ID,
	}); err != nil {
		return nil, false, err
	}
	return user, created, nil
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (*TokenResponse, error) {
	access, accessExp, err := s.issuer.AccessToken(user.ID, user.Email, string(user.RoleName()))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	refresh, refreshExp := s.issuer.RefreshToken()
	if err := s.creds.SaveRefreshToken(ctx, &model.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: refreshExp,
	}); err != nil {
		return nil, err
	}
	return &TokenResponse{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
		User:             mapToResponse(user),
	}, nil
}
