package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"

	"dnaarchive/internal/repository"

	"github.com/pquerna/otp/totp"
	"gorm.io/gorm"
)

const totpIssuer = "DNA Archive"

type TwoFactorCodeRequest struct {
	Code string `json:"code" binding:"required,len=6,numeric"`
}

type TwoFactorSetupResponse struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
	QRCode     string `json:"qrCode"` // data:image/png;base64,...
}

// TwoFactorService manages TOTP enrolment
type TwoFactorService interface {
	Setup(ctx context.Context, userID uint, email string) (*TwoFactorSetupResponse, error)
	Verify(ctx context.Context, userID uint, code string) error
	Disable(ctx context.Context, userID uint) error
	// Check validates a login code against an enabled secret
	Check(ctx context.Context, userID uint, code string) error
}

type twoFactorService struct {
	creds repository.CredentialRepository
}

func NewTwoFactorService(creds repository.CredentialRepository) TwoFactorService {
	return &twoFactorService{creds: creds}
}

func (s *twoFactorService) Setup(ctx context.Context, userID uint, email string) (*TwoFactorSetupResponse, error) {
	if tf, err := s.creds.FindTwoFactor(ctx, userID); err == nil && tf.IsEnabled {
		return nil, fmt.Errorf("two-factor authentication is already enabled: %w", ErrConflict)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate totp secret: %w", err)
	}

	img, err := key.Image(200, 200)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}

	// re-running setup replaces the pending secret; 2FA stays off until Verify
	if err := s.creds.UpsertTwoFactorSecret(ctx, userID, key.Secret()); err != nil {
		return nil, err
	}

	return &TwoFactorSetupResponse{
		Secret:     key.Secret(),
		OTPAuthURL: key.URL(),
		QRCode:     "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

func (s *twoFactorService) Verify(ctx context.Context, userID uint, code string) error {
	tf, err := s.creds.FindTwoFactor(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalid("two-factor setup has not been started")
		}
		return err
	}
	if tf.SecretKey == "" || !totp.Validate(code, tf.SecretKey) {
		return ErrInvalidTwoFactorCode
	}
	return s.creds.SetTwoFactorEnabled(ctx, userID, true)
}

func (s *twoFactorService) Disable(ctx context.Context, userID uint) error {
	if _, err := s.creds.FindTwoFactor(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.creds.SetTwoFactorEnabled(ctx, userID, false)
}

func (s *twoFactorService) Check(ctx context.Context, userID uint, code string) error {
	if code == "" {
		return ErrTwoFactorRequired
	}
	tf, err := s.creds.FindTwoFactor(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidTwoFactorCode
		}
		return err
	}
	if !tf.IsEnabled || !totp.Validate(code, tf.SecretKey) {
		return ErrInvalidTwoFactorCode
	}
	return nil
}
