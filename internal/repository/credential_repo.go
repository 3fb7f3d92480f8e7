package repository

import (
	"context"
	"time"

	"dnaarchive/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CredentialRepository stores refresh tokens, TOTP secrets and linked OAuth accounts
type CredentialRepository interface {
	SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error
	// ConsumeRefreshToken deletes the token and returns it if it was still valid
	ConsumeRefreshToken(ctx context.Context, token string, now time.Time) (*model.RefreshToken, error)

	FindTwoFactor(ctx context.Context, userID uint) (*model.TwoFactorAuth, error)
	UpsertTwoFactorSecret(ctx context.Context, userID uint, secret string) error
	SetTwoFactorEnabled(ctx context.Context, userID uint, enabled bool) error

	FindAuthAccount(ctx context.Context, provider, accountID string) (*model.AuthAccount, error)
	LinkAuthAccount(ctx context.Context, account *model.AuthAccount) error
}

type credentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	return GetDB(ctx, r.db).Omit("User").Create(token).Error
}

func (r *credentialRepository) ConsumeRefreshToken(ctx context.Context, token string, now time.Time) (*model.RefreshToken, error) {
	var rt model.RefreshToken
	db := GetDB(ctx, r.db)
	if err := db.Where("token = ? AND expires_at > ?", token, now).First(&rt).Error; err != nil {
		return nil, err
	}
	res := db.Where("id = ?", rt.ID).Delete(&model.RefreshToken{})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost a race with a concurrent refresh
		return nil, gorm.ErrRecordNotFound
	}
	return &rt, nil
}

func (r *credentialRepository) FindTwoFactor(ctx context.Context, userID uint) (*model.TwoFactorAuth, error) {
	var tfa model.TwoFactorAuth
	if err := GetDB(ctx, r.db).First(&tfa, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &tfa, nil
}

// UpsertTwoFactorSecret stores a new pending secret; enabling happens after verification
func (r *credentialRepository) UpsertTwoFactorSecret(ctx context.Context, userID uint, secret string) error {
	tfa := model.TwoFactorAuth{UserID: userID, SecretKey: secret}
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"secret_key": secret, "is_enabled": false, "updated_at": time.Now()}),
	}).Create(&tfa).Error
}

func (r *credentialRepository) SetTwoFactorEnabled(ctx context.Context, userID uint, enabled bool) error {
	db := GetDB(ctx, r.db)
	updates := map[string]interface{}{"is_enabled": enabled}
	if !enabled {
		updates["secret_key"] = ""
		updates["backup_codes"] = ""
	}
	if err := db.Model(&model.TwoFactorAuth{}).Where("user_id = ?", userID).Updates(updates).Error; err != nil {
		return err
	}
	return db.Model(&model.User{}).Where("user_id = ?", userID).Update("two_factor_enabled", enabled).Error
}

func (r *credentialRepository) FindAuthAccount(ctx context.Context, provider, accountID string) (*model.AuthAccount, error) {
	var acc model.AuthAccount
	if err := GetDB(ctx, r.db).Where("provider = ? AND provider_account_id = ?", provider, accountID).First(&acc).Error; err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *credentialRepository) LinkAuthAccount(ctx context.Context, account *model.AuthAccount) error {
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider"}, {Name: "provider_account_id"}},
		DoNothing: true,
	}).Create(account).Error
}
