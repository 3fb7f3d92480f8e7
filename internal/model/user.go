package model

import (
	"time"
)

// User is the persisted identity record read by every authorization decision
type User struct {
	ID               uint      `gorm:"column:user_id;primaryKey" json:"user_id"`
	Name             string    `gorm:"type:varchar(255);not null" json:"name"`
	Email            string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash     *string   `gorm:"column:password_hash;type:varchar(255)" json:"-"` // nil for OAuth-only accounts
	RoleID           uint      `gorm:"column:role_id;not null;index" json:"role_id"`
	Role             *Role     `gorm:"foreignKey:RoleID;references:ID" json:"role,omitempty"`
	TwoFactorEnabled bool      `gorm:"column:two_factor_enabled;default:false" json:"two_factor_enabled"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// RoleName returns the assigned role name or "" when the association was not loaded
func (u *User) RoleName() RoleName {
	if u == nil || u.Role == nil {
		return ""
	}
	return u.Role.RoleName
}

// RefreshToken stores long-lived tokens allowing users to request new access tokens
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TwoFactorAuth holds the TOTP secret of a user
type TwoFactorAuth struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	SecretKey   string    `gorm:"column:secret_key;type:varchar(255);not null" json:"-"`
	IsEnabled   bool      `gorm:"column:is_enabled;default:false" json:"is_enabled"`
	BackupCodes string    `gorm:"column:backup_codes;type:text" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TwoFactorAuth) TableName() string {
	return "two_factor_auth"
}

// AuthAccount links an external OAuth identity to a user
type AuthAccount struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Provider          string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_provider_account" json:"provider"`
	ProviderAccountID string    `gorm:"column:provider_account_id;type:varchar(255);not null;uniqueIndex:idx_provider_account" json:"provider_account_id"`
	UserID            uint      `gorm:"column:user_id;not null;index" json:"user_id"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
}
