package model

import (
	"time"

	"gorm.io/datatypes"
)

// Manual audit actions. Automatically logged requests use "<METHOD> <EntityType>".
const (
	ActionUserLoggedIn   = "User Logged In"
	ActionUserRegistered = "User Registered"
	ActionOAuthLogin     = "OAuth Login"
)

// AuditTrail is an append-only record of a data change. Rows are never updated or deleted.
type AuditTrail struct {
	ID          uint           `gorm:"column:audit_id;primaryKey" json:"audit_id"`
	EntityType  string         `gorm:"column:entity_type;type:varchar(100);not null;index" json:"entity_type"`
	EntityID    uint           `gorm:"column:entity_id;not null" json:"entity_id"` // 0 = not applicable
	Action      string         `gorm:"type:varchar(255);not null" json:"action"`
	PerformedBy uint           `gorm:"column:performed_by;not null;index" json:"performed_by"`
	User        *User          `gorm:"foreignKey:PerformedBy;references:ID" json:"user,omitempty"`
	Details     datatypes.JSON `gorm:"type:jsonb" json:"details"`
	Timestamp   time.Time      `gorm:"autoCreateTime;index" json:"timestamp"`
}

func (AuditTrail) TableName() string {
	return "audit_trails"
}
