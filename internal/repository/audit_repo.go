package repository

import (
	"context"
	"time"

	"dnaarchive/internal/model"

	"gorm.io/gorm"
)

// AuditRepository is append-only: there is no update or delete.
type AuditRepository interface {
	Create(ctx context.Context, entry *model.AuditTrail) error
	List(ctx context.Context, filter AuditFilter, page, limit int) ([]model.AuditTrail, int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

// AuditFilter narrows the audit listing; zero values match everything
type AuditFilter struct {
	EntityType  string
	EntityID    uint
	PerformedBy uint
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *model.AuditTrail) error {
	return GetDB(ctx, r.db).Omit("User").Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, filter AuditFilter, page, limit int) ([]model.AuditTrail, int64, error) {
	var logs []model.AuditTrail
	var total int64

	scope := func(db *gorm.DB) *gorm.DB {
		if filter.EntityType != "" {
			db = db.Where("entity_type = ?", filter.EntityType)
		}
		if filter.EntityID != 0 {
			db = db.Where("entity_id = ?", filter.EntityID)
		}
		if filter.PerformedBy != 0 {
			db = db.Where("performed_by = ?", filter.PerformedBy)
		}
		return db
	}

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.AuditTrail{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Scopes(scope).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("user_id", "name", "email") }).
		Order("timestamp desc").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

func (r *auditRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.AuditTrail{}).Where("timestamp >= ?", since).Count(&n).Error
	return n, err
}
