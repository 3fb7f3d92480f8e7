package service

import (
	"context"

	"dnaarchive/internal/model"
	"dnaarchive/internal/repository"
)

type AuditFilter = repository.AuditFilter

// AuditService exposes the audit trail read-only; writes go through audit.Recorder
type AuditService interface {
	GetAuditTrails(ctx context.Context, filter AuditFilter, page, limit int) ([]model.AuditTrail, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// GetAuditTrails returns rows newest first with the performing user attached
func (s *auditService) GetAuditTrails(ctx context.Context, filter AuditFilter, page, limit int) ([]model.AuditTrail, int64, error) {
	return s.repo.List(ctx, filter, page, limit)
}
