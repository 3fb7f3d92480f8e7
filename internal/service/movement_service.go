package service

import (
	"context"
	"strings"
	"time"

	"dnaarchive/internal/model"
	"dnaarchive/internal/repository"
)

type MovementRequest struct {
	ActionType         string     `json:"action_type" binding:"required,oneof=IN OUT CHECK_OUT RETURN DISPOSAL"`
	Reason             string     `json:"reason"`
	Date               *time.Time `json:"date"`
	ExpectedReturnDate *time.Time `json:"expected_return_date"`
	DisposalMethod     *string    `json:"disposal_method"`
	DisposalAuthority  *string    `json:"disposal_authority"`
}

// MovementService records the chain of custody of samples and reports
type MovementService interface {
	RecordSampleMovement(ctx context.Context, sampleID, actorID uint, req MovementRequest) (*model.SampleMovement, error)
	RecordReportMovement(ctx context.Context, reportID, actorID uint, req MovementRequest) (*model.ReportMovement, error)
	ReturnSampleMovement(ctx context.Context, movementID, actorID uint) (*model.SampleMovement, error)
	ReturnReportMovement(ctx context.Context, movementID, actorID uint) (*model.ReportMovement, error)
	ListSampleMovements(ctx context.Context, overdueOnly bool, page, limit int) ([]model.SampleMovement, int64, error)
	ListReportMovements(ctx context.Context, overdueOnly bool, page, limit int) ([]model.ReportMovement, int64, error)
}

type movementService struct {
	moves   repository.MovementRepository
	samples repository.SampleRepository
	reports repository.ReportRepository
	tx      repository.TransactionManager
}

func NewMovementService(moves repository.MovementRepository, samples repository.SampleRepository, reports repository.ReportRepository, tx repository.TransactionManager) MovementService {
	return &movementService{moves: moves, samples: samples, reports: reports, tx: tx}
}

func custodyFrom(req MovementRequest, actorID uint, now time.Time) (model.Custody, error) {
	c := model.Custody{
		ActionType:         req.ActionType,
		PerformedBy:        actorID,
		Date:               now,
		Reason:             strings.TrimSpace(req.Reason),
		ExpectedReturnDate: req.ExpectedReturnDate,
	}
	if req.Date != nil {
		if req.Date.After(now) {
			return c, invalid("date cannot be in the future")
		}
		c.Date = *req.Date
	}
	if model.IsCheckout(req.ActionType) {
		if req.ExpectedReturnDate != nil && req.ExpectedReturnDate.Before(c.Date) {
			return c, invalid("expected_return_date cannot be before the movement date")
		}
	} else if req.ExpectedReturnDate != nil {
		return c, invalid("expected_return_date only applies to %s and %s", model.MovementOut, model.MovementCheckOut)
	}
	return c, nil
}

func (s *movementService) RecordSampleMovement(ctx context.Context, sampleID, actorID uint, req MovementRequest) (*model.SampleMovement, error) {
	custody, err := custodyFrom(req, actorID, timeNow())
	if err != nil {
		return nil, err
	}
	if req.ActionType == model.MovementDisposal && (blank(req.DisposalMethod) || blank(req.DisposalAuthority)) {
		return nil, invalid("disposal requires disposal_method and disposal_authority")
	}
	if _, err := s.samples.FindByID(ctx, sampleID); err != nil {
		return nil, translate(err, "DNA sample")
	}

	m := &model.SampleMovement{
		SampleID:          sampleID,
		DisposalMethod:    req.DisposalMethod,
		DisposalAuthority: req.DisposalAuthority,
		Custody:           custody,
	}
	if err := s.moves.CreateSampleMovement(ctx, m); err != nil {
		return nil, translate(err, "sample movement")
	}
	return m, nil
}

func (s *movementService) RecordReportMovement(ctx context.Context, reportID, actorID uint, req MovementRequest) (*model.ReportMovement, error) {
	custody, err := custodyFrom(req, actorID, timeNow())
	if err != nil {
		return nil, err
	}
	if _, err := s.reports.FindByID(ctx, reportID); err != nil {
		return nil, translate(err, "report")
	}

	m := &model.ReportMovement{ReportID: reportID, Custody: custody}
	if err := s.moves.CreateReportMovement(ctx, m); err != nil {
		return nil, translate(err, "report movement")
	}
	return m, nil
}

// ReturnSampleMovement closes a checkout and logs the matching RETURN event.
// A movement can be returned once; later attempts are conflicts.
func (s *movementService) ReturnSampleMovement(ctx context.Context, movementID, actorID uint) (*model.SampleMovement, error) {
	var out *model.SampleMovement
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		m, err := s.moves.FindSampleMovement(txCtx, movementID)
		if err != nil {
			return translate(err, "sample movement")
		}
		if !model.IsCheckout(m.ActionType) {
			return invalid("only %s and %s movements can be returned", model.MovementOut, model.MovementCheckOut)
		}
		now := timeNow()
		ok, err := s.moves.MarkSampleMovementReturned(txCtx, movementID, now)
		if err != nil {
			return err
		}
		if !ok {
			return conflict("sample movement %d was already returned", movementID)
		}
		if err := s.moves.CreateSampleMovement(txCtx, &model.SampleMovement{
			SampleID: m.SampleID,
			Custody:  model.Custody{ActionType: model.MovementReturn, PerformedBy: actorID, Date: now, Reason: m.Reason},
		}); err != nil {
			return err
		}
		m.ReturnedDate = &now
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *movementService) ReturnReportMovement(ctx context.Context, movementID, actorID uint) (*model.ReportMovement, error) {
	var out *model.ReportMovement
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		m, err := s.moves.FindReportMovement(txCtx, movementID)
		if err != nil {
			return translate(err, "report movement")
		}
		if !model.IsCheckout(m.ActionType) {
			return invalid("only %s and %s movements can be returned", model.MovementOut, model.MovementCheckOut)
		}
		now := timeNow()
		ok, err := s.moves.MarkReportMovementReturned(txCtx, movementID, now)
		if err != nil {
			return err
		}
		if !ok {
			return conflict("report movement %d was already returned", movementID)
		}
		if err := s.moves.CreateReportMovement(txCtx, &model.ReportMovement{
			ReportID: m.ReportID,
			Custody:  model.Custody{ActionType: model.MovementReturn, PerformedBy: actorID, Date: now, Reason: m.Reason},
		}); err != nil {
			return err
		}
		m.ReturnedDate = &now
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *movementService) ListSampleMovements(ctx context.Context, overdueOnly bool, page, limit int) ([]model.SampleMovement, int64, error) {
	return s.moves.ListSampleMovements(ctx, overdueOnly, timeNow(), page, limit)
}

func (s *movementService) ListReportMovements(ctx context.Context, overdueOnly bool, page, limit int) ([]model.ReportMovement, int64, error) {
	return s.moves.ListReportMovements(ctx, overdueOnly, timeNow(), page, limit)
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
