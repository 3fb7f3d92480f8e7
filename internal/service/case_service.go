package service

import (
	"context"
	"strings"
	"time"

	"dnaarchive/internal/model"
	"dnaarchive/internal/repository"
)

type CaseRequest struct {
	PoliceCaseNumber string    `json:"police_case_number" binding:"required"`
	CaseDate         time.Time `json:"case_date" binding:"required"`
	StationID        uint      `json:"station_id" binding:"required"`
	CaseType         string    `json:"case_type" binding:"required"`
}

type StationRequest struct {
	Name          string `json:"name" binding:"required"`
	Address       string `json:"address"`
	ContactNumber string `json:"contact_number"`
}

type CaseFilter struct {
	CaseType string
	Search   string
}

// CaseService manages cases and the police stations they originate from
type CaseService interface {
	CreateCase(ctx context.Context, req CaseRequest) (*model.Case, error)
	GetCase(ctx context.Context, id uint) (*model.Case, error)
	ListCases(ctx context.Context, filter CaseFilter, page, limit int) ([]model.Case, int64, error)
	UpdateCase(ctx context.Context, id uint, req CaseRequest) (*model.Case, error)
	DeleteCase(ctx context.Context, id uint) error

	CreateStation(ctx context.Context, req StationRequest) (*model.PoliceStation, error)
	ListStations(ctx context.Context) ([]model.PoliceStation, error)
}

type caseService struct {
	cases    repository.CaseRepository
	stations repository.StationRepository
}

func NewCaseService(cases repository.CaseRepository, stations repository.StationRepository) CaseService {
	return &caseService{cases: cases, stations: stations}
}

func (s *caseService) applyRequest(ctx context.Context, c *model.Case, req CaseRequest) error {
	number := strings.TrimSpace(req.PoliceCaseNumber)
	if number == "" {
		return invalid("police_case_number is required")
	}
	if req.CaseDate.After(timeNow()) {
		return invalid("case_date cannot be in the future")
	}
	if _, err := s.stations.FindByID(ctx, req.StationID); err != nil {
		return translateRef(err, "police station")
	}
	c.PoliceCaseNumber = number
	c.CaseDate = req.CaseDate
	c.StationID = req.StationID
	c.CaseType = strings.TrimSpace(req.CaseType)
	return nil
}

func (s *caseService) CreateCase(ctx context.Context, req CaseRequest) (*model.Case, error) {
	c := &model.Case{}
	if err := s.applyRequest(ctx, c, req); err != nil {
		return nil, err
	}
	if err := s.cases.Create(ctx, c); err != nil {
		return nil, translate(err, "case")
	}
	return c, nil
}

func (s *caseService) GetCase(ctx context.Context, id uint) (*model.Case, error) {
	c, err := s.cases.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "case")
	}
	return c, nil
}

func (s *caseService) ListCases(ctx context.Context, filter CaseFilter, page, limit int) ([]model.Case, int64, error) {
	return s.cases.List(ctx, filter.CaseType, strings.TrimSpace(filter.Search), page, limit)
}

func (s *caseService) UpdateCase(ctx context.Context, id uint, req CaseRequest) (*model.Case, error) {
	c, err := s.cases.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "case")
	}
	if err := s.applyRequest(ctx, c, req); err != nil {
		return nil, err
	}
	c.Station = nil
	if err := s.cases.Update(ctx, c); err != nil {
		return nil, translate(err, "case")
	}
	return c, nil
}

// DeleteCase refuses while samples or reports still belong to the case
func (s *caseService) DeleteCase(ctx context.Context, id uint) error {
	c, err := s.cases.FindByID(ctx, id)
	if err != nil {
		return translate(err, "case")
	}
	if len(c.Samples) > 0 || len(c.Reports) > 0 {
		return conflict("case still has %d samples and %d reports", len(c.Samples), len(c.Reports))
	}
	return translate(s.cases.Delete(ctx, id), "case")
}

func (s *caseService) CreateStation(ctx context.Context, req StationRequest) (*model.PoliceStation, error) {
	station := &model.PoliceStation{
		Name:          strings.TrimSpace(req.Name),
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
	}
	if station.Name == "" {
		return nil, invalid("name is required")
	}
	if err := s.stations.Create(ctx, station); err != nil {
		return nil, translate(err, "police station")
	}
	return station, nil
}

func (s *caseService) ListStations(ctx context.Context) ([]model.PoliceStation, error) {
	return s.stations.ListAll(ctx)
}
