package service

import (
	"context"
	"strings"
	"time"

	"dnaarchive/internal/model"
	"dnaarchive/internal/repository"
	"dnaarchive/pkg/barcode"
)

type ReportRequest struct {
	CaseID              uint       `json:"case_id" binding:"required"`
	ReportReceivedDate  time.Time  `json:"report_received_date" binding:"required"`
	SampleType          string     `json:"sample_type"`
	LabRegisterNumber   string     `json:"lab_register_number" binding:"required"`
	ScientificOfficerID *uint      `json:"scientific_officer_id"`
	StorageLocationID   *uint      `json:"storage_location_id"`
	Barcode             string     `json:"barcode"`
	ArchiveEntryDate    *time.Time `json:"archive_entry_date"`
}

type ReportFilter struct {
	CaseID uint
	Search string
}

type ReportService interface {
	CreateReport(ctx context.Context, req ReportRequest) (*model.Report, error)
	GetReport(ctx context.Context, id uint) (*model.Report, error)
	ListReports(ctx context.Context, filter ReportFilter, page, limit int) ([]model.Report, int64, error)
	UpdateReport(ctx context.Context, id uint, req ReportRequest) (*model.Report, error)
	DeleteReport(ctx context.Context, id uint) error
}

type reportService struct {
	reports repository.ReportRepository
	refs    evidenceRefs
}

func NewReportService(reports repository.ReportRepository, cases repository.CaseRepository, users repository.UserRepository, storage repository.StorageRepository) ReportService {
	return &reportService{reports: reports, refs: evidenceRefs{cases: cases, users: users, storage: storage}}
}

func (s *reportService) apply(ctx context.Context, report *model.Report, req ReportRequest) error {
	if err := s.refs.check(ctx, req.CaseID, req.ScientificOfficerID, req.StorageLocationID, model.StorageTypeReport); err != nil {
		return err
	}

	report.CaseID = req.CaseID
	report.ReportReceivedDate = req.ReportReceivedDate
	report.SampleType = req.SampleType
	report.LabRegisterNumber = strings.TrimSpace(req.LabRegisterNumber)
	report.ScientificOfficerID = req.ScientificOfficerID
	report.StorageLocationID = req.StorageLocationID
	if req.ArchiveEntryDate != nil {
		report.ArchiveEntryDate = *req.ArchiveEntryDate
	}
	if code := strings.TrimSpace(req.Barcode); code != "" {
		report.Barcode = code
	}
	if !report.ArchiveEntryDate.IsZero() && report.ArchiveEntryDate.Before(report.ReportReceivedDate) {
		return invalid("archive_entry_date cannot be before report_received_date")
	}
	return nil
}

func (s *reportService) CreateReport(ctx context.Context, req ReportRequest) (*model.Report, error) {
	report := &model.Report{}
	if err := s.apply(ctx, report, req); err != nil {
		return nil, err
	}
	now := timeNow()
	if report.ArchiveEntryDate.IsZero() {
		report.ArchiveEntryDate = now
	}
	if report.Barcode == "" {
		report.Barcode = barcode.Report(now)
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, translate(err, "report")
	}
	return report, nil
}

func (s *reportService) GetReport(ctx context.Context, id uint) (*model.Report, error) {
	report, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "report")
	}
	return report, nil
}

func (s *reportService) ListReports(ctx context.Context, filter ReportFilter, page, limit int) ([]model.Report, int64, error) {
	return s.reports.List(ctx, filter.CaseID, strings.TrimSpace(filter.Search), page, limit)
}

func (s *reportService) UpdateReport(ctx context.Context, id uint, req ReportRequest) (*model.Report, error) {
	report, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "report")
	}
	if err := s.apply(ctx, report, req); err != nil {
		return nil, err
	}
	report.Case, report.Officer, report.Location, report.Movements = nil, nil, nil, nil
	if err := s.reports.Update(ctx, report); err != nil {
		return nil, translate(err, "report")
	}
	return report, nil
}

func (s *reportService) DeleteReport(ctx context.Context, id uint) error {
	if _, err := s.reports.FindByID(ctx, id); err != nil {
		return translate(err, "report")
	}
	return translate(s.reports.Delete(ctx, id), "report")
}
