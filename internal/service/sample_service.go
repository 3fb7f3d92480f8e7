package service

import (
	"context"
	"strings"
	"time"

	"dnaarchive/internal/model"
	"dnaarchive/internal/repository"
	"dnaarchive/pkg/barcode"
)

type SampleRequest struct {
	CaseID              uint       `json:"case_id" binding:"required"`
	SampleType          string     `json:"sample_type" binding:"required"`
	SampleSource        string     `json:"sample_source"`
	CollectionDate      time.Time  `json:"collection_date" binding:"required"`
	ReceivedDate        time.Time  `json:"received_date" binding:"required"`
	LabRegisterNumber   string     `json:"lab_register_number" binding:"required"`
	ScientificOfficerID *uint      `json:"scientific_officer_id"`
	StorageLocationID   *uint      `json:"storage_location_id"`
	Barcode             string     `json:"barcode"`
	PackagingInfo       string     `json:"packaging_info"`
	ExpiryDate          *time.Time `json:"expiry_date"`
}

type SampleFilter struct {
	CaseID uint
	Search string
}

// SampleResponse adds derived state to the stored sample
type SampleResponse struct {
	model.DNASample
	Expired bool `json:"expired"`
}

type SampleService interface {
	CreateSample(ctx context.Context, req SampleRequest) (*SampleResponse, error)
	GetSample(ctx context.Context, id uint) (*SampleResponse, error)
	ListSamples(ctx context.Context, filter SampleFilter, page, limit int) ([]SampleResponse, int64, error)
	UpdateSample(ctx context.Context, id uint, req SampleRequest) (*SampleResponse, error)
	DeleteSample(ctx context.Context, id uint) error
}

type sampleService struct {
	samples repository.SampleRepository
	refs    evidenceRefs
}

func NewSampleService(samples repository.SampleRepository, cases repository.CaseRepository, users repository.UserRepository, storage repository.StorageRepository) SampleService {
	return &sampleService{samples: samples, refs: evidenceRefs{cases: cases, users: users, storage: storage}}
}

func toSampleResponse(s *model.DNASample) *SampleResponse {
	return &SampleResponse{DNASample: *s, Expired: s.IsExpired(timeNow())}
}

func (s *sampleService) apply(ctx context.Context, sample *model.DNASample, req SampleRequest) error {
	if req.ReceivedDate.Before(req.CollectionDate) {
		return invalid("received_date cannot be before collection_date")
	}
	if req.ExpiryDate != nil && req.ExpiryDate.Before(req.CollectionDate) {
		return invalid("expiry_date cannot be before collection_date")
	}
	if err := s.refs.check(ctx, req.CaseID, req.ScientificOfficerID, req.StorageLocationID, model.StorageTypeSample); err != nil {
		return err
	}

	sample.CaseID = req.CaseID
	sample.SampleType = strings.TrimSpace(req.SampleType)
	sample.SampleSource = req.SampleSource
	sample.CollectionDate = req.CollectionDate
	sample.ReceivedDate = req.ReceivedDate
	sample.LabRegisterNumber = strings.TrimSpace(req.LabRegisterNumber)
	sample.ScientificOfficerID = req.ScientificOfficerID
	sample.StorageLocationID = req.StorageLocationID
	sample.PackagingInfo = req.PackagingInfo
	sample.ExpiryDate = req.ExpiryDate
	if code := strings.TrimSpace(req.Barcode); code != "" {
		sample.Barcode = code
	}
	return nil
}

func (s *sampleService) CreateSample(ctx context.Context, req SampleRequest) (*SampleResponse, error) {
	sample := &model.DNASample{}
	if err := s.apply(ctx, sample, req); err != nil {
		return nil, err
	}
	if sample.Barcode == "" {
		sample.Barcode = barcode.Sample(timeNow())
	}
	if err := s.samples.Create(ctx, sample); err != nil {
		return nil, translate(err, "DNA sample")
	}
	return toSampleResponse(sample), nil
}

func (s *sampleService) GetSample(ctx context.Context, id uint) (*SampleResponse, error) {
	sample, err := s.samples.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "DNA sample")
	}
	return toSampleResponse(sample), nil
}

func (s *sampleService) ListSamples(ctx context.Context, filter SampleFilter, page, limit int) ([]SampleResponse, int64, error) {
	samples, total, err := s.samples.List(ctx, filter.CaseID, strings.TrimSpace(filter.Search), page, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]SampleResponse, 0, len(samples))
	for i := range samples {
		res = append(res, *toSampleResponse(&samples[i]))
	}
	return res, total, nil
}

func (s *sampleService) UpdateSample(ctx context.Context, id uint, req SampleRequest) (*SampleResponse, error) {
	sample, err := s.samples.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "DNA sample")
	}
	if err := s.apply(ctx, sample, req); err != nil {
		return nil, err
	}
	sample.Case, sample.Officer, sample.Location, sample.Movements = nil, nil, nil, nil
	if err := s.samples.Update(ctx, sample); err != nil {
		return nil, translate(err, "DNA sample")
	}
	return toSampleResponse(sample), nil
}

func (s *sampleService) DeleteSample(ctx context.Context, id uint) error {
	if _, err := s.samples.FindByID(ctx, id); err != nil {
		return translate(err, "DNA sample")
	}
	return translate(s.samples.Delete(ctx, id), "DNA sample")
}

// evidenceRefs validates the foreign keys shared by samples and reports
type evidenceRefs struct {
	cases   repository.CaseRepository
	users   repository.UserRepository
	storage repository.StorageRepository
}

func (r evidenceRefs) check(ctx context.Context, caseID uint, officerID, locationID *uint, locationType string) error {
	if _, err := r.cases.FindByID(ctx, caseID); err != nil {
		return translateRef(err, "case")
	}
	if officerID != nil {
		officer, err := r.users.GetByID(ctx, *officerID)
		if err != nil {
			return translateRef(err, "scientific officer")
		}
		if officer.RoleName() != model.RoleScientificOfficer {
			return invalid("user %d is not a %s", officer.ID, model.RoleScientificOfficer)
		}
	}
	if locationID != nil {
		loc, err := r.storage.FindByID(ctx, *locationID)
		if err != nil {
			return translateRef(err, "storage location")
		}
		if loc.Type != locationType {
			return invalid("storage location %d holds %ss, not %ss", loc.ID, loc.Type, locationType)
		}
	}
	return nil
}
