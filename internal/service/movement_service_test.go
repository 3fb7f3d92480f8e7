package service

import (
	"context"
	"testing"
	"time"

	"dnaarchive/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memMoves struct {
	samples []model.SampleMovement
	reports []model.ReportMovement
}

func (m *memMoves) CreateSampleMovement(_ context.Context, mv *model.SampleMovement) error {
	mv.ID = uint(len(m.samples) + 1)
	m.samples = append(m.samples, *mv)
	return nil
}

func (m *memMoves) CreateReportMovement(_ context.Context, mv *model.ReportMovement) error {
	mv.ID = uint(len(m.reports) + 1)
	m.reports = append(m.reports, *mv)
	return nil
}

func (m *memMoves) FindSampleMovement(_ context.Context, id uint) (*model.SampleMovement, error) {
	if id == 0 || int(id) > len(m.samples) {
		return nil, gorm.ErrRecordNotFound
	}
	cp := m.samples[id-1]
	return &cp, nil
}

func (m *memMoves) FindReportMovement(_ context.Context, id uint) (*model.ReportMovement, error) {
	if id == 0 || int(id) > len(m.reports) {
		return nil, gorm.ErrRecordNotFound
	}
	cp := m.reports[id-1]
	return &cp, nil
}

func (m *memMoves) MarkSampleMovementReturned(_ context.Context, id uint, at time.Time) (bool, error) {
	mv := &m.samples[id-1]
	if mv.ReturnedDate != nil {
		return false, nil
	}
	mv.ReturnedDate = &at
	return true, nil
}

func (m *memMoves) MarkReportMovementReturned(_ context.Context, id uint, at time.Time) (bool, error) {
	mv := &m.reports[id-1]
	if mv.ReturnedDate != nil {
		return false, nil
	}
	mv.ReturnedDate = &at
	return true, nil
}

func (m *memMoves) ListSampleMovements(_ context.Context, overdueOnly bool, now time.Time, _, _ int) ([]model.SampleMovement, int64, error) {
	var out []model.SampleMovement
	for _, mv := range m.samples {
		if !overdueOnly || mv.IsOverdue(now) {
			out = append(out, mv)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memMoves) ListReportMovements(_ context.Context, overdueOnly bool, now time.Time, _, _ int) ([]model.ReportMovement, int64, error) {
	var out []model.ReportMovement
	for _, mv := range m.reports {
		if !overdueOnly || mv.IsOverdue(now) {
			out = append(out, mv)
		}
	}
	return out, int64(len(out)), nil
}

type memSamples struct {
	rows map[uint]*model.DNASample
}

func (m *memSamples) Create(_ context.Context, s *model.DNASample) error {
	s.ID = uint(len(m.rows) + 1)
	m.rows[s.ID] = s
	return nil
}
func (m *memSamples) Update(_ context.Context, s *model.DNASample) error {
	m.rows[s.ID] = s
	return nil
}
func (m *memSamples) Delete(_ context.Context, id uint) error { delete(m.rows, id); return nil }
func (m *memSamples) FindByID(_ context.Context, id uint) (*model.DNASample, error) {
	s, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}
func (m *memSamples) List(context.Context, uint, string, int, int) ([]model.DNASample, int64, error) {
	return nil, 0, nil
}

type memReports struct {
	rows map[uint]*model.Report
}

func (m *memReports) Create(_ context.Context, r *model.Report) error {
	r.ID = uint(len(m.rows) + 1)
	m.rows[r.ID] = r
	return nil
}
func (m *memReports) Update(_ context.Context, r *model.Report) error { m.rows[r.ID] = r; return nil }
func (m *memReports) Delete(_ context.Context, id uint) error         { delete(m.rows, id); return nil }
func (m *memReports) FindByID(_ context.Context, id uint) (*model.Report, error) {
	r, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}
func (m *memReports) List(context.Context, uint, string, int, int) ([]model.Report, int64, error) {
	return nil, 0, nil
}

func newMovementFixture() (*memMoves, MovementService) {
	moves := &memMoves{}
	samples := &memSamples{rows: map[uint]*model.DNASample{1: {ID: 1, Barcode: "SMP-1"}}}
	reports := &memReports{rows: map[uint]*model.Report{1: {ID: 1, Barcode: "RPT-1"}}}
	return moves, NewMovementService(moves, samples, reports, &inlineTx{})
}

func TestRecordSampleMovement(t *testing.T) {
	moves, svc := newMovementFixture()
	due := timeNow().Add(48 * time.Hour)

	m, err := svc.RecordSampleMovement(context.Background(), 1, 9, MovementRequest{ActionType: model.MovementCheckOut, Reason: " court ", ExpectedReturnDate: &due})
	require.NoError(t, err)
	assert.Equal(t, uint(9), m.PerformedBy)
	assert.Equal(t, "court", m.Reason)
	assert.Len(t, moves.samples, 1)

	_, err = svc.RecordSampleMovement(context.Background(), 404, 9, MovementRequest{ActionType: model.MovementIn})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordMovementValidation(t *testing.T) {
	_, svc := newMovementFixture()
	past := timeNow().Add(-48 * time.Hour)
	future := timeNow().Add(time.Hour)

	tests := []struct {
		name string
		req  MovementRequest
	}{
		{"disposal without authority", MovementRequest{ActionType: model.MovementDisposal, DisposalMethod: strPtr("incineration")}},
		{"return date on IN", MovementRequest{ActionType: model.MovementIn, ExpectedReturnDate: &future}},
		{"return before checkout", MovementRequest{ActionType: model.MovementOut, ExpectedReturnDate: &past}},
		{"movement in the future", MovementRequest{ActionType: model.MovementIn, Date: &future}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordSampleMovement(context.Background(), 1, 9, tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := svc.RecordSampleMovement(context.Background(), 1, 9, MovementRequest{
		ActionType: model.MovementDisposal, DisposalMethod: strPtr("incineration"), DisposalAuthority: strPtr("Court order 12/2024"),
	})
	assert.NoError(t, err)
}

func TestReturnSampleMovementOnce(t *testing.T) {
	moves, svc := newMovementFixture()
	out, err := svc.RecordSampleMovement(context.Background(), 1, 9, MovementRequest{ActionType: model.MovementOut})
	require.NoError(t, err)

	returned, err := svc.ReturnSampleMovement(context.Background(), out.ID, 7)
	require.NoError(t, err)
	require.NotNil(t, returned.ReturnedDate)

	require.Len(t, moves.samples, 2)
	assert.Equal(t, model.MovementReturn, moves.samples[1].ActionType)
	assert.Equal(t, uint(7), moves.samples[1].PerformedBy)

	_, err = svc.ReturnSampleMovement(context.Background(), out.ID, 7)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.ReturnSampleMovement(context.Background(), moves.samples[1].ID, 7)
	assert.ErrorIs(t, err, ErrInvalidInput, "a RETURN row itself cannot be returned")

	_, err = svc.ReturnSampleMovement(context.Background(), 99, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReturnReportMovement(t *testing.T) {
	moves, svc := newMovementFixture()
	out, err := svc.RecordReportMovement(context.Background(), 1, 9, MovementRequest{ActionType: model.MovementCheckOut})
	require.NoError(t, err)

	_, err = svc.ReturnReportMovement(context.Background(), out.ID, 9)
	require.NoError(t, err)
	_, err = svc.ReturnReportMovement(context.Background(), out.ID, 9)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Len(t, moves.reports, 2)
}

func TestListOverdueMovements(t *testing.T) {
	moves, svc := newMovementFixture()
	late := timeNow().Add(-time.Hour)
	moves.samples = []model.SampleMovement{
		{ID: 1, SampleID: 1, Custody: model.Custody{ActionType: model.MovementOut, Date: late.Add(-time.Hour), ExpectedReturnDate: &late}},
		{ID: 2, SampleID: 1, Custody: model.Custody{ActionType: model.MovementIn, Date: late}},
	}

	all, total, err := svc.ListSampleMovements(context.Background(), false, 1, 20)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, int64(2), total)

	overdue, _, err := svc.ListSampleMovements(context.Background(), true, 1, 20)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, uint(1), overdue[0].ID)
}

func strPtr(s string) *string { return &s }
