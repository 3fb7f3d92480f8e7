// Package audit writes the append-only audit trail.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"dnaarchive/internal/model"
	"dnaarchive/internal/obs"
	"dnaarchive/internal/repository"

	"gorm.io/datatypes"
)

// Entry is one audit record before it is persisted. EntityID 0 means not applicable.
type Entry struct {
	EntityType string
	EntityID   uint
	Action     string
	UserID     uint
	// Details is either raw request bytes (stored verbatim when they are JSON)
	// or any value that marshals to JSON.
	Details any
}

// Notifier receives every trail row after it is committed
type Notifier interface {
	Publish(trail *model.AuditTrail)
}

type Recorder interface {
	Record(ctx context.Context, entry Entry) (*model.AuditTrail, error)
}

type recorder struct {
	repo     repository.AuditRepository
	notifier Notifier
}

// NewRecorder returns a Recorder; notifier may be nil
func NewRecorder(repo repository.AuditRepository, notifier Notifier) Recorder {
	return &recorder{repo: repo, notifier: notifier}
}

func (r *recorder) Record(ctx context.Context, entry Entry) (*model.AuditTrail, error) {
	details, err := encodeDetails(entry.Details)
	if err != nil {
		obs.ObserveAuditRecord(false)
		return nil, fmt.Errorf("failed to encode audit details: %w", err)
	}

	trail := &model.AuditTrail{
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Action:      entry.Action,
		PerformedBy: entry.UserID,
		Details:     details,
	}
	if err := r.repo.Create(ctx, trail); err != nil {
		obs.ObserveAuditRecord(false)
		return nil, fmt.Errorf("failed to write audit trail: %w", err)
	}
	obs.ObserveAuditRecord(true)

	if r.notifier != nil {
		repository.AfterCommit(ctx, func() { r.notifier.Publish(trail) })
	}
	return trail, nil
}

func encodeDetails(v any) (datatypes.JSON, error) {
	switch d := v.(type) {
	case nil:
		return datatypes.JSON("{}"), nil
	case json.RawMessage:
		return rawDetails(d)
	case []byte:
		return rawDetails(d)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// rawDetails keeps valid JSON byte-for-byte; anything else is stored as a JSON string
func rawDetails(raw []byte) (datatypes.JSON, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return datatypes.JSON("{}"), nil
	}
	if json.Valid(raw) {
		out := make([]byte, len(raw))
		copy(out, raw)
		return datatypes.JSON(out), nil
	}
	b, err := json.Marshal(string(raw))
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
