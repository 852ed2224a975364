// Copyright (c) 2026 Compostly. All rights reserved.
// Author: rowan.field@compostly.dev

package pile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rowanfield/compostly/internal/platform/ctxutil"
)

// Notifier is the outbound port for pile alerts. The notification package
// provides the real implementation; a nil notifier disables alerting.
type Notifier interface {
	// PileAlert records an alert attached to a pile. Failures must not
	// break the measurement write path.
	PileAlert(ctx context.Context, pileID int64, title, description, alertType string, priority int16) error
}

// Service implements compost pile management and health tracking.
type Service struct {
	pileRepository   PileRepository
	healthRepository HealthRecordRepository
	notifier         Notifier
}

// NewService constructs a new pile [Service] with necessary dependencies.
// notifier may be nil.
func NewService(pileRepo PileRepository, healthRepo HealthRecordRepository, notifier Notifier) *Service {
	return &Service{
		pileRepository:   pileRepo,
		healthRepository: healthRepo,
		notifier:         notifier,
	}
}

// CreatePileInput holds the data required to register a new pile.
//
// There is no owner field: the owner always comes from the authenticated
// identity, never from the payload.
type CreatePileInput struct {
	Name             string
	VolumeAtCreation *float64
	Location         *string
}

// CreatePile registers a new compost pile owned by the given user.
func (service *Service) CreatePile(ctx context.Context, owner string, input CreatePileInput) (*CompostPile, error) {
	pile := &CompostPile{
		Username:         owner,
		Name:             input.Name,
		VolumeAtCreation: input.VolumeAtCreation,
		Location:         input.Location,
	}

	if err := service.pileRepository.Create(ctx, pile); err != nil {
		return nil, err
	}

	return pile, nil
}

// ListMine returns every pile of the given user, newest first. A user with
// no piles gets an empty slice, never an error.
func (service *Service) ListMine(ctx context.Context, owner string) ([]*CompostPile, error) {
	piles, err := service.pileRepository.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("pile_service_list_failed: %w", err)
	}

	if piles == nil {
		piles = []*CompostPile{}
	}
	return piles, nil
}

// RecordHealthInput holds the measurements of one health snapshot. All
// readings are optional.
type RecordHealthInput struct {
	Temperature     *float64
	Moisture        *float64
	NitrogenContent *float64
	CarbonContent   *float64
}

// RecordHealth stores a measurement snapshot for an owned pile and computes
// its score and status server-side.
//
// # Ownership
//
// The pile must belong to owner. A pile that exists but belongs to someone
// else fails with the same NOT_FOUND as a pile that never existed, so the
// endpoint cannot be used to probe pile IDs.
func (service *Service) RecordHealth(ctx context.Context, owner string, pileID int64, input RecordHealthInput) (*HealthRecord, error) {
	// ── 1. Ownership Check ────────────────────────────────────────────────

	ownedPile, err := service.pileRepository.FindOwned(ctx, pileID, owner)
	if err != nil {
		return nil, err
	}

	// ── 2. Scoring ────────────────────────────────────────────────────────

	record := &HealthRecord{
		PileID:          ownedPile.PileID,
		Temperature:     input.Temperature,
		Moisture:        input.Moisture,
		NitrogenContent: input.NitrogenContent,
		CarbonContent:   input.CarbonContent,
	}
	record.HealthScore, record.Status = ComputeHealth(record)

	// ── 3. Persistence ────────────────────────────────────────────────────

	if err := service.healthRepository.Create(ctx, record); err != nil {
		return nil, err
	}

	// ── 4. Alerting ───────────────────────────────────────────────────────

	service.alertIfCritical(ctx, ownedPile, record)

	return record, nil
}

// ListHealth returns the health timeline of an owned pile, newest first.
// Ownership rules match [Service.RecordHealth].
func (service *Service) ListHealth(ctx context.Context, owner string, pileID int64) ([]*HealthRecord, error) {
	if _, err := service.pileRepository.FindOwned(ctx, pileID, owner); err != nil {
		return nil, err
	}

	records, err := service.healthRepository.ListByPile(ctx, pileID)
	if err != nil {
		return nil, fmt.Errorf("pile_service_list_health_failed: %w", err)
	}

	if records == nil {
		records = []*HealthRecord{}
	}
	return records, nil
}

// alertIfCritical raises a notification when a snapshot signals a pile in
// trouble. Alert failures are logged and swallowed: a broken notification
// store must not reject a valid measurement.
func (service *Service) alertIfCritical(ctx context.Context, pile *CompostPile, record *HealthRecord) {
	if service.notifier == nil || record.Status != StatusCritical {
		return
	}

	title := fmt.Sprintf("Pile %q needs urgent attention", pile.Name)
	description := fmt.Sprintf("Latest health score dropped to %d.", record.HealthScore)

	if err := service.notifier.PileAlert(ctx, pile.PileID, title, description, "health_alert", 1); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "pile_health_alert_failed",
			slog.Int64("pile_id", pile.PileID),
			slog.String("error", err.Error()),
		)
	}
}
