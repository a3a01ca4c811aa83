// Package storage implements the reconciliation journal using BadgerHold.
// It persists the intermediate states of operations that span the ledger
// and the backend, so a failed half is never silently lost.
package storage

import (
	"fmt"
	"os"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/nsebridge/neo/internal/common"
	"github.com/nsebridge/neo/internal/interfaces"
	"github.com/nsebridge/neo/internal/models"
)

// Journal implements interfaces.Journal using BadgerHold.
type Journal struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewJournal opens (creating if needed) the journal at path.
func NewJournal(logger *common.Logger, path string) (*Journal, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("Journal opened")
	return &Journal{db: db, logger: logger}, nil
}

var _ interfaces.Journal = (*Journal)(nil)

// --- Redeem records ---

func (j *Journal) PutRedeem(rec *models.RedeemRecord) error {
	now := time.Now()
	var existing models.RedeemRecord
	if err := j.db.Get(rec.ID, &existing); err == nil {
		rec.CreatedAt = existing.CreatedAt
	} else if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	if err := j.db.Upsert(rec.ID, rec); err != nil {
		return fmt.Errorf("failed to save redeem record '%s': %w", rec.ID, err)
	}
	j.logger.Debug().Str("id", rec.ID).Str("phase", string(rec.Phase)).Msg("Redeem record saved")
	return nil
}

func (j *Journal) GetRedeem(id string) (*models.RedeemRecord, error) {
	var rec models.RedeemRecord
	if err := j.db.Get(id, &rec); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("redeem record '%s' not found", id)
		}
		return nil, fmt.Errorf("failed to get redeem record '%s': %w", id, err)
	}
	return &rec, nil
}

func (j *Journal) ListRedeemsByPhase(phase models.RedeemPhase) ([]models.RedeemRecord, error) {
	var recs []models.RedeemRecord
	if err := j.db.Find(&recs, badgerhold.Where("Phase").Eq(phase)); err != nil {
		return nil, fmt.Errorf("failed to list redeem records: %w", err)
	}
	return recs, nil
}

// --- Fee idempotency tokens ---

func (j *Journal) PutFeeToken(tok *models.FeeToken) error {
	if tok.CreatedAt.IsZero() {
		tok.CreatedAt = time.Now()
	}
	if err := j.db.Upsert(tok.Ref, tok); err != nil {
		return fmt.Errorf("failed to save fee token '%s': %w", tok.Ref, err)
	}
	return nil
}

func (j *Journal) GetFeeToken(ref string) (*models.FeeToken, error) {
	var tok models.FeeToken
	if err := j.db.Get(ref, &tok); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get fee token '%s': %w", ref, err)
	}
	return &tok, nil
}

// --- Audit gaps ---

func (j *Journal) PutAuditGap(gap *models.AuditGap) error {
	if gap.CreatedAt.IsZero() {
		gap.CreatedAt = time.Now()
	}
	if err := j.db.Upsert(gap.ID, gap); err != nil {
		return fmt.Errorf("failed to save audit gap '%s': %w", gap.ID, err)
	}
	j.logger.Warn().Str("id", gap.ID).Str("stage", gap.Stage).Msg("Audit gap recorded")
	return nil
}

func (j *Journal) ListAuditGaps() ([]models.AuditGap, error) {
	var gaps []models.AuditGap
	if err := j.db.Find(&gaps, nil); err != nil {
		return nil, fmt.Errorf("failed to list audit gaps: %w", err)
	}
	return gaps, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}
