package interfaces

import "github.com/nsebridge/neo/internal/models"

// Journal is the durable reconciliation store. It persists the
// intermediate states of multi-system operations so a failed half can be
// found and repaired later.
type Journal interface {
	// PutRedeem inserts or updates a redeem record.
	PutRedeem(rec *models.RedeemRecord) error
	// GetRedeem fetches a redeem record by id.
	GetRedeem(id string) (*models.RedeemRecord, error)
	// ListRedeemsByPhase returns all records in the given phase.
	ListRedeemsByPhase(phase models.RedeemPhase) ([]models.RedeemRecord, error)

	// PutFeeToken records a fee idempotency token.
	PutFeeToken(tok *models.FeeToken) error
	// GetFeeToken fetches a fee token by reference, nil if absent.
	GetFeeToken(ref string) (*models.FeeToken, error)

	// PutAuditGap records a failed backend mirror of a ledger write.
	PutAuditGap(gap *models.AuditGap) error
	// ListAuditGaps returns all unreconciled gaps.
	ListAuditGaps() ([]models.AuditGap, error)

	Close() error
}
