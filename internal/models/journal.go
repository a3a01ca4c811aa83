package models

import "time"

// RedeemPhase tracks the two-phase redeem flow across the ledger transfer
// and the backend burn.
type RedeemPhase string

const (
	// RedeemPending: ledger transfer submitted, burn not yet confirmed.
	RedeemPending RedeemPhase = "pending"
	// RedeemConfirmed: burn acknowledged by the backend.
	RedeemConfirmed RedeemPhase = "confirmed"
	// RedeemOrphaned: ledger transfer succeeded but the burn failed.
	// Tokens moved to treasury without a matching supply reduction.
	RedeemOrphaned RedeemPhase = "orphaned"
	// RedeemFailed: the ledger transfer itself failed, nothing moved.
	RedeemFailed RedeemPhase = "failed"
)

// RedeemRecord is the durable state of one redeem action.
type RedeemRecord struct {
	ID         string      `badgerhold:"key" json:"id"`
	UserID     string      `json:"user_id"`
	StockCode  string      `json:"stock_code"`
	Amount     string      `json:"amount"`
	LedgerTxID string      `json:"ledger_tx_id,omitempty"`
	Phase      RedeemPhase `json:"phase"`
	Detail     string      `json:"detail,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// FeeToken is an idempotency record for a usage-fee deduction.
type FeeToken struct {
	Ref       string    `badgerhold:"key" json:"ref"`
	UserID    string    `json:"user_id"`
	Charged   bool      `json:"charged"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditGap records a ledger write whose backend mirror failed, so the two
// stores disagree until reconciled.
type AuditGap struct {
	ID        string    `badgerhold:"key" json:"id"`
	UserID    string    `json:"user_id"`
	TopicID   string    `json:"topic_id,omitempty"`
	Stage     string    `json:"stage"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}
