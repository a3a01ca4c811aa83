package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ActionKind identifies a trading action.
type ActionKind string

const (
	ActionIssue    ActionKind = "issue"
	ActionRedeem   ActionKind = "redeem"
	ActionExchange ActionKind = "exchange"
	ActionNoop     ActionKind = "noop"
)

// TradeAction is a single instruction inside an execute-trading-actions call.
type TradeAction struct {
	Kind        ActionKind      `json:"kind"`
	StockCode   string          `json:"stock_code"`
	Amount      decimal.Decimal `json:"amount"`
	TargetAsset string          `json:"target_asset,omitempty"`
	Reason      string          `json:"reason,omitempty"`
}

// Validate checks the action is executable before any network call is made.
func (a *TradeAction) Validate() error {
	switch a.Kind {
	case ActionIssue, ActionRedeem, ActionExchange:
		if a.StockCode == "" {
			return fmt.Errorf("action %s requires a stock code", a.Kind)
		}
		if !a.Amount.IsPositive() {
			return fmt.Errorf("action %s %s: amount must be greater than zero", a.Kind, a.StockCode)
		}
		if a.Kind == ActionExchange && strings.TrimSpace(a.TargetAsset) == "" {
			return fmt.Errorf("action exchange %s: target asset is required", a.StockCode)
		}
		return nil
	case ActionNoop:
		return nil
	default:
		return fmt.Errorf("unknown action kind %q", a.Kind)
	}
}

// Credentials carries the caller's backend login and ledger signing identity.
type Credentials struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	AccountID  string `json:"account_id"`
	PrivateKey string `json:"private_key"`
}

// ActionResult records the outcome of one executed action.
type ActionResult struct {
	Action     TradeAction `json:"action"`
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	TxID       string      `json:"tx_id,omitempty"`
	AuditError string      `json:"audit_error,omitempty"`
	FeeError   string      `json:"fee_error,omitempty"`
	FeeCharged bool        `json:"fee_charged"`
}

// MintTransaction is the backend's record of a mint/burn/sell operation.
type MintTransaction struct {
	ID        string          `json:"id"`
	StockCode string          `json:"stock_code"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	LedgerTx  string          `json:"ledger_tx,omitempty"`
}
