// Package trade executes trading actions against the backend and ledger.
package trade

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nsebridge/neo/internal/common"
	"github.com/nsebridge/neo/internal/interfaces"
	"github.com/nsebridge/neo/internal/models"
)

// Service implements the TradeService interface
type Service struct {
	backend   interfaces.BackendClient
	ledger    interfaces.LedgerClient
	audit     interfaces.AuditService
	journal   interfaces.Journal
	feeOnNoop bool
	logger    *common.Logger
}

// NewService creates a trade service. feeOnNoop controls whether actions
// that execute nothing still bill the usage fee.
func NewService(backend interfaces.BackendClient, ledger interfaces.LedgerClient, audit interfaces.AuditService, journal interfaces.Journal, feeOnNoop bool, logger *common.Logger) *Service {
	return &Service{
		backend:   backend,
		ledger:    ledger,
		audit:     audit,
		journal:   journal,
		feeOnNoop: feeOnNoop,
		logger:    logger,
	}
}

var _ interfaces.TradeService = (*Service)(nil)

// ExecuteActions validates, authenticates, then runs each action in
// order. The first failing action halts the loop; earlier results are
// returned. Validation and authentication failures return an error with
// no actions executed and no fees charged.
func (s *Service) ExecuteActions(ctx context.Context, actions []models.TradeAction, creds models.Credentials) ([]models.ActionResult, error) {
	// Every action must be valid before any network call is made.
	for i := range actions {
		if err := actions[i].Validate(); err != nil {
			return nil, fmt.Errorf("invalid action %d: %w", i+1, err)
		}
	}

	token, err := s.backend.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	if s.backend.SessionExpired(token) {
		return nil, fmt.Errorf("authentication failed: session token is expired")
	}

	profile, err := s.backend.GetProfile(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	sess := interfaces.AuditSession{
		Token:  token,
		UserID: profile.ID,
		Signer: interfaces.SigningIdentity{
			AccountID:  creds.AccountID,
			PrivateKey: creds.PrivateKey,
		},
	}

	var results []models.ActionResult

	for _, action := range actions {
		result := s.executeAction(ctx, sess, profile, action, creds)
		results = append(results, result)
		if !result.Success {
			s.logger.Warn().
				Str("kind", string(action.Kind)).
				Str("stock", action.StockCode).
				Str("error", result.Message).
				Msg("Action failed, halting batch")
			break
		}
	}

	return results, nil
}

// executeAction runs one action and its post-success bookkeeping. Audit
// and fee failures are reported in the result, never thrown; a completed
// trade is not undone because its paperwork failed.
func (s *Service) executeAction(ctx context.Context, sess interfaces.AuditSession, profile *models.UserProfile, action models.TradeAction, creds models.Credentials) models.ActionResult {
	result := models.ActionResult{Action: action}

	switch action.Kind {
	case models.ActionIssue:
		tx, err := s.backend.MintTokens(ctx, sess.Token, action.StockCode, action.Amount)
		if err != nil {
			result.Message = fmt.Sprintf("mint failed: %v", err)
			return result
		}
		result.Success = true
		result.TxID = tx.LedgerTx
		result.Message = fmt.Sprintf("issued %s %s", action.Amount.String(), action.StockCode)

	case models.ActionRedeem:
		txID, err := s.redeem(ctx, sess, profile, action)
		if err != nil {
			result.Message = err.Error()
			return result
		}
		result.Success = true
		result.TxID = txID
		result.Message = fmt.Sprintf("redeemed %s %s", action.Amount.String(), action.StockCode)

	case models.ActionExchange:
		tx, err := s.backend.SellTokens(ctx, sess.Token, action.StockCode, action.Amount, action.TargetAsset, creds.AccountID)
		if err != nil {
			result.Message = fmt.Sprintf("sell failed: %v", err)
			return result
		}
		result.Success = true
		result.TxID = tx.LedgerTx
		result.Message = fmt.Sprintf("exchanged %s %s for %s", action.Amount.String(), action.StockCode, action.TargetAsset)

	case models.ActionNoop:
		result.Success = true
		result.Message = "no action taken"
		if s.feeOnNoop {
			s.chargeFee(ctx, sess, &result)
		}
		return result
	}

	s.recordAudit(ctx, sess, &result)
	s.chargeFee(ctx, sess, &result)

	return result
}

// redeem is the two-phase flow: ledger transfer to treasury, then backend
// burn. The journal keeps the intermediate state so an interrupted redeem
// can be reconciled.
func (s *Service) redeem(ctx context.Context, sess interfaces.AuditSession, profile *models.UserProfile, action models.TradeAction) (string, error) {
	tokenID := ""
	for _, st := range profile.Stocks {
		if st.StockCode == action.StockCode {
			tokenID = st.TokenID
			break
		}
	}
	if tokenID == "" {
		return "", fmt.Errorf("no token found for stock %s", action.StockCode)
	}

	rec := &models.RedeemRecord{
		ID:        uuid.NewString(),
		UserID:    sess.UserID,
		StockCode: action.StockCode,
		Amount:    action.Amount.String(),
		Phase:     models.RedeemPending,
	}
	if err := s.journal.PutRedeem(rec); err != nil {
		return "", fmt.Errorf("failed to journal redeem: %w", err)
	}

	txID, _, err := s.ledger.TransferToTreasury(ctx, sess.Signer, tokenID, action.Amount.IntPart())
	if err != nil {
		rec.Phase = models.RedeemFailed
		rec.Detail = err.Error()
		s.updateJournal(rec)
		return "", err
	}

	rec.LedgerTxID = txID
	s.updateJournal(rec)

	if _, err := s.backend.BurnTokens(ctx, sess.Token, action.StockCode, action.Amount, txID); err != nil {
		// Tokens reached the treasury but supply was not reduced. The
		// journal entry is the reconciliation handle.
		rec.Phase = models.RedeemOrphaned
		rec.Detail = err.Error()
		s.updateJournal(rec)
		return txID, fmt.Errorf("burn failed after ledger transfer %s: %w", txID, err)
	}

	rec.Phase = models.RedeemConfirmed
	s.updateJournal(rec)

	return txID, nil
}

func (s *Service) updateJournal(rec *models.RedeemRecord) {
	if err := s.journal.PutRedeem(rec); err != nil {
		s.logger.Error().Err(err).Str("id", rec.ID).Msg("Failed to update redeem record")
	}
}

func (s *Service) recordAudit(ctx context.Context, sess interfaces.AuditSession, result *models.ActionResult) {
	message := fmt.Sprintf("%s %s %s: %s",
		result.Action.Kind, result.Action.Amount.String(), result.Action.StockCode, result.Message)
	if err := s.audit.Record(ctx, sess, message); err != nil {
		result.AuditError = err.Error()
		s.logger.Warn().Err(err).Msg("Audit record failed")
	}
}

// chargeFee bills the flat usage fee, keyed by a fresh idempotency
// reference so a retried deduction cannot double-charge.
func (s *Service) chargeFee(ctx context.Context, sess interfaces.AuditSession, result *models.ActionResult) {
	ref := fmt.Sprintf("%s@%s", sess.Signer.AccountID, uuid.NewString())

	tok := &models.FeeToken{Ref: ref, UserID: sess.UserID}
	if err := s.journal.PutFeeToken(tok); err != nil {
		s.logger.Error().Err(err).Str("ref", ref).Msg("Failed to journal fee token")
	}

	if err := s.backend.DeductFee(ctx, sess.Token, ref); err != nil {
		result.FeeError = err.Error()
		s.logger.Warn().Err(err).Str("ref", ref).Msg("Fee deduction failed")
		return
	}

	tok.Charged = true
	if err := s.journal.PutFeeToken(tok); err != nil {
		s.logger.Error().Err(err).Str("ref", ref).Msg("Failed to update fee token")
	}

	result.FeeCharged = true
}
