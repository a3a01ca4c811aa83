// Package audit records trade activity on the user's consensus topic.
package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nsebridge/neo/internal/common"
	"github.com/nsebridge/neo/internal/interfaces"
	"github.com/nsebridge/neo/internal/models"
)

// Service implements the AuditService interface. The ledger topic is the
// authoritative log; the backend holds a queryable mirror.
type Service struct {
	backend interfaces.BackendClient
	ledger  interfaces.LedgerClient
	journal interfaces.Journal
	logger  *common.Logger
}

// NewService creates an audit service
func NewService(backend interfaces.BackendClient, ledger interfaces.LedgerClient, journal interfaces.Journal, logger *common.Logger) *Service {
	return &Service{
		backend: backend,
		ledger:  ledger,
		journal: journal,
		logger:  logger,
	}
}

var _ interfaces.AuditService = (*Service)(nil)

// Record appends a message to the user's main topic, creating the topic
// on first use. Topic creation and the first write are separate
// transactions; a mirror failure between them is journaled, not fatal.
func (s *Service) Record(ctx context.Context, sess interfaces.AuditSession, message string) error {
	topicID, err := s.mainTopicID(ctx, sess)
	if err != nil {
		return err
	}

	if topicID == "" {
		topicID, err = s.createTopic(ctx, sess)
		if err != nil {
			return err
		}
	}

	txID, err := s.ledger.SubmitTopicMessage(ctx, sess.Signer, topicID, []byte(message))
	if err != nil {
		return fmt.Errorf("failed to submit audit message: %w", err)
	}

	s.logger.Debug().Str("topic", topicID).Str("tx_id", txID).Msg("Audit message submitted")

	if err := s.backend.AddTopicMessage(ctx, sess.Token, topicID, message); err != nil {
		s.recordGap(sess.UserID, topicID, "message_mirror", err.Error())
	}

	return nil
}

// mainTopicID returns the user's first topic, or empty when none exists.
func (s *Service) mainTopicID(ctx context.Context, sess interfaces.AuditSession) (string, error) {
	topics, err := s.backend.GetUserTopics(ctx, sess.Token, sess.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to list topics: %w", err)
	}
	if len(topics) == 0 {
		return "", nil
	}
	return topics[0].TopicID, nil
}

// createTopic creates the fee-gated ledger topic and mirrors it to the
// backend.
func (s *Service) createTopic(ctx context.Context, sess interfaces.AuditSession) (string, error) {
	memo := fmt.Sprintf("%s-%s: %s conversation with Neo", sess.UserID, sess.Signer.AccountID, sess.Signer.AccountID)

	topicID, err := s.ledger.CreateAuditTopic(ctx, sess.Signer, memo)
	if err != nil {
		return "", fmt.Errorf("failed to create audit topic: %w", err)
	}

	s.logger.Info().Str("topic", topicID).Str("user_id", sess.UserID).Msg("Audit topic created")

	if _, err := s.backend.CreateTopic(ctx, sess.Token, topicID, memo); err != nil {
		// The ledger topic exists either way; losing the mirror must not
		// orphan it silently.
		s.recordGap(sess.UserID, topicID, "topic_mirror", err.Error())
	}

	return topicID, nil
}

func (s *Service) recordGap(userID, topicID, stage, detail string) {
	gap := &models.AuditGap{
		ID:      uuid.NewString(),
		UserID:  userID,
		TopicID: topicID,
		Stage:   stage,
		Detail:  detail,
	}
	if err := s.journal.PutAuditGap(gap); err != nil {
		s.logger.Error().Err(err).Str("stage", stage).Msg("Failed to journal audit gap")
	}
}
