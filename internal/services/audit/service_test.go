package audit

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nsebridge/neo/internal/common"
	"github.com/nsebridge/neo/internal/interfaces"
	"github.com/nsebridge/neo/internal/models"
)

type stubBackend struct {
	topics       []models.Topic
	topicsErr    error
	createErr    error
	addErr       error
	createdIDs   []string
	addedTopics  []string
	addedMessage string
}

func (s *stubBackend) Login(ctx context.Context, email, password string) (string, error) {
	return "token", nil
}

func (s *stubBackend) SessionExpired(token string) bool { return false }

func (s *stubBackend) GetProfile(ctx context.Context, token string) (*models.UserProfile, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubBackend) MintTokens(ctx context.Context, token, stockCode string, amount decimal.Decimal) (*models.MintTransaction, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubBackend) BurnTokens(ctx context.Context, token, stockCode string, amount decimal.Decimal, ledgerTxID string) (*models.MintTransaction, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubBackend) SellTokens(ctx context.Context, token, stockCode string, amount decimal.Decimal, targetAsset, accountID string) (*models.MintTransaction, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubBackend) DeductFee(ctx context.Context, token, ref string) error {
	return fmt.Errorf("not implemented")
}

func (s *stubBackend) CreateTopic(ctx context.Context, token, topicID, memo string) (*models.Topic, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.createdIDs = append(s.createdIDs, topicID)
	return &models.Topic{TopicID: topicID, Memo: memo}, nil
}

func (s *stubBackend) AddTopicMessage(ctx context.Context, token, topicID, message string) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.addedTopics = append(s.addedTopics, topicID)
	s.addedMessage = message
	return nil
}

func (s *stubBackend) GetUserTopics(ctx context.Context, token, userID string) ([]models.Topic, error) {
	if s.topicsErr != nil {
		return nil, s.topicsErr
	}
	return s.topics, nil
}

type stubLedger struct {
	createErr    error
	submitErr    error
	createdMemos []string
	submitted    []string
}

func (s *stubLedger) TransferToTreasury(ctx context.Context, signer interfaces.SigningIdentity, tokenID string, amount int64) (string, string, error) {
	return "", "", fmt.Errorf("not implemented")
}

func (s *stubLedger) CreateAuditTopic(ctx context.Context, signer interfaces.SigningIdentity, memo string) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	s.createdMemos = append(s.createdMemos, memo)
	return "0.0.7777", nil
}

func (s *stubLedger) SubmitTopicMessage(ctx context.Context, signer interfaces.SigningIdentity, topicID string, message []byte) (string, error) {
	if s.submitErr != nil {
		return "", s.submitErr
	}
	s.submitted = append(s.submitted, topicID)
	return "0.0.1001@555.666", nil
}

type memJournal struct {
	gaps []models.AuditGap
}

func (m *memJournal) PutRedeem(rec *models.RedeemRecord) error { return nil }
func (m *memJournal) GetRedeem(id string) (*models.RedeemRecord, error) {
	return nil, fmt.Errorf("not found")
}
func (m *memJournal) ListRedeemsByPhase(phase models.RedeemPhase) ([]models.RedeemRecord, error) {
	return nil, nil
}
func (m *memJournal) PutFeeToken(tok *models.FeeToken) error { return nil }

func (m *memJournal) GetFeeToken(ref string) (*models.FeeToken, error) { return nil, nil }
func (m *memJournal) PutAuditGap(gap *models.AuditGap) error {
	m.gaps = append(m.gaps, *gap)
	return nil
}
func (m *memJournal) ListAuditGaps() ([]models.AuditGap, error) { return m.gaps, nil }
func (m *memJournal) Close() error                              { return nil }

var testSession = interfaces.AuditSession{
	Token:  "token",
	UserID: "user1",
	Signer: interfaces.SigningIdentity{AccountID: "0.0.1001", PrivateKey: "302e..."},
}

func TestRecord_UsesExistingMainTopic(t *testing.T) {
	backend := &stubBackend{topics: []models.Topic{
		{TopicID: "0.0.9001"},
		{TopicID: "0.0.9002"},
	}}
	ledger := &stubLedger{}
	svc := NewService(backend, ledger, &memJournal{}, common.NewSilentLogger())

	if err := svc.Record(context.Background(), testSession, "issue 10 KCB"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	// First topic is the main topic.
	if len(ledger.submitted) != 1 || ledger.submitted[0] != "0.0.9001" {
		t.Errorf("submitted to %v, want [0.0.9001]", ledger.submitted)
	}
	if len(ledger.createdMemos) != 0 {
		t.Errorf("topic created despite existing main topic: %v", ledger.createdMemos)
	}
	if backend.addedMessage != "issue 10 KCB" {
		t.Errorf("mirrored message = %q", backend.addedMessage)
	}
}

func TestRecord_CreatesTopicOnFirstUse(t *testing.T) {
	backend := &stubBackend{}
	ledger := &stubLedger{}
	svc := NewService(backend, ledger, &memJournal{}, common.NewSilentLogger())

	if err := svc.Record(context.Background(), testSession, "hello"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if len(ledger.createdMemos) != 1 {
		t.Fatalf("topics created = %d, want 1", len(ledger.createdMemos))
	}
	if !strings.Contains(ledger.createdMemos[0], "user1-0.0.1001") {
		t.Errorf("memo = %q, want user and account in memo", ledger.createdMemos[0])
	}
	if len(backend.createdIDs) != 1 || backend.createdIDs[0] != "0.0.7777" {
		t.Errorf("backend mirror created = %v, want [0.0.7777]", backend.createdIDs)
	}
	if len(ledger.submitted) != 1 || ledger.submitted[0] != "0.0.7777" {
		t.Errorf("submitted to %v, want the new topic", ledger.submitted)
	}
}

func TestRecord_MirrorFailureJournaledNotFatal(t *testing.T) {
	backend := &stubBackend{createErr: fmt.Errorf("HTTP 500")}
	ledger := &stubLedger{}
	journal := &memJournal{}
	svc := NewService(backend, ledger, journal, common.NewSilentLogger())

	if err := svc.Record(context.Background(), testSession, "hello"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if len(journal.gaps) != 1 {
		t.Fatalf("gaps = %d, want 1", len(journal.gaps))
	}
	if journal.gaps[0].Stage != "topic_mirror" {
		t.Errorf("gap stage = %q, want topic_mirror", journal.gaps[0].Stage)
	}
	if journal.gaps[0].TopicID != "0.0.7777" {
		t.Errorf("gap topic = %q, want the ledger topic id", journal.gaps[0].TopicID)
	}
}

func TestRecord_MessageMirrorFailureJournaled(t *testing.T) {
	backend := &stubBackend{
		topics: []models.Topic{{TopicID: "0.0.9001"}},
		addErr: fmt.Errorf("HTTP 500"),
	}
	journal := &memJournal{}
	svc := NewService(backend, &stubLedger{}, journal, common.NewSilentLogger())

	if err := svc.Record(context.Background(), testSession, "hello"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if len(journal.gaps) != 1 || journal.gaps[0].Stage != "message_mirror" {
		t.Errorf("gaps = %+v, want one message_mirror gap", journal.gaps)
	}
}

func TestRecord_LedgerSubmitFailureIsError(t *testing.T) {
	backend := &stubBackend{topics: []models.Topic{{TopicID: "0.0.9001"}}}
	ledger := &stubLedger{submitErr: fmt.Errorf("message submit failed: INVALID_SIGNATURE")}
	svc := NewService(backend, ledger, &memJournal{}, common.NewSilentLogger())

	err := svc.Record(context.Background(), testSession, "hello")
	if err == nil {
		t.Fatal("expected error when ledger submit fails")
	}
	if len(backend.addedTopics) != 0 {
		t.Errorf("message mirrored despite ledger failure: %v", backend.addedTopics)
	}
}

func TestRecord_TopicListFailureIsError(t *testing.T) {
	backend := &stubBackend{topicsErr: fmt.Errorf("HTTP 503")}
	svc := NewService(backend, &stubLedger{}, &memJournal{}, common.NewSilentLogger())

	if err := svc.Record(context.Background(), testSession, "hello"); err == nil {
		t.Fatal("expected error when topic listing fails")
	}
}
