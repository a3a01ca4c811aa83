package balance

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nsebridge/neo/internal/common"
	"github.com/nsebridge/neo/internal/models"
)

type stubBackend struct {
	loginErr   error
	profileErr error
	profile    *models.UserProfile
	logins     []string
}

func (s *stubBackend) Login(ctx context.Context, email, password string) (string, error) {
	s.logins = append(s.logins, email)
	if s.loginErr != nil {
		return "", s.loginErr
	}
	return "token", nil
}

func (s *stubBackend) SessionExpired(token string) bool { return false }

func (s *stubBackend) GetProfile(ctx context.Context, token string) (*models.UserProfile, error) {
	if s.profileErr != nil {
		return nil, s.profileErr
	}
	return s.profile, nil
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
	return nil, fmt.Errorf("not implemented")
}

func (s *stubBackend) AddTopicMessage(ctx context.Context, token, topicID, message string) error {
	return fmt.Errorf("not implemented")
}

func (s *stubBackend) GetUserTopics(ctx context.Context, token, userID string) ([]models.Topic, error) {
	return nil, fmt.Errorf("not implemented")
}

func testProfile() *models.UserProfile {
	return &models.UserProfile{
		ID: "user1",
		Tokens: []models.TokenBalance{
			{TokenID: "0.0.111", Symbol: "HBAR", Balance: decimal.NewFromInt(100)},
		},
		Stocks: []models.StockBalance{
			{StockCode: "KCB", Quantity: decimal.NewFromInt(50), LockedQuantity: decimal.NewFromInt(5)},
		},
	}
}

func TestGetHoldings_ReturnsProfileHoldings(t *testing.T) {
	backend := &stubBackend{profile: testProfile()}
	svc := NewService(backend, "svc@neo.local", "secret", common.NewSilentLogger())

	tokens, stocks, err := svc.GetHoldings(context.Background(), "user1")
	if err != nil {
		t.Fatalf("GetHoldings failed: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Symbol != "HBAR" {
		t.Errorf("tokens = %+v", tokens)
	}
	if len(stocks) != 1 || stocks[0].StockCode != "KCB" {
		t.Errorf("stocks = %+v", stocks)
	}
}

func TestGetHoldings_LoginFailureDegradesToEmpty(t *testing.T) {
	backend := &stubBackend{loginErr: fmt.Errorf("connection refused")}
	svc := NewService(backend, "svc@neo.local", "secret", common.NewSilentLogger())

	tokens, stocks, err := svc.GetHoldings(context.Background(), "user1")
	if err != nil {
		t.Fatalf("lenient path returned error: %v", err)
	}
	if len(tokens) != 0 || len(stocks) != 0 {
		t.Errorf("tokens=%d stocks=%d, want empty", len(tokens), len(stocks))
	}
	if tokens == nil || stocks == nil {
		t.Error("degraded result should be empty slices, not nil")
	}
}

func TestGetHoldings_ProfileFailureDegradesToEmpty(t *testing.T) {
	backend := &stubBackend{profileErr: fmt.Errorf("HTTP 503")}
	svc := NewService(backend, "svc@neo.local", "secret", common.NewSilentLogger())

	tokens, stocks, err := svc.GetHoldings(context.Background(), "user1")
	if err != nil {
		t.Fatalf("lenient path returned error: %v", err)
	}
	if len(tokens) != 0 || len(stocks) != 0 {
		t.Errorf("tokens=%d stocks=%d, want empty", len(tokens), len(stocks))
	}
}

func TestGetHoldingsStrict_SurfacesFailures(t *testing.T) {
	backend := &stubBackend{loginErr: fmt.Errorf("connection refused")}
	svc := NewService(backend, "svc@neo.local", "secret", common.NewSilentLogger())

	_, _, err := svc.GetHoldingsStrict(context.Background(), "user1")
	if err == nil {
		t.Fatal("strict path must surface upstream failure")
	}
}

func TestGetHoldings_ReauthenticatesPerCall(t *testing.T) {
	backend := &stubBackend{profile: testProfile()}
	svc := NewService(backend, "svc@neo.local", "secret", common.NewSilentLogger())

	svc.GetHoldings(context.Background(), "user1")
	svc.GetHoldings(context.Background(), "user1")

	if len(backend.logins) != 2 {
		t.Errorf("logins = %d, want 2 (no session cache)", len(backend.logins))
	}
}
