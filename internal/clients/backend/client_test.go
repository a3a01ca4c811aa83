package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"

	"github.com/nsebridge/neo/internal/common"
)

func newTestClient(url string) *Client {
	return NewClient(WithBaseURL(url), WithLogger(common.NewSilentLogger()))
}

func TestLogin_ReturnsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "user@example.com" {
			t.Errorf("email = %q", body["email"])
		}

		json.NewEncoder(w).Encode(map[string]string{"token": "jwt-token"})
	}))
	defer srv.Close()

	token, err := newTestClient(srv.URL).Login(context.Background(), "user@example.com", "pw")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token != "jwt-token" {
		t.Errorf("token = %q", token)
	}
}

func TestLogin_MissingTokenIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).Login(context.Background(), "a@b.c", "pw"); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestLogin_Non2xxIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Login(context.Background(), "a@b.c", "wrong")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", apiErr.StatusCode)
	}
	if apiErr.Message != "invalid credentials" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestGetProfile_MapsHoldings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("auth header = %q", got)
		}
		w.Write([]byte(`{
			"user": {
				"id": "user1",
				"email": "user@example.com",
				"accountId": "0.0.1001",
				"tokens": [
					{"tokenId": "0.0.111", "symbol": "HBAR", "balance": 100.5}
				],
				"stockHoldings": [
					{"stockCode": "KCB", "quantity": 50, "lockedQuantity": 5, "tokenId": "0.0.222"}
				]
			}
		}`))
	}))
	defer srv.Close()

	profile, err := newTestClient(srv.URL).GetProfile(context.Background(), "tok")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}

	if profile.ID != "user1" || profile.AccountID != "0.0.1001" {
		t.Errorf("profile = %+v", profile)
	}
	if len(profile.Tokens) != 1 || !profile.Tokens[0].Balance.Equal(decimal.RequireFromString("100.5")) {
		t.Errorf("tokens = %+v", profile.Tokens)
	}
	if len(profile.Stocks) != 1 || !profile.Stocks[0].LockedQuantity.Equal(decimal.NewFromInt(5)) {
		t.Errorf("stocks = %+v", profile.Stocks)
	}
}

func TestMintTokens_UppercasesCodeInPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tokens/KCB/mint" {
			t.Errorf("path = %s, want /tokens/KCB/mint", r.URL.Path)
		}
		w.Write([]byte(`{"transaction": {"id": "t1", "stockCode": "KCB", "amount": 100, "status": "completed"}}`))
	}))
	defer srv.Close()

	tx, err := newTestClient(srv.URL).MintTokens(context.Background(), "tok", "kcb", decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("MintTokens failed: %v", err)
	}
	if tx.Status != "completed" {
		t.Errorf("status = %q", tx.Status)
	}
}

func TestBurnTokens_SendsLedgerTransactionID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["transactionId"] != "0.0.1001@111.222" {
			t.Errorf("transactionId = %v", body["transactionId"])
		}
		w.Write([]byte(`{"transaction": {"id": "b1", "status": "completed"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).BurnTokens(context.Background(), "tok", "KCB", decimal.NewFromInt(50), "0.0.1001@111.222")
	if err != nil {
		t.Fatalf("BurnTokens failed: %v", err)
	}
}

func TestDeductFee_PostsToRefPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tokens/deduct-usdc/0.0.1001@abc" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"status": "ok"}`))
	}))
	defer srv.Close()

	if err := newTestClient(srv.URL).DeductFee(context.Background(), "tok", "0.0.1001@abc"); err != nil {
		t.Fatalf("DeductFee failed: %v", err)
	}
}

func TestGetUserTopics_MapsTopicIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/topics/user/user1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"topics": [{"id": "1", "hederaTopicID": "0.0.9001", "userId": "user1"}]}`))
	}))
	defer srv.Close()

	topics, err := newTestClient(srv.URL).GetUserTopics(context.Background(), "tok", "user1")
	if err != nil {
		t.Fatalf("GetUserTopics failed: %v", err)
	}
	if len(topics) != 1 || topics[0].TopicID != "0.0.9001" {
		t.Errorf("topics = %+v", topics)
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user1",
		"exp": exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestSessionExpired(t *testing.T) {
	client := NewClient()

	if client.SessionExpired(signedToken(t, time.Now().Add(time.Hour))) {
		t.Error("future-dated token reported expired")
	}
	if !client.SessionExpired(signedToken(t, time.Now().Add(-time.Hour))) {
		t.Error("past-dated token not reported expired")
	}
	if !client.SessionExpired("not-a-jwt") {
		t.Error("garbage token should count as expired")
	}
}

func TestSessionExpired_NoExpClaim(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user1"})
	signed, err := tok.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	if !NewClient().SessionExpired(signed) {
		t.Error("token without exp should count as expired")
	}
}
