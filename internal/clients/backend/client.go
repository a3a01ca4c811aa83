// Package backend provides a client for the account backend API
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/nsebridge/neo/internal/common"
	"github.com/nsebridge/neo/internal/interfaces"
	"github.com/nsebridge/neo/internal/models"
)

const (
	DefaultBaseURL   = "http://localhost:5004/api"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Client implements the BackendClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new backend client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

var _ interfaces.BackendClient = (*Client)(nil)

// APIError represents a backend API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// do performs a rate-limited request and decodes the JSON response into
// result when result is non-nil.
func (c *Client) do(ctx context.Context, method, path, token string, body, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug().Str("method", method).Str("url", path).Msg("Backend API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		msg := string(raw)
		var errBody struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &errBody) == nil && errBody.Message != "" {
			msg = errBody.Message
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    msg,
			Endpoint:   path,
		}
	}

	if result == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}

	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", body, &resp); err != nil {
		return "", err
	}

	if resp.Token == "" {
		return "", fmt.Errorf("login response contained no token")
	}

	return resp.Token, nil
}

// SessionExpired reports whether the bearer token's expiry claim has
// passed. The signature is not checked; the backend verifies on use.
func (c *Client) SessionExpired(token string) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}

	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}

	return exp.Before(time.Now())
}

// GetProfile returns the authenticated user's profile with holdings
func (c *Client) GetProfile(ctx context.Context, token string) (*models.UserProfile, error) {
	var resp struct {
		User struct {
			ID        string `json:"id"`
			Email     string `json:"email"`
			Name      string `json:"name"`
			AccountID string `json:"accountId"`
			Tokens    []struct {
				TokenID   string          `json:"tokenId"`
				Symbol    string          `json:"symbol"`
				Name      string          `json:"name"`
				StockCode string          `json:"stockCode"`
				Balance   decimal.Decimal `json:"balance"`
			} `json:"tokens"`
			StockHoldings []struct {
				StockCode      string          `json:"stockCode"`
				Name           string          `json:"name"`
				Quantity       decimal.Decimal `json:"quantity"`
				LockedQuantity decimal.Decimal `json:"lockedQuantity"`
				TokenID        string          `json:"tokenId"`
			} `json:"stockHoldings"`
		} `json:"user"`
	}

	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &resp); err != nil {
		return nil, err
	}

	profile := &models.UserProfile{
		ID:        resp.User.ID,
		Email:     resp.User.Email,
		Name:      resp.User.Name,
		AccountID: resp.User.AccountID,
	}

	for _, t := range resp.User.Tokens {
		profile.Tokens = append(profile.Tokens, models.TokenBalance{
			TokenID:   t.TokenID,
			Symbol:    t.Symbol,
			Name:      t.Name,
			StockCode: t.StockCode,
			Balance:   t.Balance,
		})
	}

	for _, s := range resp.User.StockHoldings {
		profile.Stocks = append(profile.Stocks, models.StockBalance{
			StockCode:      s.StockCode,
			Name:           s.Name,
			Quantity:       s.Quantity,
			LockedQuantity: s.LockedQuantity,
			TokenID:        s.TokenID,
		})
	}

	return profile, nil
}

type mintResponse struct {
	Transaction struct {
		ID        string          `json:"id"`
		StockCode string          `json:"stockCode"`
		Amount    decimal.Decimal `json:"amount"`
		Status    string          `json:"status"`
		LedgerTx  string          `json:"transactionId"`
	} `json:"transaction"`
}

func (r *mintResponse) toModel() *models.MintTransaction {
	return &models.MintTransaction{
		ID:        r.Transaction.ID,
		StockCode: r.Transaction.StockCode,
		Amount:    r.Transaction.Amount,
		Status:    r.Transaction.Status,
		LedgerTx:  r.Transaction.LedgerTx,
	}
}

// MintTokens issues amount units of a stock token to the caller
func (c *Client) MintTokens(ctx context.Context, token, stockCode string, amount decimal.Decimal) (*models.MintTransaction, error) {
	var resp mintResponse

	path := fmt.Sprintf("/tokens/%s/mint", strings.ToUpper(stockCode))
	body := map[string]interface{}{"amount": amount}
	if err := c.do(ctx, http.MethodPost, path, token, body, &resp); err != nil {
		return nil, err
	}

	return resp.toModel(), nil
}

// BurnTokens reduces supply after a ledger transfer
func (c *Client) BurnTokens(ctx context.Context, token, stockCode string, amount decimal.Decimal, ledgerTxID string) (*models.MintTransaction, error) {
	var resp mintResponse

	path := fmt.Sprintf("/tokens/%s/burn", strings.ToUpper(stockCode))
	body := map[string]interface{}{
		"amount":        amount,
		"transactionId": ledgerTxID,
	}
	if err := c.do(ctx, http.MethodPost, path, token, body, &resp); err != nil {
		return nil, err
	}

	return resp.toModel(), nil
}

// SellTokens converts a stock position into the target asset
func (c *Client) SellTokens(ctx context.Context, token, stockCode string, amount decimal.Decimal, targetAsset, accountID string) (*models.MintTransaction, error) {
	var resp mintResponse

	path := fmt.Sprintf("/tokens/%s/sell", strings.ToUpper(stockCode))
	body := map[string]interface{}{
		"amount":      amount,
		"accountId":   accountID,
		"targetAsset": targetAsset,
	}
	if err := c.do(ctx, http.MethodPost, path, token, body, &resp); err != nil {
		return nil, err
	}

	return resp.toModel(), nil
}

// DeductFee charges the flat usage fee keyed by an idempotency reference
func (c *Client) DeductFee(ctx context.Context, token, ref string) error {
	path := "/tokens/deduct-usdc/" + ref
	body := map[string]string{"transactionId": ref}
	return c.do(ctx, http.MethodPost, path, token, body, nil)
}

// CreateTopic mirrors a ledger topic into the backend
func (c *Client) CreateTopic(ctx context.Context, token, topicID, memo string) (*models.Topic, error) {
	var resp struct {
		Topic struct {
			ID            string `json:"id"`
			HederaTopicID string `json:"hederaTopicID"`
			UserID        string `json:"userId"`
			TopicMemo     string `json:"topicMemo"`
		} `json:"topic"`
	}

	body := map[string]string{
		"topicName":     memo,
		"description":   memo,
		"topicMemo":     memo,
		"hederaTopicId": topicID,
	}
	if err := c.do(ctx, http.MethodPost, "/topics/", token, body, &resp); err != nil {
		return nil, err
	}

	return &models.Topic{
		ID:      resp.Topic.ID,
		TopicID: resp.Topic.HederaTopicID,
		UserID:  resp.Topic.UserID,
		Memo:    resp.Topic.TopicMemo,
	}, nil
}

// AddTopicMessage mirrors a submitted topic message
func (c *Client) AddTopicMessage(ctx context.Context, token, topicID, message string) error {
	path := fmt.Sprintf("/topics/%s/messages", topicID)
	body := map[string]string{"message": message}
	return c.do(ctx, http.MethodPost, path, token, body, nil)
}

// GetUserTopics lists the user's topics, oldest first
func (c *Client) GetUserTopics(ctx context.Context, token, userID string) ([]models.Topic, error) {
	var resp struct {
		Topics []struct {
			ID            string `json:"id"`
			HederaTopicID string `json:"hederaTopicID"`
			UserID        string `json:"userId"`
			TopicMemo     string `json:"topicMemo"`
		} `json:"topics"`
	}

	path := "/topics/user/" + userID
	if err := c.do(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, err
	}

	topics := make([]models.Topic, len(resp.Topics))
	for i, t := range resp.Topics {
		topics[i] = models.Topic{
			ID:      t.ID,
			TopicID: t.HederaTopicID,
			UserID:  t.UserID,
			Memo:    t.TopicMemo,
		}
	}

	return topics, nil
}
