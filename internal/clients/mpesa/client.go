// Package mpesa provides an M-Pesa client for STK push on-ramp payments.
package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nsebridge/neo/internal/common"
	"github.com/nsebridge/neo/internal/interfaces"
)

const (
	DefaultBaseURL = "https://sandbox.safaricom.co.ke"
	DefaultTimeout = 30 * time.Second
)

// Client implements the MobileMoneyClient interface
type Client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	shortCode      int
	passKey        string
	callbackURL    string
	httpClient     *http.Client
	logger         *common.Logger

	now func() time.Time
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

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithClock overrides the timestamp source, used in tests
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a new M-Pesa client
func NewClient(consumerKey, consumerSecret string, shortCode int, passKey, callbackURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:        DefaultBaseURL,
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		shortCode:      shortCode,
		passKey:        passKey,
		callbackURL:    callbackURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: common.NewSilentLogger(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

var _ interfaces.MobileMoneyClient = (*Client)(nil)

// APIError represents an M-Pesa API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("M-Pesa API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// accessToken fetches an OAuth token via the client-credentials grant.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	reqURL := c.baseURL + "/oauth/v1/generate?grant_type=client_credentials"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	auth := base64.StdEncoding.EncodeToString([]byte(c.consumerKey + ":" + c.consumerSecret))
	req.Header.Set("Authorization", "Basic "+auth)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   "/oauth/v1/generate",
		}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access token")
	}

	return payload.AccessToken, nil
}

// InitiateSTKPush prompts the phone for a payment and returns the
// checkout request id. The request password is
// base64(shortcode + passkey + timestamp) per the Daraja API.
func (c *Client) InitiateSTKPush(ctx context.Context, phoneNumber string, amount int64, reference, description string) (string, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return "", err
	}

	timestamp := c.now().Format("20060102150405")
	password := base64.StdEncoding.EncodeToString(
		[]byte(fmt.Sprintf("%d%s%s", c.shortCode, c.passKey, timestamp)))

	payload := map[string]interface{}{
		"BusinessShortCode": c.shortCode,
		"Password":          password,
		"Timestamp":         timestamp,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            amount,
		"PartyA":            phoneNumber,
		"PartyB":            c.shortCode,
		"PhoneNumber":       phoneNumber,
		"CallBackURL":       c.callbackURL,
		"AccountReference":  reference,
		"TransactionDesc":   description,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request body: %w", err)
	}

	reqURL := c.baseURL + "/mpesa/stkpush/v1/processrequest"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	c.logger.Debug().Str("phone", phoneNumber).Int64("amount", amount).Msg("STK push request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   "/mpesa/stkpush/v1/processrequest",
		}
	}

	var result struct {
		CheckoutRequestID   string `json:"CheckoutRequestID"`
		ResponseCode        string `json:"ResponseCode"`
		ResponseDescription string `json:"ResponseDescription"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode STK push response: %w", err)
	}

	if result.ResponseCode != "0" {
		return "", fmt.Errorf("STK push rejected: %s", result.ResponseDescription)
	}

	return result.CheckoutRequestID, nil
}
