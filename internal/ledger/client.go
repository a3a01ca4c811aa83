// Package ledger submits transactions to the Hedera network.
package ledger

import (
	"context"
	"fmt"

	hedera "github.com/hiero-ledger/hiero-sdk-go/v2/sdk"

	"github.com/nsebridge/neo/internal/common"
	"github.com/nsebridge/neo/internal/interfaces"
)

// Client implements the LedgerClient interface. Every operation builds a
// fresh network client with the caller's signing identity as operator, so
// concurrent calls never share mutable signing state.
type Client struct {
	network           string
	operatorAccountID string
	operatorKey       string
	treasuryAccountID string
	usdcTokenID       string
	topicFee          int64
	maxTransferFee    int64
	logger            *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new ledger client from configuration
func NewClient(cfg *common.LedgerConfig, opts ...ClientOption) *Client {
	c := &Client{
		network:           cfg.Network,
		operatorAccountID: cfg.OperatorAccountID,
		operatorKey:       cfg.OperatorPrivateKey,
		treasuryAccountID: cfg.TreasuryAccountID,
		usdcTokenID:       cfg.USDCTokenID,
		topicFee:          cfg.TopicFee,
		maxTransferFee:    cfg.MaxTransferFeeHbar,
		logger:            common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

var _ interfaces.LedgerClient = (*Client)(nil)

// newNetworkClient returns a network client with the given identity as
// operator. The caller must Close it.
func (c *Client) newNetworkClient(accountID string, key hedera.PrivateKey) (*hedera.Client, error) {
	var client *hedera.Client
	switch c.network {
	case "mainnet":
		client = hedera.ClientForMainnet()
	case "previewnet":
		client = hedera.ClientForPreviewnet()
	default:
		client = hedera.ClientForTestnet()
	}

	operator, err := hedera.AccountIDFromString(accountID)
	if err != nil {
		return nil, fmt.Errorf("invalid account id %q: %w", accountID, err)
	}

	client.SetOperator(operator, key)
	return client, nil
}

// parseKey accepts the key encodings users actually paste: raw hex
// (ED25519 or ECDSA) and DER.
func parseKey(raw string) (hedera.PrivateKey, error) {
	key, err := hedera.PrivateKeyFromString(raw)
	if err == nil {
		return key, nil
	}

	key, derErr := hedera.PrivateKeyFromStringDer(raw)
	if derErr == nil {
		return key, nil
	}

	return hedera.PrivateKey{}, fmt.Errorf("invalid private key: %w", err)
}

// TransferToTreasury moves amount units of tokenID from the signer to the
// treasury account. The receipt status gates success and is surfaced
// verbatim on failure.
func (c *Client) TransferToTreasury(ctx context.Context, signer interfaces.SigningIdentity, tokenID string, amount int64) (string, string, error) {
	key, err := parseKey(signer.PrivateKey)
	if err != nil {
		return "", "", err
	}

	client, err := c.newNetworkClient(signer.AccountID, key)
	if err != nil {
		return "", "", err
	}
	defer client.Close()

	token, err := hedera.TokenIDFromString(tokenID)
	if err != nil {
		return "", "", fmt.Errorf("invalid token id %q: %w", tokenID, err)
	}

	from, err := hedera.AccountIDFromString(signer.AccountID)
	if err != nil {
		return "", "", fmt.Errorf("invalid account id %q: %w", signer.AccountID, err)
	}

	treasury, err := hedera.AccountIDFromString(c.treasuryAccountID)
	if err != nil {
		return "", "", fmt.Errorf("invalid treasury account id %q: %w", c.treasuryAccountID, err)
	}

	c.logger.Debug().
		Str("token", tokenID).
		Int64("amount", amount).
		Str("from", signer.AccountID).
		Msg("Submitting treasury transfer")

	resp, err := hedera.NewTransferTransaction().
		AddTokenTransfer(token, from, -amount).
		AddTokenTransfer(token, treasury, amount).
		SetMaxTransactionFee(hedera.NewHbar(float64(c.maxTransferFee))).
		Execute(client)
	if err != nil {
		return "", "", fmt.Errorf("token transfer failed: %w", err)
	}

	txID := resp.TransactionID.String()

	receipt, err := resp.GetReceipt(client)
	status := receipt.Status.String()
	if err != nil {
		return txID, status, fmt.Errorf("token transfer failed: %s", status)
	}
	if receipt.Status != hedera.StatusSuccess {
		return txID, status, fmt.Errorf("token transfer failed: %s", status)
	}

	return txID, status, nil
}

// CreateAuditTopic creates a fee-gated consensus topic. The operator pays
// for creation and collects the per-message fee; the signer's key becomes
// the submit key.
func (c *Client) CreateAuditTopic(ctx context.Context, signer interfaces.SigningIdentity, memo string) (string, error) {
	submitKey, err := parseKey(signer.PrivateKey)
	if err != nil {
		return "", err
	}

	operatorKey, err := parseKey(c.operatorKey)
	if err != nil {
		return "", fmt.Errorf("operator key: %w", err)
	}

	client, err := c.newNetworkClient(c.operatorAccountID, operatorKey)
	if err != nil {
		return "", err
	}
	defer client.Close()

	feeToken, err := hedera.TokenIDFromString(c.usdcTokenID)
	if err != nil {
		return "", fmt.Errorf("invalid settlement token id %q: %w", c.usdcTokenID, err)
	}

	collector, err := hedera.AccountIDFromString(c.operatorAccountID)
	if err != nil {
		return "", fmt.Errorf("invalid operator account id %q: %w", c.operatorAccountID, err)
	}

	customFee := hedera.NewCustomFixedFee().
		SetAmount(c.topicFee).
		SetDenominatingTokenID(feeToken).
		SetFeeCollectorAccountID(collector)

	c.logger.Debug().Str("memo", memo).Msg("Creating audit topic")

	resp, err := hedera.NewTopicCreateTransaction().
		SetTopicMemo(memo).
		SetSubmitKey(submitKey.PublicKey()).
		SetCustomFees([]*hedera.CustomFixedFee{customFee}).
		Execute(client)
	if err != nil {
		return "", fmt.Errorf("topic creation failed: %w", err)
	}

	receipt, err := resp.GetReceipt(client)
	if err != nil {
		return "", fmt.Errorf("topic creation failed: %s", receipt.Status.String())
	}
	if receipt.TopicID == nil {
		return "", fmt.Errorf("topic creation returned no topic id")
	}

	return receipt.TopicID.String(), nil
}

// SubmitTopicMessage writes a message to the topic, signed and paid by the
// user.
func (c *Client) SubmitTopicMessage(ctx context.Context, signer interfaces.SigningIdentity, topicID string, message []byte) (string, error) {
	key, err := parseKey(signer.PrivateKey)
	if err != nil {
		return "", err
	}

	client, err := c.newNetworkClient(signer.AccountID, key)
	if err != nil {
		return "", err
	}
	defer client.Close()

	topic, err := hedera.TopicIDFromString(topicID)
	if err != nil {
		return "", fmt.Errorf("invalid topic id %q: %w", topicID, err)
	}

	c.logger.Debug().Str("topic", topicID).Int("bytes", len(message)).Msg("Submitting topic message")

	resp, err := hedera.NewTopicMessageSubmitTransaction().
		SetTopicID(topic).
		SetMessage(message).
		Execute(client)
	if err != nil {
		return "", fmt.Errorf("message submit failed: %w", err)
	}

	txID := resp.TransactionID.String()

	receipt, err := resp.GetReceipt(client)
	if err != nil {
		return txID, fmt.Errorf("message submit failed: %s", receipt.Status.String())
	}
	if receipt.Status != hedera.StatusSuccess {
		return txID, fmt.Errorf("message submit failed: %s", receipt.Status.String())
	}

	return txID, nil
}
