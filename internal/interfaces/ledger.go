package interfaces

import "context"

// SigningIdentity is the per-call identity that signs ledger operations.
// No shared client state is mutated; each call builds its own context.
type SigningIdentity struct {
	AccountID  string
	PrivateKey string
}

// LedgerClient submits transactions to the distributed ledger.
type LedgerClient interface {
	// TransferToTreasury moves amount units of tokenID from the signer to
	// the treasury account. Returns the transaction id and the receipt
	// status string; a non-success status is returned as an error carrying
	// that status verbatim.
	TransferToTreasury(ctx context.Context, signer SigningIdentity, tokenID string, amount int64) (txID string, status string, err error)

	// CreateAuditTopic creates a fee-gated consensus topic with the signer
	// as submit key and the operator as fee collector.
	CreateAuditTopic(ctx context.Context, signer SigningIdentity, memo string) (topicID string, err error)

	// SubmitTopicMessage writes a message to the topic, signed by the user.
	SubmitTopicMessage(ctx context.Context, signer SigningIdentity, topicID string, message []byte) (txID string, err error)
}
