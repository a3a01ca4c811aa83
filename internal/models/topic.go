package models

import "time"

// Topic is an audit topic mirrored between the ledger and the backend.
type Topic struct {
	ID        string    `json:"id"`
	TopicID   string    `json:"topic_id"`
	UserID    string    `json:"user_id"`
	Memo      string    `json:"memo,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// TopicMessage is one audit entry recorded on a topic.
type TopicMessage struct {
	TopicID   string    `json:"topic_id"`
	Message   string    `json:"message"`
	TxID      string    `json:"tx_id,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}
