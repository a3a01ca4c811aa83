package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTradeAction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		action  TradeAction
		wantErr bool
	}{
		{
			name:   "valid issue",
			action: TradeAction{Kind: ActionIssue, StockCode: "KCB", Amount: decimal.NewFromInt(10)},
		},
		{
			name:   "valid redeem",
			action: TradeAction{Kind: ActionRedeem, StockCode: "SCOM", Amount: decimal.NewFromFloat(2.5)},
		},
		{
			name:   "valid exchange",
			action: TradeAction{Kind: ActionExchange, StockCode: "KCB", Amount: decimal.NewFromInt(5), TargetAsset: "USDC"},
		},
		{
			name:   "noop needs nothing",
			action: TradeAction{Kind: ActionNoop},
		},
		{
			name:    "issue without stock code",
			action:  TradeAction{Kind: ActionIssue, Amount: decimal.NewFromInt(10)},
			wantErr: true,
		},
		{
			name:    "zero amount",
			action:  TradeAction{Kind: ActionIssue, StockCode: "KCB"},
			wantErr: true,
		},
		{
			name:    "negative amount",
			action:  TradeAction{Kind: ActionRedeem, StockCode: "KCB", Amount: decimal.NewFromInt(-1)},
			wantErr: true,
		},
		{
			name:    "exchange without target asset",
			action:  TradeAction{Kind: ActionExchange, StockCode: "KCB", Amount: decimal.NewFromInt(5)},
			wantErr: true,
		},
		{
			name:    "exchange with blank target asset",
			action:  TradeAction{Kind: ActionExchange, StockCode: "KCB", Amount: decimal.NewFromInt(5), TargetAsset: "  "},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			action:  TradeAction{Kind: "liquidate", StockCode: "KCB", Amount: decimal.NewFromInt(5)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.action.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
