package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nsebridge/neo/internal/common"
	"github.com/nsebridge/neo/internal/interfaces"
	"github.com/nsebridge/neo/internal/models"
)

// handleGetVersion implements the get-version tool
func handleGetVersion() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := fmt.Sprintf("Neo Server\nVersion: %s\nBuild: %s\nCommit: %s\nStatus: OK",
			common.GetVersion(), common.GetBuild(), common.GetGitCommit())
		return textResult(result), nil
	}
}

// handleGetBalances implements the get-balances tool
func handleGetBalances(balanceService interfaces.BalanceService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := request.RequireString("user_id")
		if err != nil || userID == "" {
			return errorResult("Error: user_id parameter is required"), nil
		}

		tokens, stocks, err := balanceService.GetHoldings(ctx, userID)
		if err != nil {
			logger.Error().Err(err).Str("user_id", userID).Msg("Balance fetch failed")
			return errorResult(fmt.Sprintf("Balance error: %v", err)), nil
		}

		return textResult(formatBalances(userID, tokens, stocks)), nil
	}
}

// handleGetPortfolioValue implements the get-portfolio-value tool
func handleGetPortfolioValue(balanceService interfaces.BalanceService, pricingService interfaces.PricingService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := request.RequireString("user_id")
		if err != nil || userID == "" {
			return errorResult("Error: user_id parameter is required"), nil
		}

		tokens, stocks, err := balanceService.GetHoldingsStrict(ctx, userID)
		if err != nil {
			logger.Error().Err(err).Str("user_id", userID).Msg("Holdings fetch failed")
			return errorResult(fmt.Sprintf("Holdings error: %v", err)), nil
		}

		holdings := buildHoldings(tokens, stocks)

		snapshot, err := pricingService.ValuePortfolio(ctx, userID, holdings)
		if err != nil {
			logger.Error().Err(err).Str("user_id", userID).Msg("Valuation failed")
			return errorResult(fmt.Sprintf("Valuation error: %v", err)), nil
		}

		return textResult(formatSnapshot(snapshot)), nil
	}
}

// buildHoldings merges token and stock balances into the unified view the
// valuation engine prices.
func buildHoldings(tokens []models.TokenBalance, stocks []models.StockBalance) []models.Holding {
	holdings := make([]models.Holding, 0, len(tokens)+len(stocks))
	for _, t := range tokens {
		holdings = append(holdings, models.Holding{
			Symbol:   t.Symbol,
			Kind:     models.AssetLedgerToken,
			Quantity: t.Balance,
			TokenID:  t.TokenID,
			Name:     t.Name,
		})
	}
	for _, s := range stocks {
		holdings = append(holdings, models.Holding{
			Symbol:         s.StockCode,
			Kind:           models.AssetEquity,
			Quantity:       s.Quantity,
			LockedQuantity: s.LockedQuantity,
			TokenID:        s.TokenID,
			Name:           s.Name,
		})
	}
	return holdings
}

// handleCompareTrends implements the compare-portfolio-with-trends tool
func handleCompareTrends(newsService interfaces.NewsService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		codes := request.GetStringSlice("stock_codes", nil)
		if len(codes) == 0 {
			return errorResult("Error: stock_codes parameter is required"), nil
		}

		report := newsService.GenerateReport(ctx, codes)
		return textResult(formatTrendComparison(codes, report)), nil
	}
}

// handleGenerateReport implements the generate-report tool
func handleGenerateReport(newsService interfaces.NewsService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		codes := request.GetStringSlice("stock_codes", nil)
		if len(codes) == 0 {
			return errorResult("Error: stock_codes parameter is required"), nil
		}

		report := newsService.GenerateReport(ctx, codes)
		return textResult(formatMarketReport(codes, report)), nil
	}
}

// handleExecuteActions implements the execute-trading-actions tool
func handleExecuteActions(tradeService interfaces.TradeService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		email, err := request.RequireString("email")
		if err != nil || email == "" {
			return errorResult("Error: email parameter is required"), nil
		}
		password, err := request.RequireString("password")
		if err != nil || password == "" {
			return errorResult("Error: password parameter is required"), nil
		}
		accountID, err := request.RequireString("account_id")
		if err != nil || accountID == "" {
			return errorResult("Error: account_id parameter is required"), nil
		}
		privateKey, err := request.RequireString("private_key")
		if err != nil || privateKey == "" {
			return errorResult("Error: private_key parameter is required"), nil
		}

		actions, err := parseActions(request)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		if len(actions) == 0 {
			return errorResult("Error: actions parameter is required"), nil
		}

		creds := models.Credentials{
			Email:      email,
			Password:   password,
			AccountID:  accountID,
			PrivateKey: privateKey,
		}

		results, err := tradeService.ExecuteActions(ctx, actions, creds)
		if err != nil {
			logger.Error().Err(err).Int("actions", len(actions)).Msg("Trade execution rejected")
			return errorResult(fmt.Sprintf("Execution error: %v", err)), nil
		}

		return textResult(formatActionResults(results)), nil
	}
}

// parseActions decodes the actions argument through a JSON round-trip so
// the wire shapes map onto the typed action struct.
func parseActions(request mcp.CallToolRequest) ([]models.TradeAction, error) {
	raw, ok := request.GetArguments()["actions"]
	if !ok {
		return nil, fmt.Errorf("actions parameter is required")
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid actions payload: %w", err)
	}

	var actions []models.TradeAction
	if err := json.Unmarshal(data, &actions); err != nil {
		return nil, fmt.Errorf("invalid actions payload: %w", err)
	}

	return actions, nil
}

// handleInitiateOnramp implements the initiate-onramp tool
func handleInitiateOnramp(mobileMoney interfaces.MobileMoneyClient, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		phone, err := request.RequireString("phone_number")
		if err != nil || phone == "" {
			return errorResult("Error: phone_number parameter is required"), nil
		}

		amount := request.GetInt("amount", 0)
		if amount <= 0 {
			return errorResult("Error: amount must be greater than zero"), nil
		}

		reference := request.GetString("account_reference", "NSEBridge")
		description := request.GetString("description", "Account funding")

		checkoutID, err := mobileMoney.InitiateSTKPush(ctx, phone, int64(amount), reference, description)
		if err != nil {
			logger.Error().Err(err).Str("phone", phone).Msg("STK push failed")
			return errorResult(fmt.Sprintf("Onramp error: %v", err)), nil
		}

		return textResult(fmt.Sprintf("Payment prompt sent to %s for KES %d.\nCheckout request ID: %s", phone, amount, checkoutID)), nil
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
