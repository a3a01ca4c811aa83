package app

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createGetVersionTool returns the get-version tool definition
func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get-version",
		mcp.WithDescription("Get the Neo server version and status. Use this to verify connectivity."),
	)
}

// createGetBalancesTool returns the get-balances tool definition
func createGetBalancesTool() mcp.Tool {
	return mcp.NewTool("get-balances",
		mcp.WithDescription("Get the portfolio holdings of the configured service account: ledger token balances (HBAR, USDC) and tokenized NSE stock positions. Returns quantities only; use get-portfolio-value for valuation."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("Identifier used to label the report"),
		),
	)
}

// createGetPortfolioValueTool returns the get-portfolio-value tool definition
func createGetPortfolioValueTool() mcp.Tool {
	return mcp.NewTool("get-portfolio-value",
		mcp.WithDescription("Value the configured service account's full portfolio in KES using live NSE and exchange prices. Assets without a resolvable price are listed separately and excluded from the total."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("Identifier used to label the report"),
		),
	)
}

// createCompareTrendsTool returns the compare-portfolio-with-trends tool definition
func createCompareTrendsTool() mcp.Tool {
	return mcp.NewTool("compare-portfolio-with-trends",
		mcp.WithDescription("Fetch recent market news and sentiment for each stock so portfolio positions can be compared against market trends."),
		mcp.WithArray("stock_codes",
			mcp.WithStringItems(),
			mcp.Required(),
			mcp.Description("NSE stock codes to analyze (e.g., ['KCB', 'SCOM'])"),
		),
	)
}

// createGenerateReportTool returns the generate-report tool definition
func createGenerateReportTool() mcp.Tool {
	return mcp.NewTool("generate-report",
		mcp.WithDescription("Generate a market news and sentiment report across multiple stocks, suitable for deciding trading actions."),
		mcp.WithArray("stock_codes",
			mcp.WithStringItems(),
			mcp.Required(),
			mcp.Description("NSE stock codes to include in the report"),
		),
	)
}

// createExecuteActionsTool returns the execute-trading-actions tool definition
func createExecuteActionsTool() mcp.Tool {
	return mcp.NewTool("execute-trading-actions",
		mcp.WithDescription("Execute a batch of trading actions (issue, redeem, exchange) against the user's account. Actions run in order and the batch halts on the first failure. Each executed action is audit-logged and billed."),
		mcp.WithArray("actions",
			mcp.Required(),
			mcp.Items(map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"kind": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"issue", "redeem", "exchange", "noop"},
						"description": "Action to perform",
					},
					"stock_code": map[string]interface{}{
						"type":        "string",
						"description": "NSE stock code the action applies to",
					},
					"amount": map[string]interface{}{
						"type":        "number",
						"description": "Number of token units, must be greater than zero",
					},
					"target_asset": map[string]interface{}{
						"type":        "string",
						"description": "Asset to receive (exchange only, e.g., 'USDC')",
					},
					"reason": map[string]interface{}{
						"type":        "string",
						"description": "Why this action was chosen",
					},
				},
				"required": []string{"kind"},
			}),
			mcp.Description("Ordered list of trading actions"),
		),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("User's login email"),
		),
		mcp.WithString("password",
			mcp.Required(),
			mcp.Description("User's login password"),
		),
		mcp.WithString("account_id",
			mcp.Required(),
			mcp.Description("User's ledger account id (e.g., '0.0.12345')"),
		),
		mcp.WithString("private_key",
			mcp.Required(),
			mcp.Description("User's ledger private key used to sign transfers and audit messages"),
		),
	)
}

// createInitiateOnrampTool returns the initiate-onramp tool definition
func createInitiateOnrampTool() mcp.Tool {
	return mcp.NewTool("initiate-onramp",
		mcp.WithDescription("Start an M-Pesa STK push so the user can fund their account from their phone. Returns the checkout request id to track the payment."),
		mcp.WithString("phone_number",
			mcp.Required(),
			mcp.Description("Phone number in international format (e.g., '254712345678')"),
		),
		mcp.WithNumber("amount",
			mcp.Required(),
			mcp.Description("Amount in KES to request"),
		),
		mcp.WithString("account_reference",
			mcp.Description("Reference shown on the payment prompt (default: 'NSEBridge')"),
		),
		mcp.WithString("description",
			mcp.Description("Transaction description shown to the user"),
		),
	)
}
