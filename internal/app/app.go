// Package app wires Neo's clients, services, and MCP server together.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/nsebridge/neo/internal/clients/backend"
	"github.com/nsebridge/neo/internal/clients/binance"
	"github.com/nsebridge/neo/internal/clients/brave"
	"github.com/nsebridge/neo/internal/clients/mpesa"
	"github.com/nsebridge/neo/internal/clients/nse"
	"github.com/nsebridge/neo/internal/clients/xe"
	"github.com/nsebridge/neo/internal/common"
	"github.com/nsebridge/neo/internal/interfaces"
	"github.com/nsebridge/neo/internal/ledger"
	"github.com/nsebridge/neo/internal/services/audit"
	"github.com/nsebridge/neo/internal/services/balance"
	"github.com/nsebridge/neo/internal/services/news"
	"github.com/nsebridge/neo/internal/services/pricing"
	"github.com/nsebridge/neo/internal/services/trade"
	"github.com/nsebridge/neo/internal/storage"
)

// App holds all initialized clients, services, and the MCP server. It is
// the shared core used by cmd/neo-server and cmd/neo-mcp.
type App struct {
	Config         *common.Config
	Logger         *common.Logger
	Journal        interfaces.Journal
	BackendClient  interfaces.BackendClient
	LedgerClient   interfaces.LedgerClient
	BalanceService interfaces.BalanceService
	PricingService interfaces.PricingService
	NewsService    interfaces.NewsService
	TradeService   interfaces.TradeService
	AuditService   interfaces.AuditService
	MobileMoney    interfaces.MobileMoneyClient
	MCPServer      *server.MCPServer
	StartupTime    time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, clients, services, storage, and the
// MCP server. configPath may be empty, in which case NEO_CONFIG and the
// binary directory are checked.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("NEO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "neo.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/neo.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Storage.Journal.Path != "" && !filepath.IsAbs(config.Storage.Journal.Path) {
		config.Storage.Journal.Path = filepath.Join(binDir, config.Storage.Journal.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	journal, err := storage.NewJournal(logger, config.Storage.Journal.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize journal: %w", err)
	}

	backendClient := backend.NewClient(
		backend.WithBaseURL(config.Clients.Backend.BaseURL),
		backend.WithLogger(logger),
		backend.WithRateLimit(config.Clients.Backend.RateLimit),
		backend.WithTimeout(config.Clients.Backend.GetTimeout()),
	)

	nseClient := nse.NewClient(
		nse.WithChartURL(config.Clients.NSE.ChartURL),
		nse.WithPriceFile(config.Clients.NSE.PriceFile),
		nse.WithLogger(logger),
		nse.WithRateLimit(config.Clients.NSE.RateLimit),
		nse.WithTimeout(config.Clients.NSE.GetTimeout()),
	)

	binanceClient := binance.NewClient(
		config.Clients.Binance.APIKey,
		config.Clients.Binance.APISecret,
		binance.WithLogger(logger),
	)

	xeClient := xe.NewClient(
		xe.WithBaseURL(config.Clients.XE.BaseURL),
		xe.WithFallbackRate(config.Clients.XE.FallbackRate),
		xe.WithLogger(logger),
	)

	if config.Clients.Brave.APIKey == "" {
		logger.Warn().Msg("Brave API key not configured - news tools will return empty results")
	}
	braveClient := brave.NewClient(
		config.Clients.Brave.APIKey,
		brave.WithBaseURL(config.Clients.Brave.BaseURL),
		brave.WithLogger(logger),
	)

	mpesaClient := mpesa.NewClient(
		config.Clients.Mpesa.ConsumerKey,
		config.Clients.Mpesa.ConsumerSecret,
		config.Clients.Mpesa.ShortCode,
		config.Clients.Mpesa.PassKey,
		config.Clients.Mpesa.CallbackURL,
		mpesa.WithBaseURL(config.Clients.Mpesa.BaseURL),
		mpesa.WithLogger(logger),
	)

	ledgerClient := ledger.NewClient(&config.Ledger, ledger.WithLogger(logger))

	balanceService := balance.NewService(backendClient,
		config.Clients.Backend.ServiceEmail, config.Clients.Backend.ServicePassword, logger)
	pricingService := pricing.NewService(nseClient, binanceClient, xeClient,
		config.Trading.SymbolAliases, logger)
	newsService := news.NewService(braveClient, logger)
	auditService := audit.NewService(backendClient, ledgerClient, journal, logger)
	tradeService := trade.NewService(backendClient, ledgerClient, auditService, journal,
		config.Trading.FeeOnNoop, logger)

	mcpServer := server.NewMCPServer(
		"neo",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	a := &App{
		Config:         config,
		Logger:         logger,
		Journal:        journal,
		BackendClient:  backendClient,
		LedgerClient:   ledgerClient,
		BalanceService: balanceService,
		PricingService: pricingService,
		NewsService:    newsService,
		TradeService:   tradeService,
		AuditService:   auditService,
		MobileMoney:    mpesaClient,
		MCPServer:      mcpServer,
		StartupTime:    startupStart,
	}

	a.registerTools()

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// registerTools registers all MCP tools on the App's MCPServer.
func (a *App) registerTools() {
	s := a.MCPServer
	logger := a.Logger

	s.AddTool(createGetVersionTool(), handleGetVersion())
	s.AddTool(createGetBalancesTool(), handleGetBalances(a.BalanceService, logger))
	s.AddTool(createGetPortfolioValueTool(), handleGetPortfolioValue(a.BalanceService, a.PricingService, logger))
	s.AddTool(createCompareTrendsTool(), handleCompareTrends(a.NewsService, logger))
	s.AddTool(createGenerateReportTool(), handleGenerateReport(a.NewsService, logger))
	s.AddTool(createExecuteActionsTool(), handleExecuteActions(a.TradeService, logger))
	s.AddTool(createInitiateOnrampTool(), handleInitiateOnramp(a.MobileMoney, logger))
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Journal != nil {
		if err := a.Journal.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close journal")
		}
	}
}
