// Package news fetches market news and classifies its sentiment.
package news

import (
	"context"
	"fmt"
	"strings"

	"github.com/nsebridge/neo/internal/common"
	"github.com/nsebridge/neo/internal/interfaces"
	"github.com/nsebridge/neo/internal/models"
)

// Keyword lists driving the sentiment classifier. Matching is
// case-insensitive substring over title plus description.
var (
	positiveKeywords = []string{
		"growth", "profit", "increase", "rise", "gain",
		"positive", "success", "strong", "improve",
	}
	negativeKeywords = []string{
		"loss", "decline", "decrease", "fall", "negative",
		"weak", "poor", "risk", "concern",
	}
)

// Service implements the NewsService interface
type Service struct {
	client interfaces.NewsClient
	logger *common.Logger
}

// NewService creates a news service
func NewService(client interfaces.NewsClient, logger *common.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

var _ interfaces.NewsService = (*Service)(nil)

// classify counts keyword hits in the combined text; a strict majority
// decides, ties stay neutral.
func classify(title, description string) models.Sentiment {
	combined := strings.ToLower(title + " " + description)

	positive := 0
	for _, word := range positiveKeywords {
		if strings.Contains(combined, word) {
			positive++
		}
	}

	negative := 0
	for _, word := range negativeKeywords {
		if strings.Contains(combined, word) {
			negative++
		}
	}

	switch {
	case positive > negative:
		return models.SentimentPositive
	case negative > positive:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// GetMarketNews returns classified news for one symbol. Upstream failure
// yields an empty neutral result, never an error.
func (s *Service) GetMarketNews(ctx context.Context, symbol string) *models.MarketNews {
	query := fmt.Sprintf("NSE:%s stock Nairobi Securities Exchange Kenya company news.", symbol)

	articles, err := s.client.SearchNews(ctx, query, 0)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("News search failed")
		return &models.MarketNews{
			Symbol:  symbol,
			Items:   []models.NewsItem{},
			Overall: models.SentimentNeutral,
			Summary: []string{"Unable to fetch market news"},
		}
	}

	result := &models.MarketNews{Symbol: symbol}

	positiveCount := 0
	negativeCount := 0
	for _, a := range articles {
		sentiment := classify(a.Title, a.Description)
		switch sentiment {
		case models.SentimentPositive:
			positiveCount++
		case models.SentimentNegative:
			negativeCount++
		}

		result.Items = append(result.Items, models.NewsItem{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Age:         a.Age,
			Sentiment:   sentiment,
		})
	}

	result.Overall = models.SentimentNeutral
	if positiveCount > negativeCount {
		result.Overall = models.SentimentPositive
	} else if negativeCount > positiveCount {
		result.Overall = models.SentimentNegative
	}

	if len(result.Items) > 0 {
		result.Summary = append(result.Summary, fmt.Sprintf("Found %d recent news items", len(result.Items)))
		result.Summary = append(result.Summary, fmt.Sprintf("Overall market sentiment: %s", result.Overall))
		if positiveCount > 0 {
			result.Summary = append(result.Summary, fmt.Sprintf("%d positive developments reported", positiveCount))
		}
		if negativeCount > 0 {
			result.Summary = append(result.Summary, fmt.Sprintf("%d concerning developments noted", negativeCount))
		}
	} else {
		result.Summary = append(result.Summary, "No recent news found")
	}

	return result
}

// GenerateReport fetches news for every symbol, keyed by symbol. Each
// symbol keeps its own result; one symbol's articles never overwrite
// another's.
func (s *Service) GenerateReport(ctx context.Context, symbols []string) map[string]*models.MarketNews {
	report := make(map[string]*models.MarketNews, len(symbols))
	for _, symbol := range symbols {
		report[symbol] = s.GetMarketNews(ctx, symbol)
	}
	return report
}
