package models

// Sentiment classifies an article or an aggregate of articles.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// RawArticle is one result from the news search provider.
type RawArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Age         string `json:"age,omitempty"`
	Source      string `json:"source,omitempty"`
}

// NewsItem is a classified article.
type NewsItem struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Age         string    `json:"age,omitempty"`
	Sentiment   Sentiment `json:"sentiment"`
}

// MarketNews is the per-symbol sentiment result.
type MarketNews struct {
	Symbol  string     `json:"symbol"`
	Items   []NewsItem `json:"items"`
	Overall Sentiment  `json:"overall"`
	Summary []string   `json:"summary"`
}
