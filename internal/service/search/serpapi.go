package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	serpapi "github.com/serpapi/google-search-results-golang"
	"go.uber.org/zap"
)

// ErrMissingAPIKey signals the search credential is absent; the citation
// endpoint is unavailable without it while the rest of the API keeps working.
var ErrMissingAPIKey = errors.New("search api key is not configured")

// Hit is the projection of one organic search result.
type Hit struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Source string `json:"source"`
}

// Searcher resolves a query to its top organic result, nil when none exists.
type Searcher interface {
	Top(ctx context.Context, query string) (*Hit, error)
}

// Service queries SerpAPI's Google engine.
type Service struct {
	apiKey   string
	language string
	country  string
	logger   *zap.Logger
}

// NewService validates the credential up front.
func NewService(apiKey, language, country string, logger *zap.Logger) (*Service, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &Service{apiKey: apiKey, language: language, country: country, logger: logger}, nil
}

// Top issues one search with the statement text verbatim and returns the
// first organic result. A query with no organic results returns (nil, nil).
func (s *Service) Top(ctx context.Context, query string) (*Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	request := serpapi.NewGoogleSearch(map[string]string{
		"q":  query,
		"hl": s.language,
		"gl": s.country,
	}, s.apiKey)

	data, err := request.GetJSON()
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	raw, ok := data["organic_results"]
	if !ok || raw == nil {
		return nil, nil
	}

	// Round-trip the untyped payload into the narrow projection we need.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode organic results: %w", err)
	}
	var hits []Hit
	if err := json.Unmarshal(encoded, &hits); err != nil {
		return nil, fmt.Errorf("decode organic results: %w", err)
	}
	if len(hits) == 0 {
		return nil, nil
	}

	s.logger.Debug("search resolved", zap.String("link", hits[0].Link))
	return &hits[0], nil
}
