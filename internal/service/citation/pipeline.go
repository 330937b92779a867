package citation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	citationmodel "github.com/docsage/backend/internal/model/citation"
	conv "github.com/docsage/backend/internal/model/conversation"
	"github.com/docsage/backend/internal/service/ai"
	"github.com/docsage/backend/internal/service/search"
	"github.com/docsage/backend/internal/service/session"
)

// Pipeline turns a session's stored document text into a list of citation
// results: extract candidate statements, filter them, then resolve each to a
// web source and an APA citation. One invocation is all-or-nothing; only
// per-statement search misses are tolerated.
type Pipeline struct {
	store     *session.Store
	completer ai.Completer
	searcher  search.Searcher
	logger    *zap.Logger
	now       func() time.Time
}

// NewPipeline wires the citation pipeline.
func NewPipeline(store *session.Store, completer ai.Completer, searcher search.Searcher, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		store:     store,
		completer: completer,
		searcher:  searcher,
		logger:    logger,
		now:       time.Now,
	}
}

// Generate runs the four stages for one session and returns the results in
// statement order.
func (p *Pipeline) Generate(ctx context.Context, sessionID string) ([]citationmodel.Result, error) {
	documentText, err := p.store.DocumentText(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	statements, err := p.extract(ctx, documentText)
	if err != nil {
		return nil, fmt.Errorf("extract statements: %w", err)
	}

	statements = FilterStatements(statements)
	p.logger.Info("statements filtered",
		zap.String("sessionId", sessionID),
		zap.Int("kept", len(statements)))

	// Enrichment stays sequential to keep output order deterministic and to
	// bound concurrent load on the search and completion services.
	results := make([]citationmodel.Result, 0, len(statements))
	for _, statement := range statements {
		result, err := p.enrich(ctx, statement)
		if err != nil {
			return nil, fmt.Errorf("resolve citation: %w", err)
		}
		results = append(results, result)
	}
	return results, nil
}

func (p *Pipeline) extract(ctx context.Context, documentText string) ([]string, error) {
	turns := []conv.Turn{
		conv.SystemTurn(ai.AcademicPersona),
		conv.UserTurn(ai.ExtractionPrompt(documentText)),
	}
	reply, err := p.completer.Complete(ctx, turns, ai.ExtractionTemperature)
	if err != nil {
		return nil, err
	}
	return ParseStatements(reply), nil
}

func (p *Pipeline) enrich(ctx context.Context, statement string) (citationmodel.Result, error) {
	hit, err := p.searcher.Top(ctx, statement)
	if err != nil {
		return citationmodel.Result{}, err
	}
	if hit == nil {
		p.logger.Info("no search result for statement", zap.String("statement", statement))
		return citationmodel.Result{
			Statement: statement,
			Citation:  citationmodel.NoSourceCitation,
		}, nil
	}

	accessDate := p.now().UTC().Format("2006-01-02")
	turns := []conv.Turn{
		conv.SystemTurn(ai.CitationPersona),
		conv.UserTurn(ai.CitationPrompt(hit.Title, hit.Link, hit.Source, accessDate)),
	}
	reply, err := p.completer.Complete(ctx, turns, ai.CitationTemperature)
	if err != nil {
		return citationmodel.Result{}, err
	}

	link := hit.Link
	return citationmodel.Result{
		Statement: statement,
		Source:    &link,
		Citation:  strings.TrimSpace(reply),
	}, nil
}
