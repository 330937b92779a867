package citation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	citationmodel "github.com/docsage/backend/internal/model/citation"
	conv "github.com/docsage/backend/internal/model/conversation"
	"github.com/docsage/backend/internal/service/search"
	"github.com/docsage/backend/internal/service/session"
)

type completion struct {
	reply string
	err   error
}

type fakeCompleter struct {
	script []completion
	calls  [][]conv.Turn
	temps  []float32
}

func (f *fakeCompleter) Complete(_ context.Context, turns []conv.Turn, temperature float32) (string, error) {
	f.calls = append(f.calls, turns)
	f.temps = append(f.temps, temperature)

	if len(f.script) == 0 {
		return "", errors.New("unexpected completion call")
	}
	next := f.script[0]
	f.script = f.script[1:]
	return next.reply, next.err
}

type fakeSearcher struct {
	hits    map[string]*search.Hit
	err     error
	queries []string
}

func (f *fakeSearcher) Top(_ context.Context, query string) (*search.Hit, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.hits[query], nil
}

func newTestSession(t *testing.T, store *session.Store, documentText string) string {
	t.Helper()
	created, err := store.Create(context.Background(), documentText, []conv.Turn{conv.SystemTurn("persona")})
	require.NoError(t, err)
	return created.ID
}

func TestGenerateEnrichesStatementsInOrder(t *testing.T) {
	store := session.NewStore()
	sessionID := newTestSession(t, store, "Experiment X showed a 40% increase in yield under condition Y.")

	statementA := "Experiment X showed a 40% increase in yield."
	statementB := "Condition Y was first described in a 1987 study."

	completer := &fakeCompleter{script: []completion{
		{reply: `["` + statementA + `", "` + statementB + `"]`},
		{reply: "  Doe, J. (2020). Yield gains. Example. https://example.org/yield  "},
	}}
	searcher := &fakeSearcher{hits: map[string]*search.Hit{
		statementA: {Title: "Yield gains", Link: "https://example.org/yield", Source: "Example"},
	}}

	p := NewPipeline(store, completer, searcher, zap.NewNop())
	p.now = func() time.Time { return time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC) }

	results, err := p.Generate(context.Background(), sessionID)
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.NotNil(t, results[0].Source)
	assert.Equal(t, statementA, results[0].Statement)
	assert.Equal(t, "https://example.org/yield", *results[0].Source)
	assert.Equal(t, "Doe, J. (2020). Yield gains. Example. https://example.org/yield", results[0].Citation)

	assert.Equal(t, statementB, results[1].Statement)
	assert.Nil(t, results[1].Source)
	assert.Equal(t, citationmodel.NoSourceCitation, results[1].Citation)

	// Statements are searched verbatim, in extraction order.
	assert.Equal(t, []string{statementA, statementB}, searcher.queries)

	// Extraction runs warm, citation formatting runs cold.
	require.Len(t, completer.temps, 2)
	assert.InDelta(t, 0.7, completer.temps[0], 0.001)
	assert.InDelta(t, 0.2, completer.temps[1], 0.001)

	// The formatting prompt carries the hit metadata and the access date.
	formatPrompt := completer.calls[1][1].Content
	assert.Contains(t, formatPrompt, "Yield gains")
	assert.Contains(t, formatPrompt, "https://example.org/yield")
	assert.Contains(t, formatPrompt, "2026-08-29")
}

func TestGenerateUnknownSession(t *testing.T) {
	p := NewPipeline(session.NewStore(), &fakeCompleter{}, &fakeSearcher{}, zap.NewNop())

	_, err := p.Generate(context.Background(), "missing")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestGenerateFiltersCandidates(t *testing.T) {
	store := session.NewStore()
	sessionID := newTestSession(t, store, "some document text for extraction")

	completer := &fakeCompleter{script: []completion{
		{reply: "```\ntoo short\n[bracketed fragment of model noise]\nThe treaty was signed in 1919 following years of negotiation.\n```"},
		{reply: "citation"},
	}}
	searcher := &fakeSearcher{hits: map[string]*search.Hit{
		"The treaty was signed in 1919 following years of negotiation.": {
			Title: "Treaty", Link: "https://example.org/treaty", Source: "Example",
		},
	}}

	p := NewPipeline(store, completer, searcher, zap.NewNop())

	results, err := p.Generate(context.Background(), sessionID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "The treaty was signed in 1919 following years of negotiation.", results[0].Statement)
}

func TestGenerateExtractionFailureAborts(t *testing.T) {
	store := session.NewStore()
	sessionID := newTestSession(t, store, "doc")

	completer := &fakeCompleter{script: []completion{{err: errors.New("model unavailable")}}}
	p := NewPipeline(store, completer, &fakeSearcher{}, zap.NewNop())

	results, err := p.Generate(context.Background(), sessionID)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "extract statements"))
	assert.Nil(t, results)
}

func TestGenerateSearchFailureAbortsBatch(t *testing.T) {
	store := session.NewStore()
	sessionID := newTestSession(t, store, "doc")

	completer := &fakeCompleter{script: []completion{
		{reply: `["A perfectly valid factual statement for citation."]`},
	}}
	searcher := &fakeSearcher{err: errors.New("search quota exceeded")}

	p := NewPipeline(store, completer, searcher, zap.NewNop())

	results, err := p.Generate(context.Background(), sessionID)
	require.Error(t, err)
	assert.Nil(t, results)
}

func TestGenerateFormattingFailureAbortsBatch(t *testing.T) {
	store := session.NewStore()
	sessionID := newTestSession(t, store, "doc")

	statement := "A perfectly valid factual statement for citation."
	completer := &fakeCompleter{script: []completion{
		{reply: `["` + statement + `"]`},
		{err: errors.New("model unavailable")},
	}}
	searcher := &fakeSearcher{hits: map[string]*search.Hit{
		statement: {Title: "T", Link: "https://example.org", Source: "S"},
	}}

	p := NewPipeline(store, completer, searcher, zap.NewNop())

	results, err := p.Generate(context.Background(), sessionID)
	require.Error(t, err)
	assert.Nil(t, results)
}
