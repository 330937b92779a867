package session_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	conv "github.com/docsage/backend/internal/model/conversation"
	"github.com/docsage/backend/internal/service/session"
)

func TestCreateAndGet(t *testing.T) {
	store := session.NewStore()
	ctx := context.Background()

	opening := []conv.Turn{
		conv.SystemTurn("persona"),
		conv.UserTurn("document"),
		conv.AssistantTurn("summary"),
	}

	created, err := store.Create(ctx, "document text", opening)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, opening, got.History)

	text, err := store.DocumentText(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "document text", text)
}

func TestCreateRequiresDocumentText(t *testing.T) {
	store := session.NewStore()

	_, err := store.Create(context.Background(), "", nil)
	assert.ErrorIs(t, err, session.ErrEmptyDocument)
}

func TestGetUnknownSession(t *testing.T) {
	store := session.NewStore()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	_, err = store.DocumentText(context.Background(), "missing")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestAppendTurns(t *testing.T) {
	store := session.NewStore()
	ctx := context.Background()

	created, err := store.Create(ctx, "doc", []conv.Turn{conv.SystemTurn("persona")})
	require.NoError(t, err)

	updated, err := store.AppendTurns(ctx, created.ID,
		conv.UserTurn("question"),
		conv.UserTurn("Please answer in 2-3 lines maximum."),
		conv.AssistantTurn("answer"),
	)
	require.NoError(t, err)
	require.Len(t, updated.History, 4)
	assert.Equal(t, conv.RoleSystem, updated.History[0].Role)
	assert.Equal(t, "answer", updated.History[3].Content)
}

func TestAppendTurnsUnknownSession(t *testing.T) {
	store := session.NewStore()

	_, err := store.AppendTurns(context.Background(), "missing", conv.UserTurn("hi"))
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

// Concurrent exchanges on one session must never lose turns, and each
// staged exchange must land contiguously.
func TestConcurrentAppendsStayContiguous(t *testing.T) {
	store := session.NewStore()
	ctx := context.Background()

	created, err := store.Create(ctx, "doc", []conv.Turn{conv.SystemTurn("persona")})
	require.NoError(t, err)

	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.AppendTurns(ctx, created.ID,
				conv.UserTurn("question"),
				conv.AssistantTurn("answer"),
			)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.History, 1+writers*2)
	for i := 1; i < len(got.History); i += 2 {
		assert.Equal(t, conv.RoleUser, got.History[i].Role)
		assert.Equal(t, conv.RoleAssistant, got.History[i+1].Role)
	}
}

// Returned sessions are copies; mutating them must not leak into the store.
func TestSnapshotIsolation(t *testing.T) {
	store := session.NewStore()
	ctx := context.Background()

	created, err := store.Create(ctx, "doc", []conv.Turn{conv.SystemTurn("persona")})
	require.NoError(t, err)

	created.History[0].Content = "mutated"

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "persona", got.History[0].Content)
}
