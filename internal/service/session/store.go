package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	conv "github.com/docsage/backend/internal/model/conversation"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyDocument   = errors.New("document text is required")
)

// Store keeps every live session in memory for the process lifetime. There is
// no eviction; sessions disappear only on restart. Appends to a session are
// serialized under the write lock so concurrent follow-ups cannot interleave
// or drop turns.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*conv.Session
}

// NewStore bootstraps an empty in-memory store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*conv.Session)}
}

// Create provisions a session holding the extracted document snapshot and the
// opening turns. The insert is atomic: callers stage the complete opening
// exchange before a session becomes visible.
func (s *Store) Create(_ context.Context, documentText string, history []conv.Turn) (conv.Session, error) {
	if documentText == "" {
		return conv.Session{}, ErrEmptyDocument
	}

	sess := &conv.Session{
		ID:           uuid.NewString(),
		DocumentText: documentText,
		History:      append([]conv.Turn(nil), history...),
		CreatedAt:    time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return snapshot(sess), nil
}

// Get retrieves a copy of the session by identifier.
func (s *Store) Get(_ context.Context, sessionID string) (conv.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return conv.Session{}, ErrSessionNotFound
	}
	return snapshot(sess), nil
}

// DocumentText returns the stored document snapshot for a session.
func (s *Store) DocumentText(_ context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return "", ErrSessionNotFound
	}
	return sess.DocumentText, nil
}

// AppendTurns appends turns to the session history as one unit and returns
// the updated session.
func (s *Store) AppendTurns(_ context.Context, sessionID string, turns ...conv.Turn) (conv.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return conv.Session{}, ErrSessionNotFound
	}

	sess.History = append(sess.History, turns...)
	return snapshot(sess), nil
}

// snapshot copies the session so callers never share the stored slice.
func snapshot(sess *conv.Session) conv.Session {
	copied := *sess
	copied.History = append([]conv.Turn(nil), sess.History...)
	return copied
}
