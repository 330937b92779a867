package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	conv "github.com/docsage/backend/internal/model/conversation"
	"github.com/docsage/backend/internal/service/ai"
	"github.com/docsage/backend/internal/service/session"
)

var (
	ErrEmptyDocument = errors.New("document text is required")
	ErrEmptyMessage  = errors.New("message is required")
)

// Service orchestrates the opening summary and follow-up exchanges against
// the session store.
type Service struct {
	completer ai.Completer
	store     *session.Store
	logger    *zap.Logger
}

// NewService wires the conversation manager.
func NewService(completer ai.Completer, store *session.Store, logger *zap.Logger) *Service {
	return &Service{completer: completer, store: store, logger: logger}
}

// StartSession summarizes the document and persists the opening exchange as a
// new session. Creation is all-or-nothing: a completion failure leaves no
// session behind.
func (s *Service) StartSession(ctx context.Context, documentText string) (string, string, error) {
	documentText = strings.TrimSpace(documentText)
	if documentText == "" {
		return "", "", ErrEmptyDocument
	}

	turns := []conv.Turn{
		conv.SystemTurn(ai.SummaryPersona),
		conv.UserTurn(ai.DocumentPrompt(documentText)),
		conv.UserTurn(ai.SummarizeInstruction),
	}

	summary, err := s.completer.Complete(ctx, turns, ai.SummaryTemperature)
	if err != nil {
		return "", "", fmt.Errorf("generate summary: %w", err)
	}

	turns = append(turns, conv.AssistantTurn(summary))
	sess, err := s.store.Create(ctx, documentText, turns)
	if err != nil {
		return "", "", err
	}

	s.logger.Info("session started",
		zap.String("sessionId", sess.ID),
		zap.Int("documentChars", len(documentText)))
	return sess.ID, summary, nil
}

// Followup appends a user question plus the fixed length-cap turn, resends
// the full accumulated history, and persists the assistant reply. The three
// turns of the exchange are appended together, so a completion failure leaves
// the history untouched.
func (s *Service) Followup(ctx context.Context, sessionID, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}

	staged := []conv.Turn{
		conv.UserTurn(message),
		conv.UserTurn(ai.FollowupLengthCap),
	}

	history := append(append([]conv.Turn(nil), sess.History...), staged...)
	reply, err := s.completer.Complete(ctx, history, ai.SummaryTemperature)
	if err != nil {
		return "", fmt.Errorf("generate follow-up: %w", err)
	}

	staged = append(staged, conv.AssistantTurn(reply))
	if _, err := s.store.AppendTurns(ctx, sessionID, staged...); err != nil {
		return "", err
	}

	s.logger.Info("follow-up answered",
		zap.String("sessionId", sessionID),
		zap.Int("historyTurns", len(history)+1))
	return reply, nil
}
