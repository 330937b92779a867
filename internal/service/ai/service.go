package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	conv "github.com/docsage/backend/internal/model/conversation"
)

// Completer produces one assistant reply for an ordered list of turns.
type Completer interface {
	Complete(ctx context.Context, turns []conv.Turn, temperature float32) (string, error)
}

// Service adapts an eino chat model to the Completer contract.
type Service struct {
	chatModel model.ChatModel
	logger    *zap.Logger
}

// NewService wraps an already constructed chat model.
func NewService(chatModel model.ChatModel, logger *zap.Logger) *Service {
	return &Service{chatModel: chatModel, logger: logger}
}

// Complete converts the turns into schema messages and runs one generation at
// the requested sampling temperature.
func (s *Service) Complete(ctx context.Context, turns []conv.Turn, temperature float32) (string, error) {
	messages := make([]*schema.Message, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case conv.RoleSystem:
			messages = append(messages, schema.SystemMessage(t.Content))
		case conv.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(t.Content, nil))
		default:
			messages = append(messages, schema.UserMessage(t.Content))
		}
	}

	reply, err := s.chatModel.Generate(ctx, messages, model.WithTemperature(temperature))
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	s.logger.Debug("completion generated",
		zap.Int("turns", len(turns)),
		zap.Int("replyChars", len(reply.Content)))
	return reply.Content, nil
}
